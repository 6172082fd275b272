package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eslsoft/vocabbook/internal/entity"
	"github.com/eslsoft/vocabbook/internal/usecase/archive"
)

func waitForArchiveState(t *testing.T, svc *archive.Service, want archive.State) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if svc.Status().State == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for archive state %q", want)
}

func TestArchivePanelIdle(t *testing.T) {
	router := newTestRouter(t, &mockUsecase{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vocabs/archive", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Export archive")
}

func TestStartArchiveRunsToDownload(t *testing.T) {
	logger := testLogger()
	snap := &stubSnapshotter{entries: []*entity.Vocab{{ID: 1, Word: "done"}}}
	svc := archive.NewService(snap, t.TempDir(), logger)
	router := NewRouter(NewHandler(&mockUsecase{}, svc, logger), logger, gin.TestMode)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/vocabs/archive", nil))
	require.Equal(t, http.StatusOK, w.Code)

	waitForArchiveState(t, svc, archive.StateDone)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vocabs/archive", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Download archive.json")
	assert.Contains(t, w.Body.String(), "(1 entries)")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vocabs/archive/file", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="archive.json"`)
	assert.Contains(t, w.Body.String(), "done")
}

func TestArchiveFileBeforeDone(t *testing.T) {
	router := newTestRouter(t, &mockUsecase{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vocabs/archive/file", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestArchivePanelWhileRunning(t *testing.T) {
	logger := testLogger()
	snap := &stubSnapshotter{release: make(chan struct{})}
	svc := archive.NewService(snap, t.TempDir(), logger)
	router := NewRouter(NewHandler(&mockUsecase{}, svc, logger), logger, gin.TestMode)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/vocabs/archive", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Archiving")

	// Reset is refused while the snapshot is still writing.
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/vocabs/archive", nil))
	assert.Equal(t, http.StatusConflict, w.Code)

	close(snap.release)
	waitForArchiveState(t, svc, archive.StateDone)
}

func TestResetArchiveReturnsIdlePanel(t *testing.T) {
	logger := testLogger()
	snap := &stubSnapshotter{entries: []*entity.Vocab{{ID: 1, Word: "gone"}}}
	svc := archive.NewService(snap, t.TempDir(), logger)
	router := NewRouter(NewHandler(&mockUsecase{}, svc, logger), logger, gin.TestMode)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/vocabs/archive", nil))
	require.Equal(t, http.StatusOK, w.Code)
	waitForArchiveState(t, svc, archive.StateDone)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/vocabs/archive", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Export archive")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vocabs/archive/file", nil))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestArchivePanelShowsFailure(t *testing.T) {
	logger := testLogger()
	snap := &stubSnapshotter{err: assert.AnError}
	svc := archive.NewService(snap, t.TempDir(), logger)
	router := NewRouter(NewHandler(&mockUsecase{}, svc, logger), logger, gin.TestMode)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/vocabs/archive", nil))
	require.Equal(t, http.StatusOK, w.Code)
	waitForArchiveState(t, svc, archive.StateFailed)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vocabs/archive", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Archive failed")
	assert.Contains(t, w.Body.String(), "Retry")
}

func TestArchivePanelFromIndexPage(t *testing.T) {
	uc := &mockUsecase{
		listFn: func(_ context.Context, _ *entity.Cursor) ([]*entity.Vocab, bool, error) {
			return nil, false, nil
		},
	}
	router := newTestRouter(t, uc, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/vocabs", nil))

	require.Equal(t, http.StatusOK, w.Code)
	// The index page lazy-loads the archive panel fragment.
	assert.Contains(t, w.Body.String(), `hx-get="/vocabs/archive"`)
}
