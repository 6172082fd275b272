package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocabbook/internal/entity"
)

type fakeSnapshotter struct {
	entries []*entity.Vocab
	err     error
	calls   atomic.Int64
	// When release is non-nil, All blocks until it is closed.
	release chan struct{}
}

func (f *fakeSnapshotter) All(ctx context.Context) ([]*entity.Vocab, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func waitForState(t *testing.T, s *Service, want State) Status {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if st := s.Status(); st.State == want {
			return st
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for state %q, last status %+v", want, s.Status())
	return Status{}
}

func TestStartRunsToDone(t *testing.T) {
	dir := t.TempDir()
	repo := &fakeSnapshotter{entries: []*entity.Vocab{
		{ID: 1, Word: "héllo", Context: "a & b"},
		{ID: 2, Word: "world"},
	}}
	s := NewService(repo, dir, quietLogger())

	st := s.Start()
	if st.State != StateRunning {
		t.Fatalf("expected running after Start, got %q", st.State)
	}
	if st.StartedAt.IsZero() {
		t.Error("expected started_at to be set")
	}

	st = waitForState(t, s, StateDone)
	if st.Rows != 2 {
		t.Errorf("expected 2 rows, got %d", st.Rows)
	}
	if st.File == "" || filepath.Dir(st.File) != dir {
		t.Errorf("expected file inside %s, got %q", dir, st.File)
	}
	if st.FinishedAt.IsZero() {
		t.Error("expected finished_at to be set")
	}

	path, err := s.ResultPath()
	if err != nil {
		t.Fatalf("ResultPath returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading archive file: %v", err)
	}
	if !strings.Contains(string(data), "héllo") {
		t.Error("expected non-ASCII word preserved literally")
	}
	if !strings.Contains(string(data), "a & b") {
		t.Error("expected '&' preserved without HTML escaping")
	}
	var decoded []*entity.Vocab
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("archive file is not valid JSON: %v", err)
	}
	if len(decoded) != 2 {
		t.Errorf("expected 2 decoded entries, got %d", len(decoded))
	}
}

func TestStartIsIdempotentWhileRunning(t *testing.T) {
	repo := &fakeSnapshotter{release: make(chan struct{})}
	s := NewService(repo, t.TempDir(), quietLogger())

	first := s.Start()
	second := s.Start()
	if first.State != StateRunning || second.State != StateRunning {
		t.Fatalf("expected both starts to report running, got %q and %q", first.State, second.State)
	}

	close(repo.release)
	waitForState(t, s, StateDone)
	if got := repo.calls.Load(); got != 1 {
		t.Errorf("expected a single snapshot run, got %d", got)
	}

	// Done is terminal for Start until a Reset.
	if st := s.Start(); st.State != StateDone {
		t.Errorf("expected Start after done to be a no-op, got %q", st.State)
	}
	if got := repo.calls.Load(); got != 1 {
		t.Errorf("expected no extra run after done, got %d", got)
	}
}

func TestResultPathBeforeDone(t *testing.T) {
	repo := &fakeSnapshotter{release: make(chan struct{})}
	s := NewService(repo, t.TempDir(), quietLogger())

	if _, err := s.ResultPath(); !errors.Is(err, entity.ErrArchiveNotReady) {
		t.Fatalf("expected ErrArchiveNotReady while idle, got %v", err)
	}

	s.Start()
	if _, err := s.ResultPath(); !errors.Is(err, entity.ErrArchiveNotReady) {
		t.Fatalf("expected ErrArchiveNotReady while running, got %v", err)
	}
	close(repo.release)
	waitForState(t, s, StateDone)
}

func TestResetWhileRunning(t *testing.T) {
	repo := &fakeSnapshotter{release: make(chan struct{})}
	s := NewService(repo, t.TempDir(), quietLogger())

	s.Start()
	if err := s.Reset(); !errors.Is(err, entity.ErrArchiveRunning) {
		t.Fatalf("expected ErrArchiveRunning, got %v", err)
	}
	close(repo.release)
	waitForState(t, s, StateDone)
}

func TestResetRemovesFileAndAllowsRestart(t *testing.T) {
	repo := &fakeSnapshotter{entries: []*entity.Vocab{{ID: 1, Word: "reset"}}}
	s := NewService(repo, t.TempDir(), quietLogger())

	s.Start()
	st := waitForState(t, s, StateDone)

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset returned error: %v", err)
	}
	if _, err := os.Stat(st.File); !os.IsNotExist(err) {
		t.Errorf("expected archive file removed, stat err = %v", err)
	}
	if got := s.Status(); got.State != StateIdle || got.File != "" || got.Rows != 0 {
		t.Errorf("expected clean idle status, got %+v", got)
	}

	s.Start()
	waitForState(t, s, StateDone)
	if got := repo.calls.Load(); got != 2 {
		t.Errorf("expected second run after reset, got %d calls", got)
	}
}

func TestFailedRunRecordsErrorAndAllowsRetry(t *testing.T) {
	repo := &fakeSnapshotter{err: errors.New("connection refused")}
	s := NewService(repo, t.TempDir(), quietLogger())

	s.Start()
	st := waitForState(t, s, StateFailed)
	if !strings.Contains(st.Error, "connection refused") {
		t.Errorf("expected recorded error, got %q", st.Error)
	}
	if _, err := s.ResultPath(); !errors.Is(err, entity.ErrArchiveNotReady) {
		t.Errorf("expected ErrArchiveNotReady after failure, got %v", err)
	}

	// A failed job may be started again without a reset.
	repo.err = nil
	repo.entries = []*entity.Vocab{{ID: 7, Word: "retry"}}
	if st := s.Start(); st.State != StateRunning {
		t.Fatalf("expected restart from failed, got %q", st.State)
	}
	st = waitForState(t, s, StateDone)
	if st.Rows != 1 || st.Error != "" {
		t.Errorf("expected clean done status after retry, got %+v", st)
	}
}

func TestWriteSnapshotEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, nil); err != nil {
		t.Fatalf("WriteSnapshot returned error: %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != "[]" {
		t.Errorf("expected empty JSON array, got %q", got)
	}
}
