// Package archive runs the background snapshot job that exports every vocab
// entry to a JSON file. One service instance exists per process; at most one
// snapshot write is ever in flight.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/natefinch/atomic"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/vocabbook/internal/entity"
)

// State of the archive job.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Status is a point-in-time snapshot of the job.
type Status struct {
	State      State     `json:"state"`
	File       string    `json:"file,omitempty"`
	Rows       int       `json:"rows,omitempty"`
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Snapshotter provides the rows to archive.
type Snapshotter interface {
	All(ctx context.Context) ([]*entity.Vocab, error)
}

// Service is the archive job state machine: idle -> running -> done|failed,
// with Reset returning to idle. All transitions happen under mu; the snapshot
// write itself runs in a goroutine detached from any request lifetime.
type Service struct {
	repo   Snapshotter
	dir    string
	logger *logrus.Logger

	mu       sync.Mutex
	state    State
	file     string
	rows     int
	err      error
	started  time.Time
	finished time.Time
}

func NewService(repo Snapshotter, dir string, logger *logrus.Logger) *Service {
	return &Service{repo: repo, dir: dir, logger: logger, state: StateIdle}
}

// Start begins a snapshot when the job is idle (or failed) and returns the
// resulting status. When a snapshot is already running or done it changes
// nothing, so concurrent or repeated calls never start overlapping writes.
func (s *Service) Start() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning || s.state == StateDone {
		return s.statusLocked()
	}
	s.state = StateRunning
	s.file = ""
	s.rows = 0
	s.err = nil
	s.started = time.Now().UTC()
	s.finished = time.Time{}
	go s.run()
	return s.statusLocked()
}

// Status never blocks and is safe to call from polling loops.
func (s *Service) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// ResultPath returns the snapshot file location once the job is done.
func (s *Service) ResultPath() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateDone {
		return "", entity.ErrArchiveNotReady
	}
	return s.file, nil
}

// Reset clears a finished (or failed) job back to idle and removes the
// snapshot file. An in-flight write is never interrupted.
func (s *Service) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRunning {
		return entity.ErrArchiveRunning
	}
	if s.file != "" {
		if err := os.Remove(s.file); err != nil && !os.IsNotExist(err) {
			s.logger.WithError(err).Warn("remove archive file")
		}
	}
	s.state = StateIdle
	s.file = ""
	s.rows = 0
	s.err = nil
	s.started = time.Time{}
	s.finished = time.Time{}
	return nil
}

func (s *Service) run() {
	// Detached from the request that triggered the job; completion is
	// observed through Status polls.
	ctx := context.Background()
	path := filepath.Join(s.dir, fmt.Sprintf("vocab-archive-%s.json", time.Now().UTC().Format("20060102-150405")))

	rows, err := s.snapshot(ctx, path)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = time.Now().UTC()
	if err != nil {
		s.state = StateFailed
		s.err = err
		s.logger.WithError(err).Error("archive snapshot failed")
		return
	}
	s.state = StateDone
	s.file = path
	s.rows = rows
	s.logger.WithFields(logrus.Fields{"file": path, "rows": rows}).Info("archive snapshot complete")
}

func (s *Service) snapshot(ctx context.Context, path string) (int, error) {
	entries, err := s.repo.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("load entries: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create archive dir: %w", err)
	}
	var buf bytes.Buffer
	if err := WriteSnapshot(&buf, entries); err != nil {
		return 0, err
	}
	if err := atomic.WriteFile(path, &buf); err != nil {
		return 0, fmt.Errorf("write archive file: %w", err)
	}
	return len(entries), nil
}

// WriteSnapshot encodes entries as an indented JSON array with non-ASCII
// characters preserved literally.
func WriteSnapshot(w io.Writer, entries []*entity.Vocab) error {
	if entries == nil {
		entries = []*entity.Vocab{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

func (s *Service) statusLocked() Status {
	st := Status{
		State:      s.state,
		File:       s.file,
		Rows:       s.rows,
		StartedAt:  s.started,
		FinishedAt: s.finished,
	}
	if s.err != nil {
		st.Error = s.err.Error()
	}
	return st
}
