package entity

import "errors"

// Domain errors for vocab entries and the archive job.
var (
	ErrVocabNotFound    = errors.New("vocab not found")
	ErrDuplicateWord    = errors.New("word already exists")
	ErrInvalidVocabID   = errors.New("invalid vocab ID")
	ErrInvalidVocabWord = errors.New("invalid vocab word")
	ErrArchiveNotReady  = errors.New("archive not ready")
	ErrArchiveRunning   = errors.New("archive still running")
)
