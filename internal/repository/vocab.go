package repository

import (
	"context"

	"github.com/eslsoft/vocabbook/internal/entity"
)

// ListQuery holds cursor pagination parameters for listing vocab entries.
type ListQuery struct {
	// Limit is the page size. The repository fetches one extra row to decide
	// whether more pages exist.
	Limit int32
	// Cursor resumes strictly after the given (freq, id) pair. Nil means the
	// first page.
	Cursor *entity.Cursor
}

// VocabRepository defines data access for vocab entries.
type VocabRepository interface {
	Create(ctx context.Context, vocab *entity.Vocab) (*entity.Vocab, error)
	Update(ctx context.Context, vocab *entity.Vocab) (*entity.Vocab, error)
	GetByID(ctx context.Context, id int64) (*entity.Vocab, error)
	// LookupWord returns the entry with the exact word, or nil when absent.
	LookupWord(ctx context.Context, word string) (*entity.Vocab, error)
	// List returns one page in (freq DESC, id DESC) order plus a has-more flag.
	List(ctx context.Context, query *ListQuery) ([]*entity.Vocab, bool, error)
	// Search returns all entries whose word, context or source contains the
	// keyword (case-insensitive), ordered by freq DESC, id DESC.
	Search(ctx context.Context, keyword string) ([]*entity.Vocab, error)
	Delete(ctx context.Context, id int64) error
	DeleteByIDs(ctx context.Context, ids []int64) (int64, error)
	Count(ctx context.Context) (int64, error)
	// All returns every entry in (freq DESC, id DESC) order.
	All(ctx context.Context) ([]*entity.Vocab, error)
}
