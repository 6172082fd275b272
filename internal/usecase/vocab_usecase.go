package usecase

import (
	"context"
	"time"

	"github.com/eslsoft/vocabbook/internal/entity"
	"github.com/eslsoft/vocabbook/internal/repository"
	"github.com/eslsoft/vocabbook/pkg/wordfreq"
)

// VocabUsecase defines business logic for vocab entries.
type VocabUsecase interface {
	Create(ctx context.Context, vocab *entity.Vocab) (*entity.Vocab, error)
	Update(ctx context.Context, vocab *entity.Vocab) (*entity.Vocab, error)
	Get(ctx context.Context, id int64) (*entity.Vocab, error)
	// List returns one page ordered by (freq DESC, id DESC), resuming after
	// cursor when given, plus a flag telling whether more pages exist.
	List(ctx context.Context, cursor *entity.Cursor) ([]*entity.Vocab, bool, error)
	Search(ctx context.Context, keyword string) ([]*entity.Vocab, error)
	Delete(ctx context.Context, id int64) error
	DeleteMany(ctx context.Context, ids []int64) (int64, error)
	Count(ctx context.Context) (int64, error)
	// WordTaken reports whether word is already used by an entry other than
	// excludeID (pass 0 to consider every entry).
	WordTaken(ctx context.Context, word string, excludeID int64) (bool, error)
}

const (
	_defaultLanguage = "en"
	_defaultPageSize = int32(10)
)

type vocabUsecase struct {
	repo     repository.VocabRepository
	scorer   wordfreq.Scorer
	language string
	pageSize int32
}

func NewVocabUsecase(repo repository.VocabRepository, scorer wordfreq.Scorer, language string, pageSize int32) VocabUsecase {
	if language == "" {
		language = _defaultLanguage
	}
	if pageSize <= 0 {
		pageSize = _defaultPageSize
	}
	return &vocabUsecase{repo: repo, scorer: scorer, language: language, pageSize: pageSize}
}

func (u *vocabUsecase) Create(ctx context.Context, vocab *entity.Vocab) (*entity.Vocab, error) {
	norm, err := u.normalize(vocab)
	if err != nil {
		return nil, err
	}
	norm.CreatedAt = time.Now().UTC()
	return u.repo.Create(ctx, norm)
}

func (u *vocabUsecase) Update(ctx context.Context, vocab *entity.Vocab) (*entity.Vocab, error) {
	norm, err := u.normalize(vocab)
	if err != nil {
		return nil, err
	}
	if norm.ID <= 0 {
		return nil, entity.ErrInvalidVocabID
	}
	return u.repo.Update(ctx, norm)
}

func (u *vocabUsecase) Get(ctx context.Context, id int64) (*entity.Vocab, error) {
	if id <= 0 {
		return nil, entity.ErrInvalidVocabID
	}
	return u.repo.GetByID(ctx, id)
}

func (u *vocabUsecase) List(ctx context.Context, cursor *entity.Cursor) ([]*entity.Vocab, bool, error) {
	return u.repo.List(ctx, &repository.ListQuery{Limit: u.pageSize, Cursor: cursor})
}

func (u *vocabUsecase) Search(ctx context.Context, keyword string) ([]*entity.Vocab, error) {
	return u.repo.Search(ctx, keyword)
}

func (u *vocabUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return entity.ErrInvalidVocabID
	}
	return u.repo.Delete(ctx, id)
}

func (u *vocabUsecase) DeleteMany(ctx context.Context, ids []int64) (int64, error) {
	valid := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id > 0 {
			valid = append(valid, id)
		}
	}
	if len(valid) == 0 {
		return 0, nil
	}
	return u.repo.DeleteByIDs(ctx, valid)
}

func (u *vocabUsecase) Count(ctx context.Context) (int64, error) {
	return u.repo.Count(ctx)
}

func (u *vocabUsecase) WordTaken(ctx context.Context, word string, excludeID int64) (bool, error) {
	word = entity.NormalizeWord(word)
	if word == "" {
		return false, entity.ErrInvalidVocabWord
	}
	existing, err := u.repo.LookupWord(ctx, word)
	if err != nil {
		return false, err
	}
	return existing != nil && existing.ID != excludeID, nil
}

// normalize trims the word and recomputes freq from it, so a stored score is
// never stale with respect to the current word.
func (u *vocabUsecase) normalize(in *entity.Vocab) (*entity.Vocab, error) {
	if in == nil {
		return nil, entity.ErrInvalidVocabWord
	}
	word := entity.NormalizeWord(in.Word)
	if word == "" {
		return nil, entity.ErrInvalidVocabWord
	}
	out := *in
	out.Word = word
	out.Freq = u.scorer.Score(word, u.language)
	return &out, nil
}
