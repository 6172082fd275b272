package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/samber/lo"

	"github.com/eslsoft/vocabbook/internal/entity"
	"github.com/eslsoft/vocabbook/internal/repository"
)

const vocabColumns = "id, word, context, source, freq, created_at"

type vocabRepository struct {
	db     *sql.DB
	driver string
}

// NewVocabRepository returns a VocabRepository backed by db. driver must be
// "sqlite3" or "postgres"; it controls placeholder syntax and constraint error
// translation.
func NewVocabRepository(db *sql.DB, driver string) repository.VocabRepository {
	return &vocabRepository{db: db, driver: driver}
}

func (r *vocabRepository) Create(ctx context.Context, vocab *entity.Vocab) (*entity.Vocab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query := r.rebind(`INSERT INTO vocabs (word, context, source, freq, created_at)
		VALUES (?, ?, ?, ?, ?) RETURNING ` + vocabColumns)
	row := r.db.QueryRowContext(ctx, query, vocab.Word, vocab.Context, vocab.Source, vocab.Freq, vocab.CreatedAt)
	created, err := scanVocab(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, entity.ErrDuplicateWord
		}
		return nil, fmt.Errorf("create vocab: %w", err)
	}
	return created, nil
}

func (r *vocabRepository) Update(ctx context.Context, vocab *entity.Vocab) (*entity.Vocab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	query := r.rebind(`UPDATE vocabs SET word = ?, context = ?, source = ?, freq = ?
		WHERE id = ? RETURNING ` + vocabColumns)
	row := r.db.QueryRowContext(ctx, query, vocab.Word, vocab.Context, vocab.Source, vocab.Freq, vocab.ID)
	updated, err := scanVocab(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrVocabNotFound
		}
		if isUniqueViolation(err) {
			return nil, entity.ErrDuplicateWord
		}
		return nil, fmt.Errorf("update vocab: %w", err)
	}
	return updated, nil
}

func (r *vocabRepository) GetByID(ctx context.Context, id int64) (*entity.Vocab, error) {
	row := r.db.QueryRowContext(ctx, r.rebind("SELECT "+vocabColumns+" FROM vocabs WHERE id = ?"), id)
	vocab, err := scanVocab(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrVocabNotFound
		}
		return nil, fmt.Errorf("get vocab: %w", err)
	}
	return vocab, nil
}

func (r *vocabRepository) LookupWord(ctx context.Context, word string) (*entity.Vocab, error) {
	row := r.db.QueryRowContext(ctx, r.rebind("SELECT "+vocabColumns+" FROM vocabs WHERE word = ?"), word)
	vocab, err := scanVocab(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup word: %w", err)
	}
	return vocab, nil
}

// List fetches limit+1 rows resuming strictly after the cursor and reports
// has_more from the extra row. Resuming on (freq, id) instead of an offset
// keeps already-traversed pages stable under concurrent inserts and deletes.
func (r *vocabRepository) List(ctx context.Context, query *repository.ListQuery) ([]*entity.Vocab, bool, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString("SELECT " + vocabColumns + " FROM vocabs")
	if c := query.Cursor; c != nil {
		sb.WriteString(" WHERE freq < ? OR (freq = ? AND id < ?)")
		args = append(args, c.Freq, c.Freq, c.ID)
	}
	sb.WriteString(" ORDER BY freq DESC, id DESC LIMIT ?")
	args = append(args, limit+1)

	rows, err := r.db.QueryContext(ctx, r.rebind(sb.String()), args...)
	if err != nil {
		return nil, false, fmt.Errorf("list vocabs: %w", err)
	}
	defer rows.Close()

	vocabs, err := collectVocabs(rows)
	if err != nil {
		return nil, false, fmt.Errorf("list vocabs: %w", err)
	}
	hasMore := len(vocabs) > int(limit)
	if hasMore {
		vocabs = vocabs[:limit]
	}
	return vocabs, hasMore, nil
}

func (r *vocabRepository) Search(ctx context.Context, keyword string) ([]*entity.Vocab, error) {
	pattern := "%" + escapeLike(strings.ToLower(strings.TrimSpace(keyword))) + "%"
	query := r.rebind(`SELECT ` + vocabColumns + ` FROM vocabs
		WHERE LOWER(word) LIKE ? ESCAPE '\'
		   OR LOWER(context) LIKE ? ESCAPE '\'
		   OR LOWER(source) LIKE ? ESCAPE '\'
		ORDER BY freq DESC, id DESC`)
	rows, err := r.db.QueryContext(ctx, query, pattern, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("search vocabs: %w", err)
	}
	defer rows.Close()

	vocabs, err := collectVocabs(rows)
	if err != nil {
		return nil, fmt.Errorf("search vocabs: %w", err)
	}
	return vocabs, nil
}

func (r *vocabRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.rebind("DELETE FROM vocabs WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete vocab: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vocab: %w", err)
	}
	if affected == 0 {
		return entity.ErrVocabNotFound
	}
	return nil
}

func (r *vocabRepository) DeleteByIDs(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	placeholders := strings.Join(lo.Times(len(ids), func(int) string { return "?" }), ", ")
	args := lo.Map(ids, func(id int64, _ int) any { return id })
	res, err := r.db.ExecContext(ctx, r.rebind("DELETE FROM vocabs WHERE id IN ("+placeholders+")"), args...)
	if err != nil {
		return 0, fmt.Errorf("delete vocabs: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete vocabs: %w", err)
	}
	return affected, nil
}

func (r *vocabRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM vocabs").Scan(&count); err != nil {
		return 0, fmt.Errorf("count vocabs: %w", err)
	}
	return count, nil
}

func (r *vocabRepository) All(ctx context.Context) ([]*entity.Vocab, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+vocabColumns+" FROM vocabs ORDER BY freq DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("load vocabs: %w", err)
	}
	defer rows.Close()

	vocabs, err := collectVocabs(rows)
	if err != nil {
		return nil, fmt.Errorf("load vocabs: %w", err)
	}
	return vocabs, nil
}

// rebind rewrites ? placeholders to $1..$n for postgres.
func (r *vocabRepository) rebind(query string) string {
	if r.driver != "postgres" {
		return query
	}
	var sb strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			fmt.Fprintf(&sb, "$%d", n)
			continue
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVocab(row rowScanner) (*entity.Vocab, error) {
	var v entity.Vocab
	if err := row.Scan(&v.ID, &v.Word, &v.Context, &v.Source, &v.Freq, &v.CreatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func collectVocabs(rows *sql.Rows) ([]*entity.Vocab, error) {
	vocabs := make([]*entity.Vocab, 0)
	for rows.Next() {
		v, err := scanVocab(rows)
		if err != nil {
			return nil, err
		}
		vocabs = append(vocabs, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return vocabs, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	// go-sqlite3 reports constraint failures as plain error strings.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") || strings.Contains(msg, "constraint failed")
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}
