package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/okian/wordboard/internal/domain/model"
)

const vocabColumns = `id, word, word_type, meaning, example, created_at, updated_at`

// SQLVocabStore is the VocabStore backed by the english_vocabs table.
type SQLVocabStore struct {
	base

	qList     string
	qFind     string
	qFindByID string
	qInsert   string
	qCount    string
	updateSQL func(patch model.VocabPatch) string
}

var _ VocabStore = (*SQLVocabStore)(nil)

// NewVocabStore creates a vocabulary store on db.
func NewVocabStore(db *sqlx.DB, opts ...Option) *SQLVocabStore {
	s := &SQLVocabStore{
		base:      newBase(db, opts),
		qList:     `SELECT ` + vocabColumns + ` FROM english_vocabs`,
		qFind:     db.Rebind(`SELECT ` + vocabColumns + ` FROM english_vocabs WHERE word = ?`),
		qFindByID: db.Rebind(`SELECT ` + vocabColumns + ` FROM english_vocabs WHERE id = ?`),
		qInsert:   db.Rebind(`INSERT INTO english_vocabs (word, word_type, meaning, example, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		qCount:    `SELECT COUNT(*) FROM english_vocabs`,
	}
	s.updateSQL = func(patch model.VocabPatch) string {
		sets := make([]string, 0, 4)
		if patch.WordType.Set {
			sets = append(sets, "word_type = ?")
		}
		if patch.Meaning.Set {
			sets = append(sets, "meaning = ?")
		}
		if patch.Example.Set {
			sets = append(sets, "example = ?")
		}
		sets = append(sets, "updated_at = ?")
		return db.Rebind(`UPDATE english_vocabs SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`)
	}
	return s
}

// List returns every entry; order is unspecified.
func (s *SQLVocabStore) List(ctx context.Context) ([]model.VocabEntry, error) {
	entries := []model.VocabEntry{}
	err := withConn(ctx, s.db, func(conn *sqlx.Conn) error {
		if err := conn.SelectContext(ctx, &entries, s.qList); err != nil {
			return fmt.Errorf("list vocabs: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByWord returns the entry with exactly this word.
func (s *SQLVocabStore) FindByWord(ctx context.Context, word string) (model.VocabEntry, error) {
	var e model.VocabEntry
	err := withConn(ctx, s.db, func(conn *sqlx.Conn) error {
		var err error
		e, err = s.findByWord(ctx, conn, word)
		return err
	})
	return e, err
}

// Create inserts a new entry and returns it with its assigned id.
func (s *SQLVocabStore) Create(ctx context.Context, in model.VocabInput) (model.VocabEntry, error) {
	var e model.VocabEntry
	err := withConn(ctx, s.db, func(conn *sqlx.Conn) error {
		var err error
		e, err = s.insert(ctx, conn, in)
		return err
	})
	return e, err
}

// Update writes the present fields of patch. updated_at always moves, even
// when no field is present.
func (s *SQLVocabStore) Update(ctx context.Context, existing model.VocabEntry, patch model.VocabPatch) (model.VocabEntry, error) {
	args := make([]any, 0, 5)
	if patch.WordType.Set {
		args = append(args, patch.WordType.Value)
	}
	if patch.Meaning.Set {
		args = append(args, patch.Meaning.Value)
	}
	if patch.Example.Set {
		args = append(args, patch.Example.Value)
	}
	args = append(args, s.now(), existing.ID)

	var updated model.VocabEntry
	err := withConn(ctx, s.db, func(conn *sqlx.Conn) error {
		res, err := conn.ExecContext(ctx, s.updateSQL(patch), args...)
		if err != nil {
			return fmt.Errorf("update vocab %q: %w", existing.Word, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("update vocab %q: %w", existing.Word, err)
		}
		if n == 0 {
			return fmt.Errorf("update vocab %q: %w", existing.Word, ErrNotFound)
		}
		if err := conn.GetContext(ctx, &updated, s.qFindByID, existing.ID); err != nil {
			return fmt.Errorf("reload vocab %q: %w", existing.Word, err)
		}
		return nil
	})
	return updated, err
}

// BulkCreate inserts every input whose word is not stored yet. Nil and
// blank inputs are counted as received and otherwise ignored.
func (s *SQLVocabStore) BulkCreate(ctx context.Context, in []*model.VocabInput) (model.BulkResult, error) {
	res := model.BulkResult{WordsReceived: len(in)}
	err := withConn(ctx, s.db, func(conn *sqlx.Conn) error {
		for _, item := range in {
			if item.Blank() {
				continue
			}
			_, err := s.findByWord(ctx, conn, item.Word)
			switch {
			case err == nil:
				res.ExistingWords.Add(item.Word)
				continue
			case !errors.Is(err, ErrNotFound):
				return err
			}
			if _, err := s.insert(ctx, conn, *item); err != nil {
				if errors.Is(err, ErrWordExists) {
					res.ExistingWords.Add(item.Word)
					continue
				}
				return err
			}
			res.WordsInserted++
		}
		return nil
	})
	return res, err
}

// Count returns the number of stored entries.
func (s *SQLVocabStore) Count(ctx context.Context) (int, error) {
	var n int
	err := withConn(ctx, s.db, func(conn *sqlx.Conn) error {
		if err := conn.GetContext(ctx, &n, s.qCount); err != nil {
			return fmt.Errorf("count vocabs: %w", err)
		}
		return nil
	})
	return n, err
}

func (s *SQLVocabStore) findByWord(ctx context.Context, conn *sqlx.Conn, word string) (model.VocabEntry, error) {
	var e model.VocabEntry
	err := conn.GetContext(ctx, &e, s.qFind, word)
	if errors.Is(err, sql.ErrNoRows) {
		return model.VocabEntry{}, fmt.Errorf("vocab %q: %w", word, ErrNotFound)
	}
	if err != nil {
		return model.VocabEntry{}, fmt.Errorf("find vocab %q: %w", word, err)
	}
	return e, nil
}

// insert relies on the UNIQUE(word) constraint; a concurrent insert of the
// same word surfaces here as ErrWordExists.
func (s *SQLVocabStore) insert(ctx context.Context, conn *sqlx.Conn, in model.VocabInput) (model.VocabEntry, error) {
	now := s.now()
	e := model.VocabEntry{
		Word:      in.Word,
		WordType:  in.WordType,
		Meaning:   in.Meaning,
		Example:   in.Example,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := conn.QueryRowxContext(ctx, s.qInsert, e.Word, e.WordType, e.Meaning, e.Example, e.CreatedAt, e.UpdatedAt).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return model.VocabEntry{}, fmt.Errorf("create vocab %q: %w", in.Word, ErrWordExists)
		}
		return model.VocabEntry{}, fmt.Errorf("create vocab %q: %w", in.Word, err)
	}
	return e, nil
}
