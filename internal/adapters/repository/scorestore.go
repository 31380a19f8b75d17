package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/okian/wordboard/internal/domain/model"
)

const scoreColumns = `id, high_score, high_scorer, created_at`

// SQLScoreStore is the ScoreStore backed by the high_scores table.
type SQLScoreStore struct {
	base

	qList    string
	qHighest string
	qInsert  string
	qDelete  string
	qCount   string
}

var _ ScoreStore = (*SQLScoreStore)(nil)

// NewScoreStore creates a score store on db.
func NewScoreStore(db *sqlx.DB, opts ...Option) *SQLScoreStore {
	return &SQLScoreStore{
		base:     newBase(db, opts),
		qList:    `SELECT ` + scoreColumns + ` FROM high_scores ORDER BY high_score DESC`,
		qHighest: `SELECT ` + scoreColumns + ` FROM high_scores ORDER BY high_score DESC LIMIT 1`,
		qInsert:  db.Rebind(`INSERT INTO high_scores (high_score, high_scorer, created_at) VALUES (?, ?, ?) RETURNING id`),
		qDelete:  db.Rebind(`DELETE FROM high_scores WHERE LOWER(high_scorer) = LOWER(?)`),
		qCount:   `SELECT COUNT(*) FROM high_scores`,
	}
}

// List returns every row, highest score first.
func (s *SQLScoreStore) List(ctx context.Context) ([]model.ScoreEntry, error) {
	entries := []model.ScoreEntry{}
	err := withConn(ctx, s.db, func(conn *sqlx.Conn) error {
		if err := conn.SelectContext(ctx, &entries, s.qList); err != nil {
			return fmt.Errorf("list scores: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Highest returns the top row.
func (s *SQLScoreStore) Highest(ctx context.Context) (model.ScoreEntry, error) {
	var e model.ScoreEntry
	err := withConn(ctx, s.db, func(conn *sqlx.Conn) error {
		err := conn.GetContext(ctx, &e, s.qHighest)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("highest score: %w", ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("highest score: %w", err)
		}
		return nil
	})
	return e, err
}

// Create inserts a row and returns it with its assigned id.
func (s *SQLScoreStore) Create(ctx context.Context, in model.ScoreInput) (model.ScoreEntry, error) {
	e := model.ScoreEntry{
		HighScore:  in.HighScore,
		HighScorer: in.HighScorer,
		CreatedAt:  s.now(),
	}
	err := withConn(ctx, s.db, func(conn *sqlx.Conn) error {
		err := conn.QueryRowxContext(ctx, s.qInsert, e.HighScore, e.HighScorer, e.CreatedAt).Scan(&e.ID)
		if err != nil {
			return fmt.Errorf("create score for %q: %w", in.HighScorer, err)
		}
		return nil
	})
	if err != nil {
		return model.ScoreEntry{}, err
	}
	return e, nil
}

// DeleteByOwner removes all rows of name in one statement.
func (s *SQLScoreStore) DeleteByOwner(ctx context.Context, name string) (int64, error) {
	var n int64
	err := withConn(ctx, s.db, func(conn *sqlx.Conn) error {
		res, err := conn.ExecContext(ctx, s.qDelete, name)
		if err != nil {
			return fmt.Errorf("delete scores of %q: %w", name, err)
		}
		n, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete scores of %q: %w", name, err)
		}
		return nil
	})
	return n, err
}

// Count returns the number of stored rows.
func (s *SQLScoreStore) Count(ctx context.Context) (int, error) {
	var n int
	err := withConn(ctx, s.db, func(conn *sqlx.Conn) error {
		if err := conn.GetContext(ctx, &n, s.qCount); err != nil {
			return fmt.Errorf("count scores: %w", err)
		}
		return nil
	})
	return n, err
}
