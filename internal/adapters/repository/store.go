// Package repository persists vocabulary and score entries.
package repository

import (
	"context"

	"github.com/okian/wordboard/internal/domain/model"
)

// VocabStore provides read/write access to dictionary words.
type VocabStore interface {
	// List returns every entry in storage order.
	List(ctx context.Context) ([]model.VocabEntry, error)
	// FindByWord returns the entry whose word matches exactly.
	// Returns ErrNotFound if no entry matches.
	FindByWord(ctx context.Context, word string) (model.VocabEntry, error)
	// Create inserts a new entry. Returns ErrWordExists when the word is taken.
	Create(ctx context.Context, in model.VocabInput) (model.VocabEntry, error)
	// Update applies the present fields of patch and refreshes updated_at.
	Update(ctx context.Context, existing model.VocabEntry, patch model.VocabPatch) (model.VocabEntry, error)
	// BulkCreate inserts inputs in order, skipping words that already exist.
	// On a storage fault the partial result is returned with the error.
	BulkCreate(ctx context.Context, in []*model.VocabInput) (model.BulkResult, error)
	// Count returns the number of stored entries.
	Count(ctx context.Context) (int, error)
}

// ScoreStore provides read/write access to leaderboard rows.
type ScoreStore interface {
	// List returns every row ordered by high score descending. Ties are
	// returned in engine order, which is not deterministic.
	List(ctx context.Context) ([]model.ScoreEntry, error)
	// Highest returns the row with the maximum score.
	// Returns ErrNotFound if the store is empty.
	Highest(ctx context.Context) (model.ScoreEntry, error)
	// Create inserts a row unconditionally.
	Create(ctx context.Context, in model.ScoreInput) (model.ScoreEntry, error)
	// DeleteByOwner removes every row whose owner matches name ignoring case
	// and returns the number of rows removed.
	DeleteByOwner(ctx context.Context, name string) (int64, error)
	// Count returns the number of stored rows.
	Count(ctx context.Context) (int, error)
}
