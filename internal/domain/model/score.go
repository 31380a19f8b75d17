package model

import "time"

// ScoreEntry is one persisted leaderboard row.
type ScoreEntry struct {
	ID         int64     `json:"id" db:"id"`
	HighScore  int64     `json:"high_score" db:"high_score"`
	HighScorer string    `json:"high_scorer" db:"high_scorer"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// ScoreInput is the create shape for a leaderboard row.
type ScoreInput struct {
	HighScore  int64  `json:"high_score"`
	HighScorer string `json:"high_scorer"`
}
