// Package smoketest drives a running wordboard server end to end over HTTP.
package smoketest

import (
	"encoding/json"
	"runtime"
	"time"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL         string        // Base URL of the service
	Players         int           // Number of distinct score owners
	ScoresPerPlayer int           // Scores submitted per owner
	Words           int           // Words bulk created per pass
	Workers         int           // Number of concurrent requests
	Timeout         time.Duration // HTTP request timeout
	Verbose         bool          // Log every verification step
}

// DefaultConfig returns the settings used when no flag overrides them.
func DefaultConfig() *Config {
	return &Config{
		BaseURL:         "http://localhost:8000",
		Players:         20,
		ScoresPerPlayer: 5,
		Words:           50,
		Workers:         runtime.NumCPU() * 2,
		Timeout:         30 * time.Second,
	}
}

// Stats holds run statistics.
type Stats struct {
	ScoresSubmitted int
	ScoresFailed    int
	ScoresDeleted   int64
	WordsInserted   int
	WordsSkipped    int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

type vocabEntry struct {
	ID       int64   `json:"id"`
	Word     string  `json:"word"`
	WordType *string `json:"word_type"`
	Meaning  *string `json:"meaning"`
}

type scoreEntry struct {
	ID         int64  `json:"id"`
	HighScore  int64  `json:"high_score"`
	HighScorer string `json:"high_scorer"`
}

type bulkResult struct {
	WordsReceived int             `json:"words_received"`
	WordsInserted int             `json:"words_inserted"`
	ExistingWords json.RawMessage `json:"existing_words"`
}

type deleteResult struct {
	DeletedCount int64  `json:"deleted_count"`
	Message      string `json:"message"`
}
