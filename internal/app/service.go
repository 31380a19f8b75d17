// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/okian/wordboard/internal/adapters/ai"
	"github.com/okian/wordboard/internal/adapters/repository"
	"github.com/okian/wordboard/internal/domain/model"
	"github.com/okian/wordboard/pkg/logger"
	"github.com/okian/wordboard/pkg/metrics"
)

// Answerer asks the generative model.
type Answerer interface {
	Ask(ctx context.Context, p ai.Prompt) ai.Result
}

// Service implements the API dependencies for vocabulary and high scores.
type Service struct {
	mu sync.RWMutex

	db     *sqlx.DB
	vocabs repository.VocabStore
	scores repository.ScoreStore
	ai     Answerer
	clock  func() time.Time

	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithDB sets the database the stores run on. The service owns it from then
// on and closes it in Stop.
func WithDB(db *sqlx.DB) Option {
	return func(s *Service) { s.db = db }
}

// WithAI sets the generative model client.
func WithAI(a Answerer) Option {
	return func(s *Service) { s.ai = a }
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock sets the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.clock = now
		}
	}
}

// New constructs a new Service.
func New(opts ...Option) *Service {
	s := &Service{clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start creates the schema and the stores.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.db == nil {
		return ErrNoDatabase
	}

	s.logger.Info(ctx, "starting wordboard service...", logger.String("driver", s.db.DriverName()))

	if err := repository.EnsureSchema(ctx, s.db); err != nil {
		return fmt.Errorf("start service: %w", err)
	}
	s.vocabs = repository.NewVocabStore(s.db, repository.WithClock(s.clock))
	s.scores = repository.NewScoreStore(s.db, repository.WithClock(s.clock))
	if s.ai == nil {
		s.ai = notConfigured{}
	}

	s.started = true
	s.logger.Info(ctx, "wordboard service started")
	return nil
}

// Stop closes the database.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping wordboard service...")
	if err := s.db.Close(); err != nil {
		s.logger.Error(context.Background(), "close database", logger.Error(err))
	}
	s.started = false
	s.logger.Info(context.Background(), "wordboard service stopped")
}

func (s *Service) stores() (repository.VocabStore, repository.ScoreStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.vocabs, s.scores, nil
}

// observe records one store call and logs unexpected failures.
func (s *Service) observe(ctx context.Context, store, op string, start time.Time, err error) {
	outcome := metrics.OutcomeOK
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		outcome = metrics.OutcomeNotFound
	case errors.Is(err, repository.ErrWordExists):
		outcome = metrics.OutcomeConflict
	default:
		outcome = metrics.OutcomeError
		s.logger.Error(ctx, "store operation failed",
			logger.String("store", store),
			logger.String("op", op),
			logger.Error(err))
	}
	metrics.RecordStoreOp(store, op, outcome, float64(time.Since(start).Microseconds())/1000)
}

// Vocabulary.

// ListVocabs returns every stored word.
func (s *Service) ListVocabs(ctx context.Context) ([]model.VocabEntry, error) {
	vocabs, _, err := s.stores()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	out, err := vocabs.List(ctx)
	s.observe(ctx, "vocab", "list", start, err)
	return out, err
}

// GetVocab returns the entry for word.
func (s *Service) GetVocab(ctx context.Context, word string) (model.VocabEntry, error) {
	vocabs, _, err := s.stores()
	if err != nil {
		return model.VocabEntry{}, err
	}
	start := time.Now()
	e, err := vocabs.FindByWord(ctx, word)
	s.observe(ctx, "vocab", "find", start, err)
	return e, err
}

// CreateVocab stores a new word. A word that is already stored yields
// ErrWordExists, whether the pre-check or the unique constraint catches it.
func (s *Service) CreateVocab(ctx context.Context, in model.VocabInput) (model.VocabEntry, error) {
	if in.Blank() {
		return model.VocabEntry{}, fmt.Errorf("%w: word is required", ErrInvalidInput)
	}
	vocabs, _, err := s.stores()
	if err != nil {
		return model.VocabEntry{}, err
	}

	start := time.Now()
	_, err = vocabs.FindByWord(ctx, in.Word)
	switch {
	case err == nil:
		err = fmt.Errorf("vocab %q: %w", in.Word, ErrWordExists)
		s.observe(ctx, "vocab", "create", start, err)
		return model.VocabEntry{}, err
	case !errors.Is(err, ErrNotFound):
		s.observe(ctx, "vocab", "create", start, err)
		return model.VocabEntry{}, err
	}

	e, err := vocabs.Create(ctx, in)
	s.observe(ctx, "vocab", "create", start, err)
	if err != nil {
		return model.VocabEntry{}, err
	}
	s.logger.Debug(ctx, "vocab created", logger.String("word", e.Word), logger.Int64("id", e.ID))
	return e, nil
}

// UpdateVocab applies patch to the entry for word.
func (s *Service) UpdateVocab(ctx context.Context, word string, patch model.VocabPatch) (model.VocabEntry, error) {
	vocabs, _, err := s.stores()
	if err != nil {
		return model.VocabEntry{}, err
	}
	start := time.Now()
	existing, err := vocabs.FindByWord(ctx, word)
	if err != nil {
		s.observe(ctx, "vocab", "update", start, err)
		return model.VocabEntry{}, err
	}
	e, err := vocabs.Update(ctx, existing, patch)
	s.observe(ctx, "vocab", "update", start, err)
	return e, err
}

// BulkCreateVocabs inserts the words not stored yet. On a storage fault the
// partial result tells how many were inserted before it.
func (s *Service) BulkCreateVocabs(ctx context.Context, in []*model.VocabInput) (model.BulkResult, error) {
	if len(in) == 0 {
		return model.BulkResult{}, ErrEmptyBatch
	}
	vocabs, _, err := s.stores()
	if err != nil {
		return model.BulkResult{}, err
	}
	start := time.Now()
	res, err := vocabs.BulkCreate(ctx, in)
	s.observe(ctx, "vocab", "bulk_create", start, err)
	metrics.RecordBulkImport(res.WordsInserted, res.ExistingWords.Len())
	s.logger.Info(ctx, "bulk create finished",
		logger.Int("received", res.WordsReceived),
		logger.Int("inserted", res.WordsInserted),
		logger.Int("existing", res.ExistingWords.Len()))
	return res, err
}

// CountVocabs returns the number of stored words.
func (s *Service) CountVocabs(ctx context.Context) (int, error) {
	vocabs, _, err := s.stores()
	if err != nil {
		return 0, err
	}
	start := time.Now()
	n, err := vocabs.Count(ctx)
	s.observe(ctx, "vocab", "count", start, err)
	return n, err
}

// Scores.

// ListScores returns every score, highest first.
func (s *Service) ListScores(ctx context.Context) ([]model.ScoreEntry, error) {
	_, scores, err := s.stores()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	out, err := scores.List(ctx)
	s.observe(ctx, "score", "list", start, err)
	return out, err
}

// HighestScore returns the top score, or ErrNotFound when there are none.
func (s *Service) HighestScore(ctx context.Context) (model.ScoreEntry, error) {
	_, scores, err := s.stores()
	if err != nil {
		return model.ScoreEntry{}, err
	}
	start := time.Now()
	e, err := scores.Highest(ctx)
	s.observe(ctx, "score", "highest", start, err)
	return e, err
}

// InsertScore records a score.
func (s *Service) InsertScore(ctx context.Context, in model.ScoreInput) (model.ScoreEntry, error) {
	if strings.TrimSpace(in.HighScorer) == "" {
		return model.ScoreEntry{}, fmt.Errorf("%w: high_scorer is required", ErrInvalidInput)
	}
	_, scores, err := s.stores()
	if err != nil {
		return model.ScoreEntry{}, err
	}
	start := time.Now()
	e, err := scores.Create(ctx, in)
	s.observe(ctx, "score", "create", start, err)
	return e, err
}

// DeleteScores removes every score owned by name, ignoring case. Nothing
// to remove yields ErrNotFound.
func (s *Service) DeleteScores(ctx context.Context, name string) (int64, error) {
	_, scores, err := s.stores()
	if err != nil {
		return 0, err
	}
	start := time.Now()
	n, err := scores.DeleteByOwner(ctx, name)
	if err == nil && n == 0 {
		err = fmt.Errorf("scores of %q: %w", name, ErrNotFound)
	}
	s.observe(ctx, "score", "delete", start, err)
	if err != nil {
		return 0, err
	}
	metrics.RecordScoresDeleted(n)
	s.logger.Info(ctx, "scores deleted", logger.String("high_scorer", name), logger.Int64("count", n))
	return n, nil
}

// CountScores returns the number of stored scores.
func (s *Service) CountScores(ctx context.Context) (int, error) {
	_, scores, err := s.stores()
	if err != nil {
		return 0, err
	}
	start := time.Now()
	n, err := scores.Count(ctx)
	s.observe(ctx, "score", "count", start, err)
	return n, err
}

// AI.

// Ask assembles the prompt and forwards it to the model. The assembled
// prompt is returned with the result.
func (s *Service) Ask(ctx context.Context, q model.Question) (string, ai.Result) {
	prompt := ai.BuildPrompt(q.Prompt, q.Word, q.WordType, q.Meaning, q.Example)
	s.mu.RLock()
	a := s.ai
	s.mu.RUnlock()
	if a == nil {
		a = notConfigured{}
	}
	return prompt, a.Ask(ctx, ai.Prompt{Text: prompt, Instruction: q.Instruction})
}

type notConfigured struct{}

func (notConfigured) Ask(context.Context, ai.Prompt) ai.Result {
	return ai.Result{StatusCode: 500, Details: "[Gemini Error] " + ai.ErrNotConfigured.Error()}
}

// Operations.

// Ping checks the database connection.
func (s *Service) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return s.db.PingContext(ctx)
}

// GetStats returns service statistics.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	stats := map[string]any{"started": started}
	if !started {
		return stats
	}
	if n, err := s.CountVocabs(ctx); err == nil {
		stats["total_words"] = n
	}
	if n, err := s.CountScores(ctx); err == nil {
		stats["total_scores"] = n
	}
	return stats
}

// RefreshMetrics updates the entry count gauges.
func (s *Service) RefreshMetrics(ctx context.Context) error {
	words, err := s.CountVocabs(ctx)
	if err != nil {
		return err
	}
	scores, err := s.CountScores(ctx)
	if err != nil {
		return err
	}
	metrics.UpdateTotals(words, scores)
	return nil
}
