package smoketest

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/wordboard/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// Run exercises every vocabulary and score route against cfg.BaseURL and
// checks the server's answers. Data it creates is tagged with a run id;
// its scores are deleted again at the end, words are kept.
func Run(ctx context.Context, cfg *Config, log logger.Logger) (*Stats, error) {
	if cfg.Players <= 0 || cfg.ScoresPerPlayer <= 0 || cfg.Words <= 0 {
		return nil, fmt.Errorf("%w: players, scores and words must be positive", ErrInvalidRun)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if log == nil {
		log = logger.NewNop()
	}

	r := &runner{
		cfg:   cfg,
		log:   log.Named("smoke"),
		c:     newClient(strings.TrimRight(cfg.BaseURL, "/"), cfg.Timeout),
		runID: uuid.NewString()[:8],
		stats: &Stats{StartTime: time.Now()},
	}
	r.log.Info(ctx, "starting smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("runID", r.runID),
		logger.Int("players", cfg.Players),
		logger.Int("scoresPerPlayer", cfg.ScoresPerPlayer),
		logger.Int("words", cfg.Words),
		logger.Int("workers", cfg.Workers))

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"health", r.checkHealth},
		{"submit scores", r.submitScores},
		{"verify scores", r.verifyScores},
		{"bulk words", r.bulkWords},
		{"verify words", r.verifyWords},
		{"delete scores", r.deleteScores},
		{"stats", r.checkStats},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return r.stats, fmt.Errorf("%s: %w", step.name, err)
		}
		if cfg.Verbose {
			r.log.Info(ctx, "step passed", logger.String("step", step.name))
		}
	}

	r.stats.EndTime = time.Now()
	r.stats.Duration = r.stats.EndTime.Sub(r.stats.StartTime)
	r.log.Info(ctx, "smoke run passed",
		logger.Int("scoresSubmitted", r.stats.ScoresSubmitted),
		logger.Int64("scoresDeleted", r.stats.ScoresDeleted),
		logger.Int("wordsInserted", r.stats.WordsInserted),
		logger.Int("wordsSkipped", r.stats.WordsSkipped),
		logger.String("duration", r.stats.Duration.String()))
	return r.stats, nil
}

type runner struct {
	cfg   *Config
	log   logger.Logger
	c     *client
	runID string
	stats *Stats

	// top is the highest score this run submitted.
	top int64
}

func (r *runner) player(i int) string { return fmt.Sprintf("smoke-%s-p%03d", r.runID, i) }

func (r *runner) word(i int) string { return fmt.Sprintf("smoke-%s-w%04d", r.runID, i) }

func (r *runner) checkHealth(ctx context.Context) error {
	if err := r.c.do(ctx, http.MethodGet, "/healthz", nil, http.StatusOK, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrUnhealthy, err)
	}
	return nil
}

// submitScores posts every score concurrently, bounded by cfg.Workers.
// Every other round of a player's scores uses the upper-cased name.
func (r *runner) submitScores(ctx context.Context) error {
	var submitted, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	// Draw scores up front so workers need no shared generator.
	scores := make([]int64, r.cfg.Players*r.cfg.ScoresPerPlayer)
	for i := range scores {
		scores[i] = rand.Int64N(1_000_000)
		if scores[i] > r.top {
			r.top = scores[i]
		}
	}

	for i, score := range scores {
		name := r.player(i % r.cfg.Players)
		if (i/r.cfg.Players)%2 == 1 {
			name = strings.ToUpper(name)
		}
		body := map[string]any{"high_score": score, "high_scorer": name}
		g.Go(func() error {
			var got scoreEntry
			if err := r.c.do(gctx, http.MethodPost, "/scores/insert_score", body, http.StatusOK, &got); err != nil {
				failed.Add(1)
				return err
			}
			submitted.Add(1)
			if got.HighScore != body["high_score"].(int64) {
				return fmt.Errorf("%w: stored score %d, sent %v", ErrVerification, got.HighScore, body["high_score"])
			}
			return nil
		})
	}
	err := g.Wait()
	r.stats.ScoresSubmitted = int(submitted.Load())
	r.stats.ScoresFailed = int(failed.Load())
	return err
}

func (r *runner) verifyScores(ctx context.Context) error {
	var all []scoreEntry
	if err := r.c.do(ctx, http.MethodGet, "/scores/all_scores", nil, http.StatusOK, &all); err != nil {
		return err
	}
	if !sort.SliceIsSorted(all, func(i, j int) bool { return all[i].HighScore > all[j].HighScore }) {
		return fmt.Errorf("%w: scores are not in descending order", ErrVerification)
	}

	mine := 0
	prefix := fmt.Sprintf("smoke-%s-", r.runID)
	for _, s := range all {
		if strings.HasPrefix(strings.ToLower(s.HighScorer), prefix) {
			mine++
		}
	}
	if mine != r.stats.ScoresSubmitted {
		return fmt.Errorf("%w: listed %d of %d submitted scores", ErrVerification, mine, r.stats.ScoresSubmitted)
	}

	var top scoreEntry
	if err := r.c.do(ctx, http.MethodGet, "/scores/high_score", nil, http.StatusOK, &top); err != nil {
		return err
	}
	if top.HighScore < r.top {
		return fmt.Errorf("%w: high score %d is below submitted %d", ErrVerification, top.HighScore, r.top)
	}
	return nil
}

// bulkWords inserts the run's words twice. The second pass must insert
// nothing and report every word as existing.
func (r *runner) bulkWords(ctx context.Context) error {
	words := make([]map[string]any, r.cfg.Words)
	for i := range words {
		words[i] = map[string]any{"word": r.word(i), "word_type": "noun", "meaning": "smoke test word"}
	}

	var first bulkResult
	if err := r.c.do(ctx, http.MethodPost, "/vocabs/bulk_create", words, http.StatusOK, &first); err != nil {
		return err
	}
	if first.WordsInserted != r.cfg.Words {
		return fmt.Errorf("%w: first pass inserted %d of %d", ErrVerification, first.WordsInserted, r.cfg.Words)
	}
	r.stats.WordsInserted = first.WordsInserted

	var second bulkResult
	if err := r.c.do(ctx, http.MethodPost, "/vocabs/bulk_create", words, http.StatusOK, &second); err != nil {
		return err
	}
	var existing []string
	if err := json.Unmarshal(second.ExistingWords, &existing); err != nil {
		return fmt.Errorf("%w: existing_words is not a list: %s", ErrVerification, second.ExistingWords)
	}
	if second.WordsInserted != 0 || len(existing) != r.cfg.Words {
		return fmt.Errorf("%w: second pass inserted %d, skipped %d", ErrVerification, second.WordsInserted, len(existing))
	}
	r.stats.WordsSkipped = len(existing)
	return nil
}

func (r *runner) verifyWords(ctx context.Context) error {
	w := r.word(0)
	var got vocabEntry
	if err := r.c.do(ctx, http.MethodGet, "/vocabs/read/"+url.PathEscape(w), nil, http.StatusOK, &got); err != nil {
		return err
	}
	if got.Word != w {
		return fmt.Errorf("%w: read %q, want %q", ErrVerification, got.Word, w)
	}

	if err := r.c.do(ctx, http.MethodPost, "/vocabs/create", map[string]any{"word": w}, http.StatusConflict, nil); err != nil {
		return err
	}

	var updated vocabEntry
	patch := map[string]any{"word_type": "verb", "meaning": nil}
	if err := r.c.do(ctx, http.MethodPut, "/vocabs/update/"+url.PathEscape(w), patch, http.StatusOK, &updated); err != nil {
		return err
	}
	if updated.WordType == nil || *updated.WordType != "verb" || updated.Meaning != nil {
		return fmt.Errorf("%w: update of %q not applied", ErrVerification, w)
	}
	return nil
}

// deleteScores removes each player's scores using the upper-cased name,
// which must match both casings submitted.
func (r *runner) deleteScores(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	var deleted atomic.Int64
	for i := 0; i < r.cfg.Players; i++ {
		name := strings.ToUpper(r.player(i))
		g.Go(func() error {
			var res deleteResult
			if err := r.c.do(gctx, http.MethodDelete, "/scores/delete_score/"+url.PathEscape(name), nil, http.StatusOK, &res); err != nil {
				return err
			}
			if res.DeletedCount != int64(r.cfg.ScoresPerPlayer) {
				return fmt.Errorf("%w: deleted %d scores for %s, want %d", ErrVerification, res.DeletedCount, name, r.cfg.ScoresPerPlayer)
			}
			deleted.Add(res.DeletedCount)
			return nil
		})
	}
	err := g.Wait()
	r.stats.ScoresDeleted = deleted.Load()
	if err != nil {
		return err
	}
	return r.c.do(ctx, http.MethodDelete, "/scores/delete_score/"+url.PathEscape(r.player(0)), nil, http.StatusNotFound, nil)
}

func (r *runner) checkStats(ctx context.Context) error {
	var stats map[string]any
	if err := r.c.do(ctx, http.MethodGet, "/stats", nil, http.StatusOK, &stats); err != nil {
		return err
	}
	words, _ := stats["total_words"].(float64)
	if int(words) < r.cfg.Words {
		return fmt.Errorf("%w: total_words %v below %d", ErrVerification, stats["total_words"], r.cfg.Words)
	}
	return nil
}
