// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/wordboard/internal/domain/model"
)

// ScoreDependencies defines the interface for high score operations.
type ScoreDependencies interface {
	ListScores(ctx context.Context) ([]model.ScoreEntry, error)
	HighestScore(ctx context.Context) (model.ScoreEntry, error)
	InsertScore(ctx context.Context, in model.ScoreInput) (model.ScoreEntry, error)
	DeleteScores(ctx context.Context, name string) (int64, error)
	CountScores(ctx context.Context) (int, error)
}

// ScoreHandler handles high score requests.
type ScoreHandler struct {
	deps ScoreDependencies
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(deps ScoreDependencies) *ScoreHandler {
	return &ScoreHandler{deps: deps}
}

type scoreInfoResponse struct {
	APIActive   bool              `json:"api_active"`
	TotalScores int               `json:"total_scores"`
	Endpoints   map[string]string `json:"endpoints"`
}

// scoreRequest uses pointers so a missing field can be told from zero.
type scoreRequest struct {
	HighScore  *int64  `json:"high_score"`
	HighScorer *string `json:"high_scorer"`
}

func (s scoreRequest) validate() error {
	switch {
	case s.HighScore == nil:
		return fmt.Errorf("%w: missing high_score", ErrBadRequest)
	case s.HighScorer == nil || strings.TrimSpace(*s.HighScorer) == "":
		return fmt.Errorf("%w: missing high_scorer", ErrBadRequest)
	}
	return nil
}

type deleteResponse struct {
	DeletedCount int64  `json:"deleted_count"`
	Message      string `json:"message"`
}

// HandleInfo handles GET /scores/ requests.
func (h *ScoreHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	n, err := h.deps.CountScores(r.Context())
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, scoreInfoResponse{
		APIActive:   true,
		TotalScores: n,
		Endpoints: map[string]string{
			"get all scores": "/scores/all_scores",
			"get high score": "/scores/high_score",
			"insert score":   "/scores/insert_score",
			"delete scores":  "/scores/delete_score/{high_scorer}",
		},
	})
}

// HandleAll handles GET /scores/all_scores requests.
func (h *ScoreHandler) HandleAll(w http.ResponseWriter, r *http.Request) {
	all, err := h.deps.ListScores(r.Context())
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// HandleHighest handles GET /scores/high_score requests.
func (h *ScoreHandler) HandleHighest(w http.ResponseWriter, r *http.Request) {
	e, err := h.deps.HighestScore(r.Context())
	if err != nil {
		writeServiceError(w, err, "No scores found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HandleInsert handles POST /scores/insert_score requests.
func (h *ScoreHandler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	e, err := h.deps.InsertScore(r.Context(), model.ScoreInput{HighScore: *req.HighScore, HighScorer: *req.HighScorer})
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HandleDelete handles DELETE /scores/delete_score/{high_scorer} requests.
func (h *ScoreHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	name, err := pathParam(r, "high_scorer")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	n, err := h.deps.DeleteScores(r.Context(), name)
	if err != nil {
		writeServiceError(w, err, fmt.Sprintf("No score found for %s", name))
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{
		DeletedCount: n,
		Message:      fmt.Sprintf("Deleted %d score(s) for %s", n, name),
	})
}
