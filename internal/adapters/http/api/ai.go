// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/okian/wordboard/internal/adapters/ai"
	"github.com/okian/wordboard/internal/domain/model"
)

// AIDependencies defines the interface for model questions.
type AIDependencies interface {
	Ask(ctx context.Context, q model.Question) (string, ai.Result)
}

// AIHandler handles generative model requests.
type AIHandler struct {
	deps AIDependencies
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(deps AIDependencies) *AIHandler {
	return &AIHandler{deps: deps}
}

type askRequest struct {
	Prompt      string `json:"prompt"`
	Instruction string `json:"instruction"`
	Word        string `json:"word"`
	WordType    string `json:"word_type"`
	Meaning     string `json:"meaning"`
	Example     string `json:"example"`
}

type askResponse struct {
	ReceivedPrompt string `json:"received_prompt"`
	Answer         string `json:"answer"`
}

// HandleGetAnswers handles POST /ai/get_answers requests. Upstream
// failures keep their status and message.
func (h *AIHandler) HandleGetAnswers(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Errorf("%w: missing prompt", ErrBadRequest))
		return
	}

	prompt, res := h.deps.Ask(r.Context(), model.Question{
		Prompt:      req.Prompt,
		Instruction: req.Instruction,
		Word:        req.Word,
		WordType:    req.WordType,
		Meaning:     req.Meaning,
		Example:     req.Example,
	})
	if !res.OK() {
		status := res.StatusCode
		if status < http.StatusBadRequest || status > 599 {
			status = http.StatusBadGateway
		}
		writeError(w, status, codeUpstreamError, errors.New(res.Details))
		return
	}
	writeJSON(w, http.StatusOK, askResponse{ReceivedPrompt: prompt, Answer: res.Details})
}
