// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/okian/wordboard/internal/adapters/importer"
	"github.com/okian/wordboard/internal/domain/model"
)

// maxUploadBytes bounds spreadsheet uploads.
const maxUploadBytes = 10 << 20

// VocabDependencies defines the interface for vocabulary operations.
type VocabDependencies interface {
	ListVocabs(ctx context.Context) ([]model.VocabEntry, error)
	GetVocab(ctx context.Context, word string) (model.VocabEntry, error)
	CreateVocab(ctx context.Context, in model.VocabInput) (model.VocabEntry, error)
	UpdateVocab(ctx context.Context, word string, patch model.VocabPatch) (model.VocabEntry, error)
	BulkCreateVocabs(ctx context.Context, in []*model.VocabInput) (model.BulkResult, error)
	CountVocabs(ctx context.Context) (int, error)
}

// VocabHandler handles vocabulary requests.
type VocabHandler struct {
	deps VocabDependencies
}

// NewVocabHandler creates a new vocabulary handler.
func NewVocabHandler(deps VocabDependencies) *VocabHandler {
	return &VocabHandler{deps: deps}
}

type vocabInfoResponse struct {
	APIActive  bool              `json:"api_active"`
	TotalWords int               `json:"total_words"`
	Endpoints  map[string]string `json:"endpoints"`
}

// bulkFaultResponse is the error body of a bulk insert that failed midway.
type bulkFaultResponse struct {
	errorResponse
	WordsInserted int `json:"words_inserted"`
}

// HandleInfo handles GET /vocabs/ requests.
func (h *VocabHandler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	n, err := h.deps.CountVocabs(r.Context())
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, vocabInfoResponse{
		APIActive:  true,
		TotalWords: n,
		Endpoints: map[string]string{
			"get all vocabs":    "/vocabs/read",
			"get one vocab":     "/vocabs/read/{word}",
			"create vocab":      "/vocabs/create",
			"update vocab":      "/vocabs/update/{word}",
			"bulk create vocab": "/vocabs/bulk_create",
			"import vocab":      "/vocabs/import",
		},
	})
}

// HandleCreate handles POST /vocabs/create requests.
func (h *VocabHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in model.VocabInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	if in.Blank() {
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Errorf("%w: word is required", ErrBadRequest))
		return
	}
	e, err := h.deps.CreateVocab(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "Word already exists")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HandleRead handles GET /vocabs/read requests.
func (h *VocabHandler) HandleRead(w http.ResponseWriter, r *http.Request) {
	all, err := h.deps.ListVocabs(r.Context())
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// HandleReadOne handles GET /vocabs/read/{word} requests.
func (h *VocabHandler) HandleReadOne(w http.ResponseWriter, r *http.Request) {
	word, err := pathParam(r, "word")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	e, err := h.deps.GetVocab(r.Context(), word)
	if err != nil {
		writeServiceError(w, err, "Word not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HandleUpdate handles PUT /vocabs/update/{word} requests. Absent fields
// stay unchanged, null clears a field, unknown fields are rejected.
func (h *VocabHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	word, err := pathParam(r, "word")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	var patch model.VocabPatch
	if err := decodeJSON(w, r, &patch, true); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	e, err := h.deps.UpdateVocab(r.Context(), word, patch)
	if err != nil {
		writeServiceError(w, err, "Word not found")
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// HandleBulkCreate handles POST /vocabs/bulk_create requests.
func (h *VocabHandler) HandleBulkCreate(w http.ResponseWriter, r *http.Request) {
	var in []*model.VocabInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	h.bulkCreate(w, r, in)
}

// HandleImport handles POST /vocabs/import requests carrying an xlsx
// workbook in the "file" form field.
func (h *VocabHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	defer func() { _ = file.Close() }()

	var opts []importer.Option
	if sheet := r.FormValue("sheet"); sheet != "" {
		opts = append(opts, importer.WithSheet(sheet))
	}
	in, err := importer.ReadVocabulary(file, opts...)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, err)
		return
	}
	h.bulkCreate(w, r, in)
}

func (h *VocabHandler) bulkCreate(w http.ResponseWriter, r *http.Request, in []*model.VocabInput) {
	res, err := h.deps.BulkCreateVocabs(r.Context(), in)
	if err != nil {
		status, code := statusFor(err)
		if status == http.StatusInternalServerError {
			writeJSON(w, status, bulkFaultResponse{
				errorResponse: errorResponse{Code: code, Message: err.Error()},
				WordsInserted: res.WordsInserted,
			})
			return
		}
		writeServiceError(w, err, "No vocabs found")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
