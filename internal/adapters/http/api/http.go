// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/okian/wordboard/pkg/logger"
	"github.com/okian/wordboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	VocabDependencies
	ScoreDependencies
	AIDependencies
	HealthDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	vocabHandler  *VocabHandler
	scoreHandler  *ScoreHandler
	aiHandler     *AIHandler
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	log           logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used by the request logging middleware.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		vocabHandler:  NewVocabHandler(deps),
		scoreHandler:  NewScoreHandler(deps),
		aiHandler:     NewAIHandler(deps),
		healthHandler: NewHealthHandler(deps),
		statsHandler:  NewStatsHandler(deps),
		log:           logger.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)

	r.Get("/", handleRoot)
	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Route("/vocabs", func(r chi.Router) {
		r.Get("/", s.vocabHandler.HandleInfo)
		r.Post("/create", s.vocabHandler.HandleCreate)
		r.Get("/read", s.vocabHandler.HandleRead)
		r.Get("/read/{word}", s.vocabHandler.HandleReadOne)
		r.Put("/update/{word}", s.vocabHandler.HandleUpdate)
		r.Post("/bulk_create", s.vocabHandler.HandleBulkCreate)
		r.Post("/import", s.vocabHandler.HandleImport)
	})

	r.Route("/scores", func(r chi.Router) {
		r.Get("/", s.scoreHandler.HandleInfo)
		r.Get("/all_scores", s.scoreHandler.HandleAll)
		r.Get("/high_score", s.scoreHandler.HandleHighest)
		r.Post("/insert_score", s.scoreHandler.HandleInsert)
		r.Delete("/delete_score/{high_scorer}", s.scoreHandler.HandleDelete)
	})

	r.Post("/ai/get_answers", s.aiHandler.HandleGetAnswers)
}

// handleRoot handles GET / requests.
func handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, "API Active")
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError maps err to a status. A non-empty msg replaces the
// error text of not-found and conflict outcomes.
func writeServiceError(w http.ResponseWriter, err error, msg string) {
	status, code := statusFor(err)
	if msg != "" && (status == http.StatusNotFound || status == http.StatusConflict) {
		err = errors.New(msg)
	}
	writeError(w, status, code, err)
}

// pathParam returns the named route parameter decoded. chi routes on
// RawPath when the path isn't in its canonical escaped form, and then the
// parameter still carries the escapes.
func pathParam(r *http.Request, key string) (string, error) {
	v := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return v, nil
	}
	u, err := url.PathUnescape(v)
	if err != nil {
		return "", fmt.Errorf("%w: malformed %s in path", ErrBadRequest, key)
	}
	return u, nil
}

// decodeJSON reads one JSON value from the request body into dst. strict
// rejects fields dst does not declare.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, strict bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		}
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON body", ErrBadRequest)
	}
	return nil
}
