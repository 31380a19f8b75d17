// Package ai forwards vocabulary questions to a Gemini model.
package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/wordboard/pkg/logger"
	"github.com/okian/wordboard/pkg/metrics"
	"google.golang.org/genai"
)

// Defaults used when no option overrides them.
const (
	DefaultModel       = "gemini-2.5-flash-lite"
	DefaultInstruction = "You are a english professor. Answer to the point. No need to explain the word."
	defaultTimeout     = 30 * time.Second
)

// Generator is the slice of the genai models API the client needs.
type Generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client asks the model and folds every failure into a Result.
type Client struct {
	gen         Generator
	model       string
	instruction string
	timeout     time.Duration
	log         logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithModel sets the model name.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithDefaultInstruction sets the instruction used for prompts that carry none.
func WithDefaultInstruction(instruction string) Option {
	return func(c *Client) {
		if strings.TrimSpace(instruction) != "" {
			c.instruction = instruction
		}
	}
}

// WithTimeout bounds each call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithGenerator replaces the genai backend.
func WithGenerator(g Generator) Option {
	return func(c *Client) { c.gen = g }
}

// New builds a client for the Gemini API. An empty apiKey yields a client
// whose every answer reports ErrNotConfigured.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	c := newClient(opts...)
	if c.gen != nil || apiKey == "" {
		return c, nil
	}
	gc, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.gen = gc.Models
	return c, nil
}

func newClient(opts ...Option) *Client {
	c := &Client{
		model:       DefaultModel,
		instruction: DefaultInstruction,
		timeout:     defaultTimeout,
		log:         logger.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Ask sends p to the model. It never fails: upstream API errors keep their
// status code and message, anything else becomes a 500.
func (c *Client) Ask(ctx context.Context, p Prompt) Result {
	start := time.Now()
	res := c.ask(ctx, p)
	metrics.RecordAIRequest(strconv.Itoa(res.StatusCode), float64(time.Since(start).Milliseconds()))
	if !res.OK() {
		c.log.Warn(ctx, "gemini request failed",
			logger.Int("status_code", res.StatusCode),
			logger.String("details", res.Details))
	}
	return res
}

func (c *Client) ask(ctx context.Context, p Prompt) Result {
	if c.gen == nil {
		return internalError(ErrNotConfigured)
	}
	instruction := p.Instruction
	if strings.TrimSpace(instruction) == "" {
		instruction = c.instruction
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.gen.GenerateContent(ctx, c.model,
		genai.Text(p.Text),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		})
	if err != nil {
		return fromError(err)
	}
	if resp == nil {
		return internalError(errors.New("empty response"))
	}
	return Result{StatusCode: http.StatusOK, Details: resp.Text()}
}

func fromError(err error) Result {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code != 0 {
		return Result{StatusCode: apiErr.Code, Details: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Code != 0 {
		return Result{StatusCode: apiErrPtr.Code, Details: apiErrPtr.Message}
	}
	return internalError(err)
}

func internalError(err error) Result {
	return Result{StatusCode: http.StatusInternalServerError, Details: "[Gemini Error] " + err.Error()}
}
