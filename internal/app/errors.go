package service

import (
	"errors"

	"github.com/okian/wordboard/internal/domain/model"
)

// Sentinel errors returned by the service. The shared kinds live in model
// so the HTTP layer can match them without importing this package.
var (
	ErrNotStarted   = model.ErrNotStarted
	ErrNoDatabase   = errors.New("no database configured")
	ErrInvalidInput = model.ErrInvalidInput
	ErrEmptyBatch   = model.ErrEmptyBatch
	ErrNotFound     = model.ErrNotFound
	ErrWordExists   = model.ErrWordExists
)
