package repository

import (
	"errors"

	"github.com/okian/wordboard/internal/domain/model"
)

// Sentinel kinds for storage errors.
var (
	ErrNotFound          = model.ErrNotFound
	ErrWordExists        = model.ErrWordExists
	ErrUnsupportedDriver = errors.New("unsupported database driver")
)
