package model

import "errors"

// Error kinds shared by the store, the service and the HTTP layer.
var (
	ErrNotFound     = errors.New("not found")
	ErrWordExists   = errors.New("word already exists")
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyBatch   = errors.New("no vocabs found")
	ErrNotStarted   = errors.New("service not started")
)
