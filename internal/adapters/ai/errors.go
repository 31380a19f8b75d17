package ai

import "errors"

// ErrNotConfigured is reported when no API key was provided.
var ErrNotConfigured = errors.New("gemini client not configured: missing API key")
