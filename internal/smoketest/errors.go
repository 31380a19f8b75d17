package smoketest

import "errors"

// Error constants.
var (
	ErrUnhealthy    = errors.New("service unhealthy")
	ErrUnexpected   = errors.New("unexpected response")
	ErrVerification = errors.New("verification failed")
	ErrInvalidRun   = errors.New("invalid smoke configuration")
)
