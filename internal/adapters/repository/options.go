// Package repository persists vocabulary and score entries.
package repository

import "time"

// Option applies a configuration option to a store.
type Option func(*base)

// WithClock overrides the time source used for created/updated timestamps.
func WithClock(now func() time.Time) Option {
	return func(b *base) {
		if now != nil {
			b.clock = now
		}
	}
}
