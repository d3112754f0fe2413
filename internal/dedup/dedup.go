// Package dedup detects already-handled event deliveries using a shared
// expiring key-value store.
package dedup

import (
	"context"
	"errors"
)

var (
	// ErrRead means the store could not be consulted; the caller must not
	// assume the event is new or already seen.
	ErrRead = errors.New("dedup store read failed")

	// ErrWrite means the processed mark was not persisted; the event stays
	// eligible for duplicate handling on redelivery.
	ErrWrite = errors.New("dedup store write failed")
)

// Store answers "have I seen this event?" and "remember this event".
type Store interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}
