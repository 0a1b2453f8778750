package repo

import (
	"context"
	"time"

	"github.com/milad/meterreads/internal/domain"
)

// ReadingRepository stores raw meter readings.
type ReadingRepository interface {
	// List returns readings in ascending time order, optionally filtered by [start, end).
	// The returned slice must be treated as read-only by callers.
	List(ctx context.Context, startInclusive *time.Time, endExclusive *time.Time) ([]domain.Reading, error)
	// Insert stores readings. Reading dates are expected in UTC.
	Insert(ctx context.Context, readings ...domain.Reading) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
