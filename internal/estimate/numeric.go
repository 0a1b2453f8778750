package estimate

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

var ErrInvalidArgument = errors.New("invalid argument")

// Source yields pseudo-random numbers in [0, 1).
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// DefaultSource returns a Source backed by the math/rand/v2 global generator.
// It is safe for concurrent use.
func DefaultSource() Source { return globalSource{} }

// FixedSource always returns its own value. Useful in tests.
type FixedSource float64

func (f FixedSource) Float64() float64 { return float64(f) }

// Fraction draws an interpolation fraction from the bucket selected by
// daysUntilMonthEnd: 1-10 days -> [0.10, 0.35), 11-20 -> [0.36, 0.70),
// more than 20 -> [0.71, 0.90).
func Fraction(src Source, daysUntilMonthEnd int) (float64, error) {
	if daysUntilMonthEnd < 1 {
		return 0, fmt.Errorf("%w: days until month end cannot be less than 1, got %d", ErrInvalidArgument, daysUntilMonthEnd)
	}
	// The farther a reading is from month end, the larger the extrapolated share.
	var lo, hi float64
	switch {
	case daysUntilMonthEnd <= 10:
		lo, hi = 0.10, 0.35
	case daysUntilMonthEnd <= 20:
		lo, hi = 0.36, 0.70
	default:
		lo, hi = 0.71, 0.90
	}
	return lo + src.Float64()*(hi-lo), nil
}

// BoundedRandomInt maps fraction onto the integer range [ceil(low), floor(high)).
// For integral bounds the result is never equal to high.
func BoundedRandomInt(low, high, fraction float64) (int64, error) {
	if math.IsNaN(fraction) || fraction < 0.1 || fraction > 0.9 {
		return 0, fmt.Errorf("%w: fraction must be between 0.1 and 0.9", ErrInvalidArgument)
	}
	if !isFinite(low) || !isFinite(high) {
		return 0, fmt.Errorf("%w: min and max must be finite numbers", ErrInvalidArgument)
	}
	if low >= high {
		return 0, fmt.Errorf("%w: min (%v) should be smaller than max (%v)", ErrInvalidArgument, low, high)
	}

	lo := math.Ceil(low)
	hi := math.Floor(high)
	return int64(math.Floor(fraction*(hi-lo)) + lo), nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
