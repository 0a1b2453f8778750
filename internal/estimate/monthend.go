package estimate

import (
	"fmt"

	"github.com/milad/meterreads/internal/domain"
)

// Estimator derives month-end readings and monthly usage from cumulative readings.
// It holds no mutable state and is safe for concurrent use when its Source is.
type Estimator struct {
	src Source
}

// New returns an Estimator drawing interpolation fractions from src.
// A nil src falls back to DefaultSource.
func New(src Source) *Estimator {
	if src == nil {
		src = DefaultSource()
	}
	return &Estimator{src: src}
}

// MonthEnd estimates the cumulative reading on the last day of the month that
// contains current.ReadingDate, using next as the upper bracket.
//
// The boolean result is false when no estimate can be made: next is nil, or next
// is not in the month immediately following current. That is an expected outcome,
// not an error.
func (e *Estimator) MonthEnd(current domain.Reading, next *domain.Reading) (domain.MonthEndEstimate, bool, error) {
	if next == nil {
		return domain.MonthEndEstimate{}, false, nil
	}

	label := FormatMonth(current.ReadingDate)

	if IsEndOfMonth(current.ReadingDate) {
		return domain.MonthEndEstimate{Cumulative: current.Cumulative, FormattedMonth: label}, true, nil
	}

	if !isNextMonth(current.ReadingDate, next.ReadingDate) {
		return domain.MonthEndEstimate{}, false, nil
	}

	fraction, err := Fraction(e.src, DaysUntilMonthEnd(current.ReadingDate))
	if err != nil {
		return domain.MonthEndEstimate{}, false, fmt.Errorf("estimate %s: %w", label, err)
	}
	v, err := BoundedRandomInt(current.Cumulative, next.Cumulative, fraction)
	if err != nil {
		return domain.MonthEndEstimate{}, false, fmt.Errorf("estimate %s: %w", label, err)
	}
	return domain.MonthEndEstimate{Cumulative: float64(v), FormattedMonth: label}, true, nil
}
