package estimate

import "github.com/milad/meterreads/internal/domain"

// anchor is the fold state of the usage reduction: the last successful month-end
// estimate, or nil when the chain is broken.
type anchor = *domain.MonthEndEstimate

// advance is the chain transition. A present estimate following a present anchor
// emits a usage record; the step's outcome always becomes the new anchor, so an
// absent estimate breaks the chain and no usage spans the gap.
func advance(prev anchor, est domain.MonthEndEstimate, ok bool, unit string) (anchor, *domain.UsageRecord) {
	if !ok {
		return nil, nil
	}
	next := &est
	if prev == nil {
		return next, nil
	}
	return next, &domain.UsageRecord{
		Cumulative:  est.Cumulative - prev.Cumulative,
		ReadingDate: est.FormattedMonth,
		Unit:        unit,
	}
}

// MonthlyUsage reduces readings, which must be sorted ascending by date, into a
// monthly usage series. Each adjacent pair yields at most one month-end estimate
// and consecutive estimates are differenced. The result is never nil.
func (e *Estimator) MonthlyUsage(readings []domain.Reading) ([]domain.UsageRecord, error) {
	out := make([]domain.UsageRecord, 0, max(len(readings)-1, 0))

	var prev anchor
	for i := range readings {
		var next *domain.Reading
		if i+1 < len(readings) {
			next = &readings[i+1]
		}

		est, ok, err := e.MonthEnd(readings[i], next)
		if err != nil {
			return nil, err
		}

		var rec *domain.UsageRecord
		prev, rec = advance(prev, est, ok, readings[i].Unit)
		if rec != nil {
			out = append(out, *rec)
		}
	}
	return out, nil
}
