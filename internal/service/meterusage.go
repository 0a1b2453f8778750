package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/milad/meterreads/internal/domain"
	"github.com/milad/meterreads/internal/estimate"
	"github.com/milad/meterreads/internal/logger"
	"github.com/milad/meterreads/internal/repo"
)

var (
	ErrInvalidTimeRange  = errors.New("invalid time range")
	ErrInvalidPagination = errors.New("invalid pagination")
	ErrInvalidReading    = errors.New("invalid reading")
	// ErrUnprocessable means the stored readings cannot be turned into a usage series,
	// for example when a later reading is lower than an earlier one.
	ErrUnprocessable = errors.New("unprocessable readings")
)

const (
	// MaxUnpagedRange bounds a filtered listing that does not use pagination.
	MaxUnpagedRange = 31 * 24 * time.Hour
	MaxPageSize     = 5_000
)

type ListReadingsPageResult struct {
	Readings      []domain.Reading
	NextPageToken string
}

type MeterUsageService struct {
	repo repo.ReadingRepository
	est  *estimate.Estimator
}

type Option func(*MeterUsageService)

// WithEstimator replaces the default randomized estimator.
func WithEstimator(e *estimate.Estimator) Option {
	return func(s *MeterUsageService) {
		if e != nil {
			s.est = e
		}
	}
}

func NewMeterUsageService(r repo.ReadingRepository, opts ...Option) *MeterUsageService {
	s := &MeterUsageService{repo: r, est: estimate.New(nil)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MeterUsageService) ListReadings(ctx context.Context, startInclusive *time.Time, endExclusive *time.Time) ([]domain.Reading, error) {
	res, err := s.ListReadingsPage(ctx, startInclusive, endExclusive, 0, "")
	return res.Readings, err
}

func (s *MeterUsageService) ListReadingsPage(
	ctx context.Context,
	startInclusive *time.Time,
	endExclusive *time.Time,
	pageSize int,
	pageToken string,
) (ListReadingsPageResult, error) {
	if err := validateRange(startInclusive, endExclusive); err != nil {
		return ListReadingsPageResult{}, err
	}
	if startInclusive != nil && endExclusive != nil && pageSize <= 0 && endExclusive.Sub(*startInclusive) > MaxUnpagedRange {
		return ListReadingsPageResult{}, fmt.Errorf("%w: range too large without pagination (max %s)", ErrInvalidTimeRange, MaxUnpagedRange)
	}

	offset, err := parseOffsetToken(pageSize, pageToken)
	if err != nil {
		return ListReadingsPageResult{}, err
	}
	if pageSize < 0 {
		return ListReadingsPageResult{}, fmt.Errorf("%w: page_size must be >= 0", ErrInvalidPagination)
	}
	if pageSize > MaxPageSize {
		return ListReadingsPageResult{}, fmt.Errorf("%w: page_size too large (max %d)", ErrInvalidPagination, MaxPageSize)
	}

	readings, err := s.repo.List(ctx, startInclusive, endExclusive)
	if err != nil {
		return ListReadingsPageResult{}, fmt.Errorf("list readings: %w", err)
	}
	if offset > len(readings) {
		return ListReadingsPageResult{}, fmt.Errorf("%w: page_token out of range", ErrInvalidPagination)
	}

	logger.FromContext(ctx).Debug("listed readings",
		zap.Int("count", len(readings)),
		zap.Int("page_size", pageSize),
		zap.Int("offset", offset),
	)

	if pageSize == 0 {
		return ListReadingsPageResult{Readings: readings}, nil
	}
	if offset == len(readings) {
		return ListReadingsPageResult{}, nil
	}

	end := min(offset+pageSize, len(readings))
	next := ""
	if end < len(readings) {
		next = strconv.Itoa(end)
	}
	return ListReadingsPageResult{
		Readings:      readings[offset:end],
		NextPageToken: next,
	}, nil
}

// CreateReading stores one reading. The date is normalised to UTC and an empty
// unit becomes kWh.
func (s *MeterUsageService) CreateReading(ctx context.Context, cumulative float64, readingDate time.Time, unit string) (domain.Reading, error) {
	if math.IsNaN(cumulative) || math.IsInf(cumulative, 0) {
		return domain.Reading{}, fmt.Errorf("%w: 'cumulative' must be number", ErrInvalidReading)
	}
	if cumulative < 0 {
		return domain.Reading{}, fmt.Errorf("%w: 'cumulative' must not be negative", ErrInvalidReading)
	}
	if readingDate.IsZero() {
		return domain.Reading{}, fmt.Errorf("%w: 'readingDate' must be a valid ISO date string", ErrInvalidReading)
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = domain.DefaultUnit
	}

	rd := domain.Reading{
		ReadingDate: readingDate.UTC(),
		Cumulative:  cumulative,
		Unit:        unit,
	}
	if err := s.repo.Insert(ctx, rd); err != nil {
		return domain.Reading{}, fmt.Errorf("insert reading: %w", err)
	}
	readingsCreatedTotal.Inc()

	logger.FromContext(ctx).Debug("created reading",
		zap.Time("reading_date", rd.ReadingDate),
		zap.Float64("cumulative", rd.Cumulative),
		zap.String("unit", rd.Unit),
	)
	return rd, nil
}

// MonthlyUsage estimates month-end readings within [start, end) and returns the
// usage between consecutive estimates. Either bound may be nil.
func (s *MeterUsageService) MonthlyUsage(ctx context.Context, startInclusive *time.Time, endExclusive *time.Time) ([]domain.UsageRecord, error) {
	if err := validateRange(startInclusive, endExclusive); err != nil {
		return nil, err
	}

	readings, err := s.repo.List(ctx, startInclusive, endExclusive)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}

	usage, err := s.est.MonthlyUsage(readings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnprocessable, err)
	}
	monthsEstimatedTotal.Add(float64(len(usage)))

	logger.FromContext(ctx).Debug("computed monthly usage",
		zap.Int("readings", len(readings)),
		zap.Int("months", len(usage)),
	)
	return usage, nil
}

func validateRange(startInclusive, endExclusive *time.Time) error {
	if startInclusive != nil && endExclusive != nil && !startInclusive.Before(*endExclusive) {
		return fmt.Errorf("%w: start must be before end", ErrInvalidTimeRange)
	}
	return nil
}

func parseOffsetToken(pageSize int, pageToken string) (int, error) {
	if pageToken == "" {
		return 0, nil
	}
	if pageSize <= 0 {
		return 0, fmt.Errorf("%w: page_token requires page_size", ErrInvalidPagination)
	}
	n, err := strconv.Atoi(pageToken)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: invalid page_token", ErrInvalidPagination)
	}
	return n, nil
}
