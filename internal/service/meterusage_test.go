package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/milad/meterreads/internal/domain"
	"github.com/milad/meterreads/internal/estimate"
	"github.com/milad/meterreads/internal/repo/csvrepo"
)

type failingRepo struct{ err error }

func (f failingRepo) List(context.Context, *time.Time, *time.Time) ([]domain.Reading, error) {
	return nil, f.err
}
func (f failingRepo) Insert(context.Context, ...domain.Reading) error { return f.err }
func (f failingRepo) Ping(context.Context) error                      { return f.err }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleRepo() *csvrepo.Repo {
	return csvrepo.New([]domain.Reading{
		{ReadingDate: day(2017, time.March, 28), Cumulative: 17580, Unit: "kWh"},
		{ReadingDate: day(2017, time.April, 15), Cumulative: 17759, Unit: "kWh"},
		{ReadingDate: day(2017, time.May, 8), Cumulative: 18002, Unit: "kWh"},
		{ReadingDate: day(2017, time.June, 18), Cumulative: 18270, Unit: "kWh"},
	})
}

func TestMeterUsageService_RejectsInvalidRange(t *testing.T) {
	t.Parallel()

	svc := NewMeterUsageService(csvrepo.New(nil))

	t0 := day(2019, time.January, 1)
	t1 := t0

	if _, err := svc.ListReadings(context.Background(), &t0, &t1); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("ListReadings err=%v want ErrInvalidTimeRange", err)
	}
	if _, err := svc.MonthlyUsage(context.Background(), &t0, &t1); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("MonthlyUsage err=%v want ErrInvalidTimeRange", err)
	}
}

func TestMeterUsageService_UnpagedRangeGuard(t *testing.T) {
	t.Parallel()

	svc := NewMeterUsageService(sampleRepo())
	start := day(2017, time.January, 1)
	end := day(2017, time.December, 31)

	if _, err := svc.ListReadings(context.Background(), &start, &end); !errors.Is(err, ErrInvalidTimeRange) {
		t.Fatalf("err=%v want ErrInvalidTimeRange", err)
	}
	res, err := svc.ListReadingsPage(context.Background(), &start, &end, 10, "")
	if err != nil {
		t.Fatalf("paged: %v", err)
	}
	if len(res.Readings) != 4 {
		t.Fatalf("len=%d want 4", len(res.Readings))
	}
}

func TestMeterUsageService_Pagination(t *testing.T) {
	t.Parallel()

	svc := NewMeterUsageService(sampleRepo())
	ctx := context.Background()

	var (
		token string
		got   []domain.Reading
		pages int
	)
	for {
		res, err := svc.ListReadingsPage(ctx, nil, nil, 3, token)
		if err != nil {
			t.Fatalf("page %d: %v", pages, err)
		}
		got = append(got, res.Readings...)
		pages++
		if res.NextPageToken == "" {
			break
		}
		token = res.NextPageToken
	}
	if pages != 2 || len(got) != 4 {
		t.Fatalf("pages=%d readings=%d want 2 and 4", pages, len(got))
	}
	if got[3].Cumulative != 18270 {
		t.Fatalf("last cumulative=%v want 18270", got[3].Cumulative)
	}
}

func TestMeterUsageService_PaginationErrors(t *testing.T) {
	t.Parallel()

	svc := NewMeterUsageService(sampleRepo())
	ctx := context.Background()

	tests := []struct {
		name     string
		pageSize int
		token    string
	}{
		{"negative size", -1, ""},
		{"size too large", MaxPageSize + 1, ""},
		{"token without size", 0, "2"},
		{"bad token", 2, "abc"},
		{"negative token", 2, "-1"},
		{"token out of range", 2, strconv.Itoa(99)},
	}
	for _, tc := range tests {
		if _, err := svc.ListReadingsPage(ctx, nil, nil, tc.pageSize, tc.token); !errors.Is(err, ErrInvalidPagination) {
			t.Fatalf("%s: err=%v want ErrInvalidPagination", tc.name, err)
		}
	}

	res, err := svc.ListReadingsPage(ctx, nil, nil, 2, "4")
	if err != nil {
		t.Fatalf("token at end: %v", err)
	}
	if len(res.Readings) != 0 || res.NextPageToken != "" {
		t.Fatalf("token at end: %+v", res)
	}
}

func TestMeterUsageService_CreateReading(t *testing.T) {
	t.Parallel()

	r := csvrepo.New(nil)
	svc := NewMeterUsageService(r)

	loc := time.FixedZone("UTC+2", 2*60*60)
	got, err := svc.CreateReading(context.Background(), 17580, time.Date(2017, time.March, 28, 2, 0, 0, 0, loc), "")
	if err != nil {
		t.Fatalf("CreateReading: %v", err)
	}
	if got.Unit != domain.DefaultUnit {
		t.Fatalf("unit=%q want %q", got.Unit, domain.DefaultUnit)
	}
	if got.ReadingDate.Location() != time.UTC || !got.ReadingDate.Equal(day(2017, time.March, 28)) {
		t.Fatalf("reading date=%v want 2017-03-28T00:00:00Z", got.ReadingDate)
	}
	if r.Len() != 1 {
		t.Fatalf("repo len=%d want 1", r.Len())
	}
}

func TestMeterUsageService_CreateReadingValidation(t *testing.T) {
	t.Parallel()

	svc := NewMeterUsageService(csvrepo.New(nil))
	ctx := context.Background()
	when := day(2017, time.March, 28)

	for _, tc := range []struct {
		name       string
		cumulative float64
		date       time.Time
	}{
		{"NaN", math.NaN(), when},
		{"infinite", math.Inf(1), when},
		{"negative", -1, when},
		{"zero date", 10, time.Time{}},
	} {
		if _, err := svc.CreateReading(ctx, tc.cumulative, tc.date, "kWh"); !errors.Is(err, ErrInvalidReading) {
			t.Fatalf("%s: err=%v want ErrInvalidReading", tc.name, err)
		}
	}
}

func TestMeterUsageService_CreateReadingStoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	svc := NewMeterUsageService(failingRepo{err: boom})
	if _, err := svc.CreateReading(context.Background(), 1, day(2017, time.March, 1), ""); !errors.Is(err, boom) {
		t.Fatalf("err=%v want boom", err)
	}
}

func TestMeterUsageService_MonthlyUsage(t *testing.T) {
	t.Parallel()

	svc := NewMeterUsageService(sampleRepo(), WithEstimator(estimate.New(estimate.FixedSource(0))))

	got, err := svc.MonthlyUsage(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("MonthlyUsage: %v", err)
	}
	want := []domain.UsageRecord{
		{Cumulative: 249, ReadingDate: "Apr-2017", Unit: "kWh"},
		{Cumulative: 346, ReadingDate: "May-2017", Unit: "kWh"},
	}
	if len(got) != len(want) {
		t.Fatalf("len=%d want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record[%d]=%+v want %+v", i, got[i], want[i])
		}
	}
}

func TestMeterUsageService_MonthlyUsageEmpty(t *testing.T) {
	t.Parallel()

	got, err := NewMeterUsageService(csvrepo.New(nil)).MonthlyUsage(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("MonthlyUsage: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v want empty non-nil", got)
	}
}

func TestMeterUsageService_MonthlyUsageUnprocessable(t *testing.T) {
	t.Parallel()

	r := csvrepo.New([]domain.Reading{
		{ReadingDate: day(2017, time.March, 20), Cumulative: 500, Unit: "kWh"},
		{ReadingDate: day(2017, time.April, 15), Cumulative: 400, Unit: "kWh"},
	})
	_, err := NewMeterUsageService(r).MonthlyUsage(context.Background(), nil, nil)
	if !errors.Is(err, ErrUnprocessable) {
		t.Fatalf("err=%v want ErrUnprocessable", err)
	}
	if !errors.Is(err, estimate.ErrInvalidArgument) {
		t.Fatalf("err=%v should wrap estimate.ErrInvalidArgument", err)
	}
}

func TestMeterUsageService_MonthlyUsageStoreError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := NewMeterUsageService(failingRepo{err: boom}).MonthlyUsage(context.Background(), nil, nil)
	if !errors.Is(err, boom) || errors.Is(err, ErrUnprocessable) {
		t.Fatalf("err=%v want store error only", err)
	}
}
