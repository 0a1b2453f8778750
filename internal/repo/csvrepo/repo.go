package csvrepo

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/milad/meterreads/internal/domain"
	"github.com/milad/meterreads/internal/repo"
)

var _ repo.ReadingRepository = (*Repo)(nil)

// Repo is an in-memory repository, optionally seeded from a CSV file at startup.
type Repo struct {
	mu       sync.RWMutex
	readings []domain.Reading // sorted ascending by ReadingDate
}

func NewFromFile(path string) (*Repo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %q: %w", path, err)
	}
	defer f.Close()

	readings, parseErr := ParseReadingsCSV(f)
	if len(readings) == 0 && parseErr != nil {
		return nil, fmt.Errorf("parse csv %q: %w", path, parseErr)
	}
	sortReadings(readings)

	// Parsing can be partially successful; surface warnings to the caller.
	if parseErr != nil {
		return &Repo{readings: readings}, fmt.Errorf("parse csv %q: %w", path, parseErr)
	}
	return &Repo{readings: readings}, nil
}

func New(readings []domain.Reading) *Repo {
	cp := append([]domain.Reading(nil), readings...)
	sortReadings(cp)
	return &Repo{readings: cp}
}

func (r *Repo) List(ctx context.Context, startInclusive *time.Time, endExclusive *time.Time) ([]domain.Reading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	readings := r.readings
	if startInclusive != nil {
		start := *startInclusive
		i := sort.Search(len(readings), func(i int) bool { return !readings[i].ReadingDate.Before(start) })
		readings = readings[i:]
	}
	if endExclusive != nil {
		end := *endExclusive
		j := sort.Search(len(readings), func(i int) bool { return !readings[i].ReadingDate.Before(end) })
		readings = readings[:j]
	}

	out := append([]domain.Reading(nil), readings...)
	return out, nil
}

// Insert places each reading after any existing reading with the same date.
func (r *Repo) Insert(ctx context.Context, readings ...domain.Reading) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rd := range readings {
		rd.ReadingDate = rd.ReadingDate.UTC()
		i := sort.Search(len(r.readings), func(i int) bool { return r.readings[i].ReadingDate.After(rd.ReadingDate) })
		r.readings = append(r.readings, domain.Reading{})
		copy(r.readings[i+1:], r.readings[i:])
		r.readings[i] = rd
	}
	return nil
}

func (r *Repo) Ping(context.Context) error { return nil }

// Len returns the number of stored readings.
func (r *Repo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.readings)
}

func sortReadings(readings []domain.Reading) {
	sort.SliceStable(readings, func(i, j int) bool { return readings[i].ReadingDate.Before(readings[j].ReadingDate) })
}
