package csvrepo

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/milad/meterreads/internal/domain"
)

func mustUTC(t *testing.T, s string) time.Time {
	t.Helper()
	got, err := domain.ParseReadingDate(s)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return got
}

func TestRepo_ListFiltersByTimeRange(t *testing.T) {
	t.Parallel()

	r := New([]domain.Reading{
		{ReadingDate: mustUTC(t, "2017-03-28"), Cumulative: 1},
		{ReadingDate: mustUTC(t, "2017-04-15"), Cumulative: 2},
		{ReadingDate: mustUTC(t, "2017-05-08"), Cumulative: 3},
	})

	start := mustUTC(t, "2017-04-15")
	end := mustUTC(t, "2017-05-08")

	out, err := r.List(context.Background(), &start, &end)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got, want := len(out), 1; got != want {
		t.Fatalf("len(out)=%d want %d", got, want)
	}
	if got, want := out[0].Cumulative, 2.0; got != want {
		t.Fatalf("out[0].Cumulative=%v want %v", got, want)
	}
}

func TestRepo_InsertKeepsOrder(t *testing.T) {
	t.Parallel()

	r := New([]domain.Reading{
		{ReadingDate: mustUTC(t, "2017-05-08"), Cumulative: 3},
		{ReadingDate: mustUTC(t, "2017-03-28"), Cumulative: 1},
	})
	err := r.Insert(context.Background(),
		domain.Reading{ReadingDate: mustUTC(t, "2017-04-15"), Cumulative: 2},
		domain.Reading{ReadingDate: mustUTC(t, "2017-06-18"), Cumulative: 4},
	)
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	out, err := r.List(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got, want := len(out), 4; got != want {
		t.Fatalf("len(out)=%d want %d", got, want)
	}
	for i := range out {
		if got, want := out[i].Cumulative, float64(i+1); got != want {
			t.Fatalf("out[%d].Cumulative=%v want %v", i, got, want)
		}
	}
}

func TestRepo_ConcurrentInsertAndList(t *testing.T) {
	t.Parallel()

	r := New(nil)
	base := mustUTC(t, "2017-01-01")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = r.Insert(context.Background(), domain.Reading{ReadingDate: base.AddDate(0, 0, i), Cumulative: float64(i)})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = r.List(context.Background(), nil, nil)
		}()
	}
	wg.Wait()

	if got, want := r.Len(), 50; got != want {
		t.Fatalf("Len()=%d want %d", got, want)
	}
}

func TestNewFromFile_PartialSuccess(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reads.csv")
	data := "cumulative,readingDate,unit\n18002,2017-05-08T00:00:00.000Z,kWh\nbad,2017-04-15,kWh\n17580,2017-03-28T00:00:00.000Z,kWh\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	r, err := NewFromFile(path)
	if err == nil {
		t.Fatalf("expected a warning error for the bad row")
	}
	if r == nil {
		t.Fatalf("expected a repo despite the bad row")
	}
	out, _ := r.List(context.Background(), nil, nil)
	if got, want := len(out), 2; got != want {
		t.Fatalf("len(out)=%d want %d", got, want)
	}
	if !out[0].ReadingDate.Before(out[1].ReadingDate) {
		t.Fatalf("expected ascending order, got %v then %v", out[0].ReadingDate, out[1].ReadingDate)
	}
}
