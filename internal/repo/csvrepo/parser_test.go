package csvrepo

import (
	"strings"
	"testing"
	"time"
)

func TestParseReadingsCSV_OK(t *testing.T) {
	t.Parallel()

	csv := strings.NewReader(strings.TrimSpace(`
cumulative,readingDate,unit
17580,2017-03-28T00:00:00.000Z,kWh
17759,2017-04-15T00:00:00.000Z,
`))

	readings, err := ParseReadingsCSV(csv)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := len(readings), 2; got != want {
		t.Fatalf("len(readings)=%d want %d", got, want)
	}
	if readings[0].ReadingDate.Location() != time.UTC {
		t.Fatalf("time location=%v want UTC", readings[0].ReadingDate.Location())
	}
	if got, want := readings[0].Cumulative, 17580.0; got != want {
		t.Fatalf("cumulative[0]=%v want %v", got, want)
	}
	if got, want := readings[1].Unit, "kWh"; got != want {
		t.Fatalf("unit[1]=%q want %q (default)", got, want)
	}
}

func TestParseReadingsCSV_SkipsInvalidRows(t *testing.T) {
	t.Parallel()

	csv := strings.NewReader(strings.TrimSpace(`
cumulative,readingDate,unit
17580,2017-03-28T00:00:00.000Z,kWh
NaN,2017-04-15T00:00:00.000Z,kWh
18002,not-a-time,kWh
-4,2017-05-20T00:00:00.000Z,kWh
18270,2017-06-18T00:00:00.000Z,kWh
`))

	readings, err := ParseReadingsCSV(csv)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if got, want := len(readings), 2; got != want {
		t.Fatalf("len(readings)=%d want %d", got, want)
	}
}

func TestParseReadingsCSV_RejectsHeader(t *testing.T) {
	t.Parallel()

	_, err := ParseReadingsCSV(strings.NewReader("time,meterusage\n2019-01-01 00:15:00,55.09\n"))
	if err == nil {
		t.Fatalf("expected header error")
	}
}
