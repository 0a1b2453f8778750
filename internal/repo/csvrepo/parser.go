package csvrepo

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/milad/meterreads/internal/domain"
)

// ParseReadingsCSV parses readings from the provided CSV reader.
//
// Expected header: cumulative,readingDate[,unit]
//
// Dates are parsed with domain.ParseReadingDate and normalised to UTC. A missing or
// empty unit defaults to domain.DefaultUnit. Invalid rows are skipped and returned
// as a joined error (errors.Join).
func ParseReadingsCSV(r io.Reader) ([]domain.Reading, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // be permissive; validate ourselves
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) < 2 || !strings.EqualFold(strings.TrimSpace(header[0]), "cumulative") || !strings.EqualFold(strings.TrimSpace(header[1]), "readingDate") {
		return nil, fmt.Errorf("unexpected header %q (want %q)", strings.Join(header, ","), "cumulative,readingDate,unit")
	}

	var (
		readings []domain.Reading
		rowErrs  []error
		rowNum   = 1 // header
	)

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: read: %w", rowNum, err))
			continue
		}
		if len(row) < 2 {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: expected at least 2 columns, got %d", rowNum, len(row)))
			continue
		}

		f, err := strconv.ParseFloat(strings.TrimSpace(row[0]), 64)
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: parse cumulative %q: %w", rowNum, row[0], err))
			continue
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: invalid cumulative %v", rowNum, f))
			continue
		}

		t, err := domain.ParseReadingDate(row[1])
		if err != nil {
			rowErrs = append(rowErrs, fmt.Errorf("row %d: %w", rowNum, err))
			continue
		}

		unit := domain.DefaultUnit
		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			unit = strings.TrimSpace(row[2])
		}

		readings = append(readings, domain.Reading{
			ReadingDate: t,
			Cumulative:  f,
			Unit:        unit,
		})
	}

	// Ensure we return stable, non-nil slice.
	if readings == nil {
		readings = []domain.Reading{}
	}
	return readings, errors.Join(rowErrs...)
}
