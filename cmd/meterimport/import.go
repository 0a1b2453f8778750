package main

import (
	"context"
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/milad/meterreads/internal/domain"
	"github.com/milad/meterreads/internal/repo"
)

// importReadings inserts readings in batches and reports progress to w. It
// returns how many readings were stored before any error.
func importReadings(ctx context.Context, r repo.ReadingRepository, readings []domain.Reading, batchSize int, w io.Writer) (int, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batch size must be positive, got %d", batchSize)
	}

	bar := progressbar.NewOptions(len(readings),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("importing readings"),
		progressbar.OptionShowCount(),
	)
	defer func() { _ = bar.Finish() }()

	done := 0
	for done < len(readings) {
		if err := ctx.Err(); err != nil {
			return done, err
		}
		end := min(done+batchSize, len(readings))
		if err := r.Insert(ctx, readings[done:end]...); err != nil {
			return done, fmt.Errorf("insert readings %d-%d: %w", done, end-1, err)
		}
		_ = bar.Add(end - done)
		done = end
	}
	return done, nil
}
