package storage

import (
	"context"
	"fmt"
	"log"
	"time"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations should
// insert the provided rows (aligned to 'columns' order) and return the number
// of rows reported as inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches splits rows into batches of batchSize and calls copyFn for
// each. It returns the total number of rows reported by copyFn and the first
// error encountered.
//
// Cancellation is checked between batches. When verbose is set, a progress
// line is logged per flushed batch.
func LoadBatches(
	ctx context.Context,
	table string,
	columns []string,
	rows [][]any,
	batchSize int,
	verbose bool,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total       int64
		batches     int64
		start       = time.Now()
		lastFlushTS = start
	)

	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		hi := lo + batchSize
		if hi > len(rows) {
			hi = len(rows)
		}

		n, err := copyFn(ctx, columns, rows[lo:hi])
		total += n
		if err != nil {
			log.Printf("loader: table=%s COPY failed after=%d total=%d err=%v", table, n, total, err)
			return total, err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastFlushTS)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(n) / sinceLast.Seconds()
		}
		if verbose {
			log.Printf(
				"loader: table=%s batch #%d: rps=%.0f inserted=%d total_inserted=%d elapsed=%s since_last=%s",
				table,
				batches,
				rps,
				n,
				total,
				now.Sub(start).Truncate(time.Millisecond),
				sinceLast.Truncate(time.Millisecond),
			)
		}
		lastFlushTS = now
	}
	return total, nil
}
