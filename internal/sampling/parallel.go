package sampling

import (
	"context"
	"runtime"
	"sync"
)

// ParallelFor executes fn over [0, n) split into contiguous chunks, one
// goroutine per chunk. Chunks that have not started when ctx is done are
// skipped.
func ParallelFor(ctx context.Context, n, minChunk int, fn func(start, end int)) error {
	if n <= 0 {
		return ctx.Err()
	}
	if minChunk < 1 {
		minChunk = 1
	}

	workers := runtime.NumCPU()
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers <= 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		fn(0, n)
		return nil
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
	return ctx.Err()
}
