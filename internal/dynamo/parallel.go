package dynamo

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the worker count used when a caller asks for 0 workers.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// Chunks splits [0, n) into at most workers contiguous ranges of at least
// minChunk elements. It always returns at least one range when n > 0.
func Chunks(n, workers, minChunk int) [][2]int {
	if n <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if minChunk < 1 {
		minChunk = 1
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers
	out := make([][2]int, 0, workers)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		out = append(out, [2]int{start, end})
	}
	return out
}

// ParallelFor runs fn over the ranges produced by Chunks, one goroutine per
// range. worker is the index of the range. The first error is returned
// after every goroutine finished.
func ParallelFor(n, workers, minChunk int, fn func(worker, start, end int) error) error {
	chunks := Chunks(n, workers, minChunk)
	if len(chunks) == 0 {
		return nil
	}
	if len(chunks) == 1 {
		return fn(0, chunks[0][0], chunks[0][1])
	}

	var g errgroup.Group
	for w, c := range chunks {
		w, start, end := w, c[0], c[1]
		g.Go(func() error {
			return fn(w, start, end)
		})
	}
	return g.Wait()
}
