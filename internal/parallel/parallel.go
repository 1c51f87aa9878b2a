// Package parallel runs index ranges across a bounded number of goroutines.
package parallel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers resolves a worker count: values below 1 mean runtime.NumCPU.
func Workers(n int) int {
	if n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// For calls fn(i) for every i in [0, n), spreading contiguous chunks over
// the given number of workers, and returns once all calls have finished.
// fn must only write state owned by index i.
func For(n, workers int, fn func(i int)) {
	workers = Workers(workers)
	if n <= 0 {
		return
	}
	if workers == 1 || n == 1 {
		for i := range n {
			fn(i)
		}
		return
	}
	chunk := max(1, n/(workers*4))

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				fn(i)
			}
			return nil
		})
	}
	_ = g.Wait()
}
