package dynamo

import (
	"runtime"
	"sync"
)

// ParallelFor calls fn on contiguous chunks of [0, n), at most one chunk
// per GOMAXPROCS and never fewer than minChunk items per chunk unless n
// itself is smaller. It returns once every chunk is done. Small jobs run
// inline on the caller's goroutine.
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	if n <= 0 {
		fn(0, 0)
		return
	}
	if minChunk < 1 {
		minChunk = 1
	}

	workers := min(runtime.GOMAXPROCS(0), n/minChunk)
	if workers <= 1 {
		fn(0, n)
		return
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		start := start
		end := min(start+chunk, n)
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn(start, end)
		}()
	}
	wg.Wait()
}
