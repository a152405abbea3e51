package hdrtone

import (
	"runtime"
	"sync"
)

// minRowsPerWorker keeps small images on the calling goroutine.
const minRowsPerWorker = 16

var (
	workerSemOnce sync.Once
	workerSem     chan struct{}
)

// parallelFor splits [0, total) into contiguous chunks and runs fn on each.
// All calls share one process-wide semaphore sized by GOMAXPROCS at first use.
func parallelFor(total, maxWorkers int, fn func(start, end int)) {
	if total <= 0 {
		return
	}
	workerSemOnce.Do(func() {
		workerSem = make(chan struct{}, runtime.GOMAXPROCS(0))
	})
	workers := cap(workerSem)
	if maxWorkers > 0 && workers > maxWorkers {
		workers = maxWorkers
	}
	if byRows := total / minRowsPerWorker; workers > byRows {
		workers = byRows
	}
	if workers <= 1 {
		fn(0, total)
		return
	}
	step := (total + workers - 1) / workers
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		start := i * step
		end := start + step
		if end > total {
			end = total
		}
		if start >= end {
			break
		}
		workerSem <- struct{}{}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			defer func() { <-workerSem }()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
