// Package workerpool provides simple concurrent processing utilities.
package workerpool

import (
	"context"
	"sync"
)

// Map runs fn over items with at most workerCount concurrent calls and
// returns the results in item order. Once ctx is done no further items are
// started; those keep the zero value and ctx.Err() is returned.
func Map[T, R any](
	ctx context.Context,
	workerCount int,
	items []T,
	fn func(context.Context, T) R,
) ([]R, error) {
	results := make([]R, len(items))
	if workerCount > len(items) {
		workerCount = len(items)
	}
	if workerCount <= 0 && len(items) > 0 {
		workerCount = 1
	}

	tasks := make(chan int)
	wg := sync.WaitGroup{}
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range tasks {
				results[idx] = fn(ctx, items[idx])
			}
		}()
	}

feed:
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			break feed
		case tasks <- i:
		}
	}
	close(tasks)
	wg.Wait()

	return results, ctx.Err()
}
