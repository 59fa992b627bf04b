package orchestrator

import (
	"context"
	"sync"

	"github.com/orcalabs/kyogre/internal/application/common"
)

const defaultWorkerPoolSize = 8

// FanOut runs work over a bounded worker pool sharing one unbounded MPMC
// channel: the caller enqueues every item, closes the channel, and awaits
// all workers. A worker failure is logged and does not abort the other
// workers — partial progress is expected to be re-observed next cycle
//.
func FanOut[T any](ctx context.Context, poolSize int, items []T, handle func(ctx context.Context, item T) error) {
	if poolSize <= 0 {
		poolSize = defaultWorkerPoolSize
	}

	ch := make(chan T, len(items))
	for _, item := range items {
		ch <- item
	}
	close(ch)

	var wg sync.WaitGroup
	logger := common.LoggerFromContext(ctx)

	for i := 0; i < poolSize; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range ch {
				select {
				case <-ctx.Done():
					return
				default:
				}
				if err := handle(ctx, item); err != nil {
					logger.Log("error", "worker pool task failed", map[string]interface{}{"error": err.Error()})
				}
			}
		}()
	}
	wg.Wait()
}
