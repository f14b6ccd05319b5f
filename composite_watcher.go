package reflux

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// CompositeWatcher fans several watchers into one stream so a single Feed
// can dispatch batches from many sources. Batches are forwarded in arrival
// order; there is no ordering between sources.
type CompositeWatcher struct {
	sources []Watcher
}

// MergeWatchers creates a CompositeWatcher over sources.
func MergeWatchers(sources ...Watcher) *CompositeWatcher {
	return &CompositeWatcher{sources: sources}
}

// Watch starts every source. If any source fails to start, the ones already
// started are cancelled and the error is returned. The merged channel closes
// once every source channel has closed or ctx ends.
func (w *CompositeWatcher) Watch(ctx context.Context) (<-chan []byte, error) {
	if len(w.sources) == 0 {
		return nil, errors.New("at least one source is required")
	}

	ctx, cancel := context.WithCancel(ctx)

	chans := make([]<-chan []byte, len(w.sources))
	for i, src := range w.sources {
		ch, err := src.Watch(ctx)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		chans[i] = ch
	}

	out := make(chan []byte)
	var wg sync.WaitGroup
	for _, ch := range chans {
		wg.Add(1)
		go func(ch <-chan []byte) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case batch, ok := <-ch:
					if !ok {
						return
					}
					select {
					case out <- batch:
					case <-ctx.Done():
						return
					}
				}
			}
		}(ch)
	}

	go func() {
		wg.Wait()
		cancel()
		close(out)
	}()

	return out, nil
}
