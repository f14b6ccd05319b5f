package reflux

import "context"

// Watcher observes a source of action batches and emits raw bytes on a
// channel. Implementations should emit the current contents immediately so
// a Feed can apply its initial batch on Start.
type Watcher interface {
	// Watch begins observing the source and returns a channel that emits
	// raw bytes when a new batch is available. The channel is closed when
	// the context is canceled or an unrecoverable error occurs.
	Watch(ctx context.Context) (<-chan []byte, error)
}
