// Package ticker is the fixed-cadence tick source that drives session engines.
package ticker

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is one engine second.
const DefaultInterval = time.Second

// Ticker invokes a callback at a fixed interval until stopped or its context ends.
type Ticker struct {
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// Start launches the tick loop. fn runs on the ticker goroutine, never concurrently with itself.
// A non-positive interval falls back to DefaultInterval.
func Start(ctx context.Context, interval time.Duration, fn func()) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	t := &Ticker{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go t.run(ctx, interval, fn)
	return t
}

func (t *Ticker) run(ctx context.Context, interval time.Duration, fn func()) {
	defer close(t.done)

	tk := time.NewTicker(interval)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.stop:
			return
		case <-tk.C:
			fn()
		}
	}
}

// Stop halts the loop without waiting for it; receive from Done to observe the exit.
// Calling Stop more than once, or from inside the callback, is safe.
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() { close(t.stop) })
}

// Done is closed once the loop has exited.
func (t *Ticker) Done() <-chan struct{} {
	return t.done
}
