package ticker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerInvokesCallback(t *testing.T) {
	var count atomic.Int64
	tk := Start(context.Background(), 5*time.Millisecond, func() { count.Add(1) })
	defer tk.Stop()

	require.Eventually(t, func() bool { return count.Load() >= 3 }, time.Second, time.Millisecond)
}

func TestTickerStopIsIdempotent(t *testing.T) {
	var count atomic.Int64
	tk := Start(context.Background(), 5*time.Millisecond, func() { count.Add(1) })

	tk.Stop()
	tk.Stop()

	select {
	case <-tk.Done():
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop")
	}

	frozen := count.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, frozen, count.Load())
}

func TestTickerStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	tk := Start(ctx, time.Hour, func() {})
	cancel()

	select {
	case <-tk.Done():
	case <-time.After(time.Second):
		t.Fatal("ticker ignored context cancellation")
	}
	tk.Stop()
}

func TestTickerStopFromCallback(t *testing.T) {
	var tk *Ticker
	started := make(chan struct{})
	tk = Start(context.Background(), 2*time.Millisecond, func() {
		<-started
		tk.Stop()
	})
	close(started)

	select {
	case <-tk.Done():
	case <-time.After(time.Second):
		t.Fatal("ticker did not stop from callback")
	}
}
