package vectorcsv

import (
	"sync/atomic"
	"testing"
)

func TestRecommendedWorkersBounded(t *testing.T) {
	n := recommendedWorkers()
	if n < 1 || n > 8 {
		t.Errorf("recommendedWorkers() = %d, want between 1 and 8", n)
	}
}

func TestPoolSubmitRunsEveryJob(t *testing.T) {
	p := newPool(4)
	defer p.closeOnce.Do(func() { close(p.closed) })

	var total int64
	n := 200
	done := make(chan struct{}, n)
	for i := 0; i < n; i++ {
		go func() {
			p.submit(func() { atomic.AddInt64(&total, 1) })
			done <- struct{}{}
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}
	if total != int64(n) {
		t.Errorf("expected %d jobs run, got %d", n, total)
	}
}

func TestPoolSubmitFallsBackInlineAfterClose(t *testing.T) {
	p := newPool(2)
	p.closeOnce.Do(func() { close(p.closed) })

	ran := false
	p.submit(func() { ran = true })
	if !ran {
		t.Errorf("expected submit to run fn inline once the pool is closed")
	}
}

func TestShutdownIsIdempotentAndSafeWithoutAPool(t *testing.T) {
	// Calling Shutdown before any shared pool exists must be a no-op, and
	// calling it repeatedly afterwards must not panic.
	Shutdown()
	Shutdown()

	_ = sharedPool()
	Shutdown()
	Shutdown()
}
