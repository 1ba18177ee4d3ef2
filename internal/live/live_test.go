package live

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockUntilCancelled(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestSubscription_StopIsIdempotent(t *testing.T) {
	sub := Start(context.Background(), blockUntilCancelled)

	sub.Stop()
	sub.Stop()

	select {
	case <-sub.Done():
	default:
		t.Fatal("expected Done to be closed after Stop")
	}
	assert.NoError(t, sub.Err())
}

func TestSubscription_ConcurrentStop(t *testing.T) {
	sub := Start(context.Background(), blockUntilCancelled)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sub.Stop()
		}()
	}
	wg.Wait()
	assert.NoError(t, sub.Err())
}

func TestSubscription_ReportsProducerError(t *testing.T) {
	boom := errors.New("listen failed")
	sub := Start(context.Background(), func(context.Context) error { return boom })

	<-sub.Done()
	assert.ErrorIs(t, sub.Err(), boom)

	// Stopping after the producer has returned is fine.
	sub.Stop()
	assert.ErrorIs(t, sub.Err(), boom)
}

func TestSubscription_ParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := Start(ctx, blockUntilCancelled)
	cancel()

	select {
	case <-sub.Done():
	case <-time.After(time.Second):
		t.Fatal("producer did not observe parent cancellation")
	}
	assert.NoError(t, sub.Err())
}

func TestJoin_StopsMembers(t *testing.T) {
	a := Start(context.Background(), blockUntilCancelled)
	b := Start(context.Background(), blockUntilCancelled)

	joined := Join(a, b)
	joined.Stop()

	<-a.Done()
	<-b.Done()
	assert.NoError(t, joined.Err())
}

func TestJoin_MemberFailureEndsAll(t *testing.T) {
	boom := errors.New("wishlist listener failed")
	a := Start(context.Background(), blockUntilCancelled)
	b := Start(context.Background(), func(context.Context) error { return boom })

	joined := Join(a, b)
	select {
	case <-joined.Done():
	case <-time.After(time.Second):
		t.Fatal("joined subscription did not end")
	}
	assert.ErrorIs(t, joined.Err(), boom)
	<-a.Done()
}

func TestDebouncer_CoalescesBursts(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })
	defer d.Stop()

	for i := 0; i < 5; i++ {
		d.Trigger()
		time.Sleep(2 * time.Millisecond)
	}

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	var calls atomic.Int32
	d := NewDebouncer(20*time.Millisecond, func() { calls.Add(1) })

	d.Trigger()
	d.Stop()
	d.Trigger()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestDebouncer_StopWaitsForRunningCall(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	d := NewDebouncer(time.Millisecond, func() {
		close(started)
		<-release
		finished.Store(true)
	})

	d.Trigger()
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("debounced call never started")
	}

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while the call was still running")
	case <-time.After(30 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the call finished")
	}
	assert.True(t, finished.Load())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	a := Start(context.Background(), blockUntilCancelled)
	b := Start(context.Background(), blockUntilCancelled)
	reg.Register("a", a)
	reg.Register("b", b)
	assert.Equal(t, 2, reg.Len())

	assert.True(t, reg.Stop("a"))
	assert.False(t, reg.Stop("a"))
	<-a.Done()

	reg.StopAll()
	<-b.Done()
	assert.Zero(t, reg.Len())
}
