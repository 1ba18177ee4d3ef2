// Package live provides cancellable handles for long-running snapshot
// listeners and a debouncer for collapsing bursts of change events.
package live

import (
	"context"
	"errors"
	"sync"
)

// Subscription is a handle on a running producer goroutine. Stopping it
// cancels the producer's context and waits for it to return.
type Subscription struct {
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
	err      error
}

// Start runs fn in its own goroutine under a child of ctx. The error fn
// returns is reported by Err unless the subscription was cancelled first.
func Start(ctx context.Context, fn func(ctx context.Context) error) *Subscription {
	ctx, cancel := context.WithCancel(ctx)
	s := &Subscription{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(s.done)
		defer cancel()
		err := fn(ctx)
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			err = nil
		}
		s.err = err
	}()
	return s
}

// Stop cancels the producer and blocks until it has returned. It is safe to
// call more than once and from several goroutines, but not from inside the
// producer itself.
func (s *Subscription) Stop() {
	s.stopOnce.Do(s.cancel)
	<-s.done
}

// Done is closed once the producer has returned.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Err returns the producer's failure, or nil while it is still running or
// after a clean stop.
func (s *Subscription) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Join returns one handle over several subscriptions. It ends when it is
// stopped or when any member ends, and in both cases stops every member.
func Join(subs ...*Subscription) *Subscription {
	return Start(context.Background(), func(ctx context.Context) error {
		ended := make(chan error, len(subs))
		for _, sub := range subs {
			go func(sub *Subscription) {
				select {
				case <-sub.Done():
					ended <- sub.Err()
				case <-ctx.Done():
				}
			}(sub)
		}

		var err error
		select {
		case <-ctx.Done():
		case err = <-ended:
		}
		for _, sub := range subs {
			sub.Stop()
		}
		return err
	})
}
