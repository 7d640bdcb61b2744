// Package event fans observed request/response pairs out to subscribers:
// audit log writers, alert bots, live monitors. The subscriber list is
// guarded by one mutex and snapshotted before dispatch, so concurrent
// subscribe/unsubscribe never affects an in-flight dispatch.
package event

import (
	"context"
	"errors"
	"sync"
	"time"

	"ocpinode/ocpi"

	"golang.org/x/sync/errgroup"
)

// Exchange One observed request/response pair.
type Exchange struct {
	Request  *ocpi.Request
	Response *ocpi.Response
}

// Subscriber Observation callback. The context is cancelled when a racing
// dispatch has been decided, so losing subscribers stop instead of leaking.
type Subscriber func(ctx context.Context, exchange *Exchange) (interface{}, error)

type ErrorLogger interface {
	Error(text string, err error)
}

var ErrTimeout = errors.New("event: dispatch timed out")
var ErrNoSubscribers = errors.New("event: no subscribers")

type subscription struct {
	id int
	fn Subscriber
}

type Notifier struct {
	mu          sync.Mutex
	nextId      int
	subscribers []subscription
	logger      ErrorLogger
}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) SetLogger(logger ErrorLogger) {
	n.logger = logger
}

// Subscribe registers a callback and returns its id for Unsubscribe.
func (n *Notifier) Subscribe(fn Subscriber) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.nextId++
	n.subscribers = append(n.subscribers, subscription{id: n.nextId, fn: fn})
	return n.nextId
}

func (n *Notifier) Unsubscribe(id int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, sub := range n.subscribers {
		if sub.id == id {
			n.subscribers = append(n.subscribers[:i], n.subscribers[i+1:]...)
			return
		}
	}
}

func (n *Notifier) snapshot() []Subscriber {
	n.mu.Lock()
	defer n.mu.Unlock()
	callbacks := make([]Subscriber, len(n.subscribers))
	for i, sub := range n.subscribers {
		callbacks[i] = sub.fn
	}
	return callbacks
}

func (n *Notifier) logError(text string, err error) {
	if n.logger != nil {
		n.logger.Error(text, err)
	}
}

// SendAll invokes every subscriber in registration order, awaiting each one.
// A failing subscriber is logged and does not stop the remaining ones.
func (n *Notifier) SendAll(ctx context.Context, exchange *Exchange) {
	for _, fn := range n.snapshot() {
		if _, err := fn(ctx, exchange); err != nil {
			n.logError("event subscriber failed", err)
		}
	}
}

type dispatchResult struct {
	value interface{}
	err   error
}

func (n *Notifier) launch(ctx context.Context, exchange *Exchange) ([]Subscriber, chan dispatchResult) {
	callbacks := n.snapshot()
	results := make(chan dispatchResult, len(callbacks))
	for _, fn := range callbacks {
		fn := fn
		go func() {
			value, err := fn(ctx, exchange)
			results <- dispatchResult{value: value, err: err}
		}()
	}
	return callbacks, results
}

// SendAny invokes all subscribers concurrently and returns the first
// completion, error or not. A zero timeout waits indefinitely.
func (n *Notifier) SendAny(ctx context.Context, exchange *Exchange, timeout time.Duration) (interface{}, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	callbacks, results := n.launch(ctx, exchange)
	if len(callbacks) == 0 {
		return nil, ErrNoSubscribers
	}
	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}
	select {
	case result := <-results:
		return result.value, result.err
	case <-timer:
		return nil, ErrTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// SendFirstMatching polls completions one at a time, discarding errors and
// non-matching results, and returns the first value the predicate accepts.
// When the timeout fires first, or every subscriber is exhausted without a
// match, the fallback computed from the elapsed time is returned instead.
// Subscriber errors are logged and skipped; SendParallel is the mode that
// surfaces them.
func (n *Notifier) SendFirstMatching(ctx context.Context, exchange *Exchange, timeout time.Duration,
	match func(value interface{}) bool, fallback func(elapsed time.Duration) interface{}) interface{} {

	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	callbacks, results := n.launch(ctx, exchange)

	var timer <-chan time.Time
	if timeout > 0 {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timer = t.C
	}
	for remaining := len(callbacks); remaining > 0; remaining-- {
		select {
		case result := <-results:
			if result.err != nil {
				n.logError("event subscriber failed", result.err)
				continue
			}
			if match(result.value) {
				return result.value
			}
		case <-timer:
			return fallback(time.Since(start))
		case <-ctx.Done():
			return fallback(time.Since(start))
		}
	}
	return fallback(time.Since(start))
}

// SendParallel invokes all subscribers concurrently and waits for every one;
// the first subscriber error is returned after all have completed.
func (n *Notifier) SendParallel(ctx context.Context, exchange *Exchange) error {
	var group errgroup.Group
	for _, fn := range n.snapshot() {
		fn := fn
		group.Go(func() error {
			_, err := fn(ctx, exchange)
			return err
		})
	}
	return group.Wait()
}
