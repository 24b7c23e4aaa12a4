package panel

import (
	"context"
	"sync"
)

// Dispatcher moves work onto the event loop goroutine
type Dispatcher interface {
	// Post queues fn to run on the loop
	Post(fn func())
	// Fail ends the loop with err
	Fail(err error)
}

// Loop is the single goroutine that owns all UI state
type Loop struct {
	events chan func()
	failed chan struct{}

	once  sync.Once
	err   error
	after func()
}

// Ensure Loop implements Dispatcher
var _ Dispatcher = (*Loop)(nil)

// NewLoop creates a loop with room for buffer pending callbacks
func NewLoop(buffer int) *Loop {
	return &Loop{
		events: make(chan func(), buffer),
		failed: make(chan struct{}),
	}
}

// Post queues fn. It blocks while the queue is full and drops fn once the
// loop has failed. Callbacks running on the loop must not call Post; work
// that has to follow a callback goes through SetAfterEach.
func (l *Loop) Post(fn func()) {
	select {
	case l.events <- fn:
	case <-l.failed:
	}
}

// Fail records the first fatal error and stops the loop
func (l *Loop) Fail(err error) {
	l.once.Do(func() {
		l.err = err
		close(l.failed)
	})
}

// SetAfterEach registers fn to run on the loop after every callback.
// It must be called before Run.
func (l *Loop) SetAfterEach(fn func()) {
	l.after = fn
}

// Close stops the loop without an error. Later posts are dropped, so
// producers never block on a loop that is no longer running.
func (l *Loop) Close() {
	l.Fail(nil)
}

// Run executes queued callbacks until ctx is done or Fail is called.
// It returns the fatal error, or nil on cancellation.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-l.failed:
			return l.err
		case fn := <-l.events:
			fn()
			if l.after != nil {
				l.after()
			}
		}
	}
}
