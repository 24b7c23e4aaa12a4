package panel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoopRunsPostedCallbacksInOrder(t *testing.T) {
	loop := NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())

	var seen []int
	for i := 0; i < 3; i++ {
		i := i
		loop.Post(func() { seen = append(seen, i) })
	}
	loop.Post(cancel)

	require.NoError(t, loop.Run(ctx))
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestLoopFailStopsRun(t *testing.T) {
	loop := NewLoop(1)
	boom := errors.New("boom")

	done := make(chan error, 1)
	go func() { done <- loop.Run(context.Background()) }()

	loop.Fail(boom)
	loop.Fail(errors.New("second failure is ignored"))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after Fail")
	}

	// Posting after failure must not block even with a full queue
	loop.Post(func() {})
	loop.Post(func() {})
}

func TestLoopCallbacksRunOnLoopGoroutine(t *testing.T) {
	loop := NewLoop(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go loop.Run(ctx)

	ran := make(chan struct{})
	go loop.Post(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("posted callback never ran")
	}
}

func TestLoopCloseDropsLaterPosts(t *testing.T) {
	loop := NewLoop(0)
	loop.Close()

	require.NoError(t, loop.Run(context.Background()))

	posted := make(chan struct{})
	go func() {
		loop.Post(func() {})
		close(posted)
	}()

	select {
	case <-posted:
	case <-time.After(time.Second):
		t.Fatal("Post blocked on a closed loop")
	}
}

func TestLoopRunsAfterEachCallback(t *testing.T) {
	loop := NewLoop(8)
	ctx, cancel := context.WithCancel(context.Background())

	var order []string
	loop.SetAfterEach(func() { order = append(order, "after") })
	loop.Post(func() { order = append(order, "a") })
	loop.Post(func() { order = append(order, "b") })
	loop.Post(cancel)

	require.NoError(t, loop.Run(ctx))
	assert.Equal(t, []string{"a", "after", "b", "after", "after"}, order)
}

func TestLoopCancelReleasesBlockedProducers(t *testing.T) {
	loop := NewLoop(1)
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	loop.Post(func() {
		close(started)
		<-ctx.Done()
	})

	var producers sync.WaitGroup
	for i := 0; i < 10; i++ {
		producers.Add(1)
		go func() {
			defer producers.Done()
			loop.Post(func() {})
		}()
	}

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	<-started
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	loop.Close()

	released := make(chan struct{})
	go func() {
		producers.Wait()
		close(released)
	}()
	select {
	case <-released:
	case <-time.After(time.Second):
		t.Fatal("producers stayed blocked after Close")
	}
}
