package concurrency

import (
	"context"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMax default max
	DefaultMax = 256
)

// DefaultGoLimit default go limit, max:256
var DefaultGoLimit = NewGoLimit(DefaultMax)

// GoLimit go limit
type GoLimit struct {
	ch chan int
}

// NewGoLimit new go limit
func NewGoLimit(max int) *GoLimit {
	if max <= 0 {
		max = DefaultMax
	}

	return &GoLimit{
		ch: make(chan int, max),
	}
}

// Add take a slot, blocking while the limit is reached
func (g *GoLimit) Add() {
	g.ch <- 1
}

// Done release a slot
func (g *GoLimit) Done() {
	<-g.ch
}

// Await run every task with at most limit in flight and wait for them.
// The first error cancels the context handed to the remaining tasks.
func Await(ctx context.Context, limit *GoLimit, tasks ...func(ctx context.Context) error) error {
	if limit == nil {
		limit = DefaultGoLimit
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		task := task
		limit.Add()
		g.Go(func() error {
			defer limit.Done()
			return task(ctx)
		})
	}

	return g.Wait()
}
