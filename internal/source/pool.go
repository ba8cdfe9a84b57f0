package source

import (
	"context"
	"fmt"
)

// Pool bounds how many blocking provider calls run at once
type Pool struct {
	slots chan struct{}
}

// NewPool creates a pool with size slots (minimum 1)
func NewPool(size int) *Pool {
	if size < 1 {
		size = 1
	}
	return &Pool{slots: make(chan struct{}, size)}
}

// Do runs fn on a pool goroutine and waits for it or ctx.
// An abandoned call keeps its slot until fn returns.
func (p *Pool) Do(ctx context.Context, fn func() error) error {
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	done := make(chan error, 1)
	go func() {
		defer func() { <-p.slots }()
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("panic in provider call: %v", r)
			}
		}()
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
