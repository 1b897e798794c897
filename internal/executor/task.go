package executor

import (
	"context"

	"github.com/studiowebux/wayqa/internal/types"
)

// Outcome is the result of one execution
type Outcome struct {
	Request  types.Request
	Response *types.Response
	Err      error
}

// Task is one in-flight execution. The worker goroutine hands its outcome
// over through a channel with room for exactly one value, so it never
// blocks and the consumer never waits.
type Task struct {
	done    chan Outcome
	outcome *Outcome
}

// Start runs exec.Execute(ctx, req) on a new goroutine
func Start(ctx context.Context, exec *Executor, req types.Request) *Task {
	t := &Task{done: make(chan Outcome, 1)}

	go func() {
		resp, err := exec.Execute(ctx, req)
		t.done <- Outcome{Request: req, Response: resp, Err: err}
	}()

	return t
}

// Poll returns the outcome if the execution has finished. It never blocks.
// Once an outcome has been returned, every later call returns it again.
func (t *Task) Poll() (Outcome, bool) {
	if t.outcome != nil {
		return *t.outcome, true
	}

	select {
	case o := <-t.done:
		t.outcome = &o
		return o, true
	default:
		return Outcome{}, false
	}
}

// Wait blocks until the execution finishes or ctx is done
func (t *Task) Wait(ctx context.Context) (Outcome, error) {
	if t.outcome != nil {
		return *t.outcome, nil
	}

	select {
	case o := <-t.done:
		t.outcome = &o
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	}
}
