package parallel

import "context"

// Result is the outcome of one task.
type Result[T any] struct {
	Routine int
	Task    int
	Value   T
	err     error
}

// Interface splits a job into numbered tasks. ParallelDo runs concurrently;
// ParallelCollect is called on a single goroutine in task order.
type Interface[T any] interface {
	ParallelDo(ctx context.Context, routine, task int) (T, error)
	ParallelCollect(result *Result[T]) error
}
