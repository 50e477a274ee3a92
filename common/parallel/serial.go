package parallel

import (
	"context"
	"runtime"
	"sync"
)

// Serial executes tasks on a pool of routines and collects the results in
// task order. The first error stops the pool and is returned.
func Serial[T any](ctx context.Context, parallelizable Interface[T], tasks int, option ...SerialOption) error {
	if tasks <= 0 {
		return nil
	}

	var opt SerialOption
	if len(option) > 0 {
		opt = option[0]
	}
	opt.Normalize(tasks)

	channelLen := max(opt.Routines, opt.Window)
	taskCh := make(chan int, channelLen)
	defer close(taskCh)
	resultCh := make(chan *Result[T], channelLen)
	defer close(resultCh)

	var wg sync.WaitGroup
	ctx, cancel := context.WithCancel(ctx)

	// start routines to do tasks
	for i := 0; i < opt.Routines; i++ {
		wg.Add(1)
		go work(ctx, i, parallelizable, taskCh, resultCh, &wg)
	}

	err := collect(ctx, parallelizable, taskCh, resultCh, tasks, channelLen, opt.Window > 0)

	// notify all routines to terminate
	cancel()

	// wait for termination for all routines
	wg.Wait()

	return err
}

func work[T any](ctx context.Context, routine int, parallelizable Interface[T], taskCh <-chan int, resultCh chan<- *Result[T], wg *sync.WaitGroup) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case task := <-taskCh:
			val, err := parallelizable.ParallelDo(ctx, routine, task)
			resultCh <- &Result[T]{routine, task, val, err}
			if err != nil {
				return
			}
		}
	}
}

func collect[T any](ctx context.Context, parallelizable Interface[T], taskCh chan<- int, resultCh <-chan *Result[T], tasks, channelLen int, hasWindow bool) error {
	// with a window, channelLen is the window and it is filled first;
	// otherwise channelLen is the number of routines
	for i := 0; i < channelLen && i < tasks; i++ {
		taskCh <- i
	}

	var next, cnt int
	cache := map[int]*Result[T]{}

	for next < tasks {
		if err := ctx.Err(); err != nil {
			return err
		}

		var result *Result[T]
		select {
		case <-ctx.Done():
			return ctx.Err()
		case result = <-resultCh:
		}

		if result.err != nil {
			return result.err
		}

		cache[result.Task] = result

		// handle task in sequence
		for cache[next] != nil {
			if err := parallelizable.ParallelCollect(cache[next]); err != nil {
				return err
			}

			// dispatch new task
			if hasWindow {
				if newTask := next + channelLen; newTask < tasks {
					taskCh <- newTask
				}
			}

			// clear cache and move window forward
			delete(cache, next)
			next++
		}

		if !hasWindow {
			if newTask := cnt + channelLen; newTask < tasks {
				taskCh <- newTask
			}
		}
		cnt++
	}

	return nil
}

type SerialOption struct {
	Routines int
	Window   int
}

func (opt *SerialOption) Normalize(tasks int) {
	// 0 < routines <= tasks
	if opt.Routines <= 0 {
		opt.Routines = runtime.GOMAXPROCS(0)
	}

	if opt.Routines > tasks {
		opt.Routines = tasks
	}

	// window disabled
	if opt.Window <= 0 {
		opt.Window = 0
		return
	}

	// routines <= window <= tasks
	if opt.Window < opt.Routines {
		opt.Window = opt.Routines
	}

	if opt.Window > tasks {
		opt.Window = tasks
	}
}
