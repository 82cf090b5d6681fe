// Package pool runs independent units of work on a fixed number of workers.
// Workers pull jobs from a queue; a job that has not started when the
// context is cancelled is reported as cancelled instead of being run.
package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"

	"go.uber.org/zap"
)

// ErrCancelled marks jobs that never started because the run was cancelled.
var ErrCancelled = errors.New("cancelled")

// PanicError carries a panic recovered from a job.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Config configures a Pool.
type Config struct {
	Workers int
}

// Pool executes jobs with bounded parallelism.
type Pool struct {
	workers int
	logger  *zap.Logger
}

// New creates a pool. Fewer than one worker is treated as one.
func New(cfg Config, logger *zap.Logger) *Pool {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	return &Pool{
		workers: cfg.Workers,
		logger:  logger.Named("pool"),
	}
}

// Workers returns the configured parallelism.
func (p *Pool) Workers() int {
	return p.workers
}

// Job is a unit of work.
type Job[T any] struct {
	ID  string
	Run func(ctx context.Context) (T, error)
}

// Result is the outcome of a job. Index is the job's position in the
// submitted slice.
type Result[T any] struct {
	ID      string
	Index   int
	Value   T
	Err     error
	Started bool
}

// Run executes jobs and returns one result per job in completion order.
// onResult, if set, is called from the calling goroutine as each result
// arrives, so it may safely cancel ctx to stop scheduling further jobs.
func Run[T any](ctx context.Context, p *Pool, jobs []Job[T], onResult func(Result[T])) []Result[T] {
	if len(jobs) == 0 {
		return nil
	}

	queue := make(chan int, len(jobs))
	for i := range jobs {
		queue <- i
	}
	close(queue)

	workers := p.workers
	if workers > len(jobs) {
		workers = len(jobs)
	}

	results := make(chan Result[T], len(jobs))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := range queue {
				results <- execute(ctx, p.logger, worker, i, jobs[i])
			}
		}(w)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]Result[T], 0, len(jobs))
	for r := range results {
		out = append(out, r)
		if onResult != nil {
			onResult(r)
		}
	}
	return out
}

func execute[T any](ctx context.Context, logger *zap.Logger, worker, index int, job Job[T]) (res Result[T]) {
	res = Result[T]{ID: job.ID, Index: index}
	if err := ctx.Err(); err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrCancelled, err)
		return res
	}

	res.Started = true
	defer func() {
		if v := recover(); v != nil {
			logger.Error("job panicked",
				zap.String("job", job.ID),
				zap.Int("worker", worker),
				zap.Any("panic", v))
			var zero T
			res.Value = zero
			res.Err = &PanicError{Value: v, Stack: debug.Stack()}
		}
	}()

	logger.Debug("job started", zap.String("job", job.ID), zap.Int("worker", worker))
	res.Value, res.Err = job.Run(ctx)
	return res
}
