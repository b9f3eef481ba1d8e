package jobs

import (
	"context"

	"github.com/oneconcern/nr/pkg/errors"
	"go.uber.org/atomic"
)

// WaitAll waits for all jobs to finish, or for ctx to be done.
// The errors of jobs which did not succeed are combined.
func WaitAll(ctx context.Context, jobs ...*Job) error {
	var errs []error
	for _, job := range jobs {
		select {
		case <-job.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
		if err := job.Err(); err != nil {
			errs = append(errs, errors.New(job.Name()).Wrap(err))
		}
	}
	return errors.Combine(errs...)
}

// AsCompleted returns a channel yielding jobs in the order they finish.
// The channel is closed once all jobs finished.
func AsCompleted(jobs ...*Job) <-chan *Job {
	ch := make(chan *Job, len(jobs))
	if len(jobs) == 0 {
		close(ch)
		return ch
	}
	remaining := atomic.NewInt64(int64(len(jobs)))
	for _, job := range jobs {
		job.OnDone(func(j *Job) {
			ch <- j
			if remaining.Dec() == 0 {
				close(ch)
			}
		})
	}
	return ch
}
