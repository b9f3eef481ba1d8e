package jobs

import (
	"context"
	"runtime"
	"sync"

	"github.com/oneconcern/nr/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

var defaultWorkers = runtime.NumCPU()

// Option configures a Scheduler
type Option func(*Scheduler)

// MaxWorkers sets the maximum number of jobs running concurrently
func MaxWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.maxWorkers = n
		}
	}
}

// Logger sets the logger of a Scheduler
func Logger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// Scheduler runs submitted jobs on a bounded number of goroutines, in FIFO order
type Scheduler struct {
	logger     *zap.Logger
	maxWorkers int
	sem        *semaphore.Weighted

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []*Job
	jobs   []*Job
	closed bool
	exited chan struct{}
}

// NewScheduler starts a scheduler. Jobs run with a context derived from ctx.
func NewScheduler(ctx context.Context, opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:     zap.NewNop(),
		maxWorkers: defaultWorkers,
		exited:     make(chan struct{}),
	}
	for _, apply := range opts {
		apply(s)
	}
	s.sem = semaphore.NewWeighted(int64(s.maxWorkers))
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cond = sync.NewCond(&s.mu)

	go s.dispatch()
	return s
}

// MaxWorkers is the maximum number of jobs running at the same time
func (s *Scheduler) MaxWorkers() int {
	return s.maxWorkers
}

// Submit queues a pending job
func (s *Scheduler) Submit(job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.New(job.Name()).Wrap(ErrSchedulerClosed)
	}
	if job.State() != Pending {
		return errors.New(job.Name()).Wrap(ErrNotPending)
	}
	s.queue = append(s.queue, job)
	s.jobs = append(s.jobs, job)
	s.cond.Signal()
	s.logger.Debug("job submitted", zap.String("job", job.Name()), zap.Int("queued", len(s.queue)))
	return nil
}

// Run wraps fn into a job and submits it
func (s *Scheduler) Run(name string, fn Func) (*Job, error) {
	job := New(name, fn)
	if err := s.Submit(job); err != nil {
		return nil, err
	}
	return job, nil
}

// Jobs returns all submitted jobs, in submission order
func (s *Scheduler) Jobs() []*Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	jobs := make([]*Job, len(s.jobs))
	copy(jobs, s.jobs)
	return jobs
}

// Pending is the number of jobs waiting for a worker
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}

// Wait for all jobs submitted so far to finish, or for ctx to be done.
// The errors of failed jobs are combined.
func (s *Scheduler) Wait(ctx context.Context) error {
	return WaitAll(ctx, s.Jobs()...)
}

// Errors combines the errors of all finished jobs which did not succeed
func (s *Scheduler) Errors() error {
	var errs []error
	for _, job := range s.Jobs() {
		if st := job.State(); st == Failed || st == Cancelled {
			errs = append(errs, errors.New(job.Name()).Wrap(job.Err()))
		}
	}
	return errors.Combine(errs...)
}

// Shutdown stops accepting jobs and waits for the submitted ones to finish.
//
// When cancelPending is true, jobs still waiting for a worker are cancelled.
// If ctx is done before all jobs finish, running jobs are cancelled too.
func (s *Scheduler) Shutdown(ctx context.Context, cancelPending bool) error {
	s.mu.Lock()
	s.closed = true
	var pending []*Job
	if cancelPending {
		pending = s.queue
		s.queue = nil
	}
	s.cond.Broadcast()
	s.mu.Unlock()

	for _, job := range pending {
		job.Cancel()
	}
	if len(pending) > 0 {
		s.logger.Info("pending jobs cancelled", zap.Int("cancelled", len(pending)))
	}

	select {
	case <-s.exited:
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	}

	err := s.Wait(ctx)
	if ctx.Err() != nil {
		s.cancel()
		return ctx.Err()
	}
	s.cancel()
	return err
}

func (s *Scheduler) next() *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	for len(s.queue) == 0 && !s.closed {
		s.cond.Wait()
	}
	if len(s.queue) == 0 {
		return nil
	}
	job := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return job
}

// dispatch waits for a free worker before dequeuing, so that queued jobs
// remain cancellable until they start.
func (s *Scheduler) dispatch() {
	defer close(s.exited)
	for {
		if err := s.sem.Acquire(s.ctx, 1); err != nil {
			for job := s.next(); job != nil; job = s.next() {
				job.Cancel()
			}
			return
		}
		job := s.next()
		if job == nil {
			s.sem.Release(1)
			return
		}
		if job.State() != Pending {
			s.sem.Release(1)
			continue
		}
		go func(job *Job) {
			defer s.sem.Release(1)
			s.logger.Debug("job started", zap.String("job", job.Name()))
			if err := job.Run(s.ctx); err != nil {
				s.logger.Warn("job did not succeed", zap.String("job", job.Name()), zap.Stringer("state", job.State()), zap.Error(err))
				return
			}
			s.logger.Debug("job succeeded", zap.String("job", job.Name()))
		}(job)
	}
}
