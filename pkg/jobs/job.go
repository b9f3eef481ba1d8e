package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/oneconcern/nr/pkg/errors"
	"go.uber.org/atomic"
)

type errString string

func (e errString) Error() string { return string(e) }

const (
	// ErrCancelled is the error of a job cancelled before completion
	ErrCancelled errString = "job cancelled"
	// ErrNotPending is returned when starting a job which already started
	ErrNotPending errString = "job is not pending"
	// ErrSchedulerClosed is returned when submitting to a scheduler being shut down
	ErrSchedulerClosed errString = "scheduler is closed"
	// ErrQueueClosed is returned when posting to a closed event queue
	ErrQueueClosed errString = "event queue is closed"
)

// State of a job
type State int32

// Job states
const (
	Pending State = iota
	Running
	Succeeded
	Failed
	Cancelled
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Finished tells if the state is final
func (s State) Finished() bool {
	return s >= Succeeded
}

// Func is the work carried out by a job
type Func func(context.Context) (interface{}, error)

// Job is a unit of work with a result
type Job struct {
	name  string
	fn    Func
	state *atomic.Int32
	done  chan struct{}

	mu        sync.Mutex
	cancel    context.CancelFunc
	cancelled bool
	result    interface{}
	err       error
	callbacks []func(*Job)
}

// New job, in the pending state
func New(name string, fn Func) *Job {
	return &Job{
		name:  name,
		fn:    fn,
		state: atomic.NewInt32(int32(Pending)),
		done:  make(chan struct{}),
	}
}

// Name of the job
func (j *Job) Name() string {
	return j.name
}

func (j *Job) String() string {
	return j.name + " (" + j.State().String() + ")"
}

// State of the job
func (j *Job) State() State {
	return State(j.state.Load())
}

// Done is closed when the job reaches a final state
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Run the job in the calling goroutine.
//
// A panic in the job function fails the job.
func (j *Job) Run(ctx context.Context) error {
	if !j.state.CompareAndSwap(int32(Pending), int32(Running)) {
		return errors.New(j.name).Wrap(ErrNotPending)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	j.mu.Lock()
	j.cancel = cancel
	if j.cancelled {
		cancel()
	}
	j.mu.Unlock()

	result, err := j.call(ctx)

	final := Succeeded
	j.mu.Lock()
	switch {
	case err == nil:
	case j.cancelled || (errors.Is(err, context.Canceled) && ctx.Err() != nil):
		final = Cancelled
	default:
		final = Failed
	}
	j.mu.Unlock()
	j.finish(final, result, err)
	return err
}

func (j *Job) call(ctx context.Context) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("job %s panicked: %v", j.name, r)
		}
	}()
	return j.fn(ctx)
}

// Cancel a job. A pending job is cancelled immediately, a running job sees
// its context cancelled. It returns false when the job had already finished.
func (j *Job) Cancel() bool {
	if j.state.CompareAndSwap(int32(Pending), int32(Cancelled)) {
		j.finish(Cancelled, nil, errors.New(j.name).Wrap(ErrCancelled))
		return true
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.finished() {
		return false
	}
	j.cancelled = true
	if j.cancel != nil {
		j.cancel()
	}
	return true
}

func (j *Job) finish(state State, result interface{}, err error) {
	j.mu.Lock()
	j.result, j.err = result, err
	j.state.Store(int32(state))
	callbacks := j.callbacks
	j.callbacks = nil
	close(j.done)
	j.mu.Unlock()

	for _, cb := range callbacks {
		cb(j)
	}
}

// finished must be called with the lock held
func (j *Job) finished() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

// Wait for the job to finish, or for ctx to be done.
// It returns the error of the job.
func (j *Job) Wait(ctx context.Context) error {
	select {
	case <-j.done:
		return j.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Result of a finished job. A job which is not finished returns nil values.
func (j *Job) Result() (interface{}, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result, j.err
}

// Err is the error of a finished job
func (j *Job) Err() error {
	_, err := j.Result()
	return err
}

// OnDone registers a callback to run when the job finishes.
// The callback runs immediately if the job already finished.
func (j *Job) OnDone(cb func(*Job)) {
	j.mu.Lock()
	if !j.finished() {
		j.callbacks = append(j.callbacks, cb)
		j.mu.Unlock()
		return
	}
	j.mu.Unlock()
	cb(j)
}
