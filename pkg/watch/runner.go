package watch

import (
	"context"
	"io"
	"os/exec"
	"strconv"
	"sync"

	"github.com/oneconcern/nr/pkg/errors"
	"github.com/oneconcern/nr/pkg/jobs"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Runner executes a job function on each trigger. The scheduler is expected to
// run one job at a time.
type Runner struct {
	sched   *jobs.Scheduler
	fn      jobs.Func
	restart bool
	logger  *zap.Logger
	runs    *atomic.Int64

	mu   sync.Mutex
	last *jobs.Job
}

// NewRunner runs fn on the scheduler. With restart, a trigger cancels the running job.
func NewRunner(sched *jobs.Scheduler, fn jobs.Func, restart bool, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		sched:   sched,
		fn:      fn,
		restart: restart,
		logger:  logger,
		runs:    atomic.NewInt64(0),
	}
}

// Trigger schedules a run. A run still waiting for its turn absorbs the trigger.
func (r *Runner) Trigger(changed []string) (*jobs.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.last != nil {
		switch state := r.last.State(); {
		case state == jobs.Pending:
			r.logger.Debug("run already queued", zap.Strings("changed", changed))
			return r.last, nil
		case r.restart && !state.Finished():
			r.logger.Info("restarting", zap.String("job", r.last.Name()))
			r.last.Cancel()
		}
	}

	n := r.runs.Inc()
	job := jobs.New("run-"+strconv.FormatInt(n, 10), r.fn)
	job.OnDone(func(j *jobs.Job) {
		if err := j.Err(); err != nil && j.State() != jobs.Cancelled {
			r.logger.Warn("run failed", zap.String("job", j.Name()), zap.Error(err))
		}
	})
	if err := r.sched.Submit(job); err != nil {
		return nil, err
	}
	r.logger.Debug("run scheduled", zap.String("job", job.Name()), zap.Strings("changed", changed))
	r.last = job
	return job, nil
}

// Runs counts the triggered runs
func (r *Runner) Runs() int64 {
	return r.runs.Load()
}

// Command returns a job function executing a program.
//
// The exit status of a failed command is reported as an error.
func Command(stdout, stderr io.Writer, name string, args ...string) jobs.Func {
	return func(ctx context.Context) (interface{}, error) {
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Stdout = stdout
		cmd.Stderr = stderr
		if err := cmd.Run(); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, errors.New(name).Wrap(err)
		}
		return cmd.ProcessState.ExitCode(), nil
	}
}
