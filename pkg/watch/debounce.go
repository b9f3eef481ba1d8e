package watch

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oneconcern/nr/pkg/jobs"
)

// Debouncer batches paths until no new path was added for some delay
type Debouncer struct {
	delay time.Duration
	fire  func([]string)

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// NewDebouncer calls fire with the sorted batch of paths once quiet for delay
func NewDebouncer(delay time.Duration, fire func([]string)) *Debouncer {
	return &Debouncer{
		delay:   delay,
		fire:    fire,
		pending: make(map[string]struct{}),
	}
}

// Add a path to the current batch and restart the delay
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.Flush)
}

// Handle is a jobs.Handler adding the path of Change events
func (d *Debouncer) Handle(_ context.Context, ev jobs.Event) error {
	switch data := ev.Data.(type) {
	case Change:
		d.Add(data.Path)
	case string:
		d.Add(data)
	}
	return nil
}

// Flush fires the current batch now, if any
func (d *Debouncer) Flush() {
	batch := d.take()
	if len(batch) > 0 {
		d.fire(batch)
	}
}

// Stop drops the current batch
func (d *Debouncer) Stop() {
	_ = d.take()
}

func (d *Debouncer) take() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if len(d.pending) == 0 {
		return nil
	}
	batch := make([]string, 0, len(d.pending))
	for p := range d.pending {
		batch = append(batch, p)
	}
	sort.Strings(batch)
	d.pending = make(map[string]struct{})
	return batch
}
