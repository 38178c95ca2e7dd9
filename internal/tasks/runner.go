package tasks

import (
	"context"
	"sync"

	"github.com/pantrydesk/pantrydesk/internal/logger"
	"go.uber.org/zap"
)

// Result is what a background job hands back to the interactive loop.
// SessionID identifies the search session the job belonged to; Kind and Slot
// tell the consumer which effect to apply; Value carries the payload.
type Result struct {
	SessionID string
	Kind      string
	Slot      int
	Value     interface{}
}

// Job is a unit of network-bound work executed on a worker. It returns the
// payload to deliver; the runner wraps it into a Result.
type Job struct {
	SessionID string
	Kind      string
	Slot      int
	Run       func(ctx context.Context) interface{}
}

// Runner owns a small pool of background workers for network-bound work.
// Workers never touch caller state: every completion is delivered through
// the single Results channel, which the interactive loop drains. Results
// from a superseded session are dropped before delivery.
type Runner struct {
	jobs    chan Job
	results chan Result

	mu      sync.RWMutex
	current string

	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
}

// NewRunner starts a Runner with the given worker count and queue bound.
func NewRunner(workers, queueSize int) *Runner {
	if workers <= 0 {
		workers = 3
	}
	if queueSize <= 0 {
		queueSize = 32
	}

	ctx, cancel := context.WithCancel(context.Background())
	r := &Runner{
		jobs:    make(chan Job, queueSize),
		results: make(chan Result, queueSize),
		cancel:  cancel,
	}

	r.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go r.worker(ctx)
	}

	return r
}

// Results is the single delivery point for background completions. Only the
// interactive loop should receive from it.
func (r *Runner) Results() <-chan Result {
	return r.results
}

// BeginSession marks sessionID as the current session. Completions belonging
// to any other session are dropped silently from then on.
func (r *Runner) BeginSession(sessionID string) {
	r.mu.Lock()
	r.current = sessionID
	r.mu.Unlock()
}

// Submit enqueues a job. It returns false when the queue is full or the job
// belongs to a stale session; the caller treats that as a dropped completion.
func (r *Runner) Submit(job Job) bool {
	if !r.sessionLive(job.SessionID) {
		return false
	}
	select {
	case r.jobs <- job:
		return true
	default:
		logger.Get().Warn("task queue full, dropping job",
			zap.String("kind", job.Kind),
			zap.Int("slot", job.Slot),
		)
		return false
	}
}

// Close stops the workers and closes the Results channel once all in-flight
// jobs have finished. Cancellation happens before the wait: a worker blocked
// handing off a completion nobody is draining must be released or the wait
// never returns.
func (r *Runner) Close() {
	r.once.Do(func() {
		close(r.jobs)
		r.cancel()
		r.wg.Wait()
		close(r.results)
	})
}

func (r *Runner) worker(ctx context.Context) {
	defer r.wg.Done()

	for job := range r.jobs {
		// A search that started after this job was queued supersedes it.
		if !r.sessionLive(job.SessionID) {
			continue
		}

		value := job.Run(ctx)

		// Re-check: the session may have ended while the job ran.
		if !r.sessionLive(job.SessionID) {
			continue
		}

		result := Result{
			SessionID: job.SessionID,
			Kind:      job.Kind,
			Slot:      job.Slot,
			Value:     value,
		}

		// Buffered delivery wins over cancellation; blocking on a full
		// channel is the only state shutdown must break out of.
		select {
		case r.results <- result:
		default:
			select {
			case r.results <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (r *Runner) sessionLive(sessionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current == "" || r.current == sessionID
}
