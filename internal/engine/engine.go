// Package engine drives reminder delivery: a periodic scan over undelivered
// reminders, a due-ness evaluator over the three reminder policies, and a
// dispatcher that fans a due reminder out to the notification channels.
package engine

import (
	"context"
	"log"
	"sync"
	"time"
)

// Engine owns the recurring reminder scan. Construct one with New and manage
// it with Start/Stop; there is no package-level instance, so tests can run
// isolated engines side by side.
type Engine struct {
	store      ReminderStore
	dispatcher *Dispatcher
	interval   time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(st ReminderStore, dispatcher *Dispatcher, interval time.Duration) *Engine {
	return &Engine{
		store:      st,
		dispatcher: dispatcher,
		interval:   interval,
	}
}

// Start launches the recurring scan: once immediately, then on the fixed
// interval. Calling Start on a running engine is a no-op with a warning, not
// a second scan loop.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		log.Println("[engine] reminder engine already running")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.done = make(chan struct{})
	e.running = true

	go e.run(ctx, e.done)

	log.Printf("[engine] reminder engine started, interval %s", e.interval)
}

// Stop cancels future scans and waits for an in-flight scan to finish.
// Calling Stop on a stopped engine is a no-op with a warning.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		log.Println("[engine] reminder engine not running")
		return
	}

	e.cancel()
	<-e.done
	e.running = false

	log.Println("[engine] reminder engine stopped")
}

// IsRunning reports whether the scan loop is active.
func (e *Engine) IsRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

func (e *Engine) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	e.tick()

	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.tick()
		}
	}
}

// tick is one unit of work: scan undelivered reminders, filter to the due
// subset, dispatch each in query order. Reminders are processed sequentially;
// a slow send stretches the effective period instead of overlapping scans.
func (e *Engine) tick() {
	reminders, err := e.store.FindUndelivered()
	if err != nil {
		log.Printf("[engine] error checking reminders: %v", err)
		return
	}

	now := time.Now()
	for _, r := range reminders {
		if IsDue(now, r) {
			e.dispatcher.Dispatch(r)
		}
	}
}

// DispatchNow sends the oldest undelivered reminder for the given task and
// owner synchronously, bypassing the due-ness check. Used for
// operator-triggered immediate sends. Returns false when no undelivered
// reminder exists.
func (e *Engine) DispatchNow(userID, taskID int64) bool {
	r, err := e.store.OldestUndelivered(taskID, userID)
	if err != nil {
		log.Printf("[engine] failed to look up reminder for task %d: %v", taskID, err)
		return false
	}
	if r == nil {
		log.Printf("[engine] no unsent reminder found for task %d", taskID)
		return false
	}

	e.dispatcher.Dispatch(*r)
	return true
}

// Resend flips a reminder back to undelivered and dispatches it again
// immediately.
func (e *Engine) Resend(reminderID int64) bool {
	if err := e.store.ResetDelivered(reminderID); err != nil {
		log.Printf("[engine] failed to reset reminder %d: %v", reminderID, err)
		return false
	}

	r, err := e.store.UndeliveredByID(reminderID)
	if err != nil {
		log.Printf("[engine] failed to look up reminder %d: %v", reminderID, err)
		return false
	}
	if r == nil {
		// Task archived or deleted since the reminder was created.
		log.Printf("[engine] reminder %d has no active task, not resending", reminderID)
		return false
	}

	e.dispatcher.Dispatch(*r)
	return true
}
