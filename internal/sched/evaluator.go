// Package sched evaluates the task ledger against wall-clock time and
// decides, exactly once per arming window, when a reminder fires. The
// evaluator is stateless between ticks: every tick reloads today's
// bucket and the current settings, so edits and setting changes made
// between ticks always take effect on the next one.
package sched

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/notify"
)

// TaskSource is the slice of the store the evaluator reads. Only
// today's bucket is ever loaded; reminder windows are minute-granular
// and at most two hours, so they fall on the start's own day.
type TaskSource interface {
	GetTasksForDate(ctx context.Context, dateKey string) ([]model.Task, error)
	Settings(ctx context.Context) (model.Settings, error)
}

// Publisher hands a delivery request to the notification channel
// without blocking.
type Publisher interface {
	Publish(req notify.Request) bool
}

// Evaluator runs the per-tick reminder decision. It owns no task state;
// the DeliveryLog is the only memory carried across ticks.
type Evaluator struct {
	source TaskSource
	auth   notify.Authorizer
	out    Publisher
	log    *DeliveryLog

	// now is the clock, injectable for tests.
	now func() time.Time

	// authWarned dampens the unauthorized log line so a revoked
	// permission doesn't spam every tick.
	authWarned bool
}

// NewEvaluator wires an evaluator. clock may be nil for wall time.
func NewEvaluator(
	source TaskSource,
	auth notify.Authorizer,
	out Publisher,
	deliveryLog *DeliveryLog,
	clock func() time.Time,
) *Evaluator {
	if clock == nil {
		clock = time.Now
	}
	if deliveryLog == nil {
		deliveryLog = NewDeliveryLog()
	}
	return &Evaluator{
		source: source,
		auth:   auth,
		out:    out,
		log:    deliveryLog,
		now:    clock,
	}
}

// Tick runs one complete evaluation. It never returns an error and
// never panics past its own frame: an unhandled failure here would
// silently kill all future scheduling, so everything is swallowed at
// this boundary and logged.
func (e *Evaluator) Tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("sched: tick panic recovered: %v", r)
		}
	}()

	if !e.auth.Authorized(ctx) {
		if !e.authWarned {
			log.Printf("sched: notifications not authorized, reminders suspended")
			e.authWarned = true
		}
		return
	}
	e.authWarned = false

	settings, err := e.source.Settings(ctx)
	if err != nil {
		log.Printf("sched: reading settings: %v", err)
		settings = model.DefaultSettings()
	}

	now := e.now()
	todayKey := model.DateKeyOf(now)

	tasks, err := e.source.GetTasksForDate(ctx, todayKey)
	if err != nil {
		log.Printf("sched: loading tasks for %s: %v", todayKey, err)
		return
	}

	lead := time.Duration(settings.LeadMinutes) * time.Minute
	for _, task := range tasks {
		e.evaluate(task, now, todayKey, lead, settings)
	}
}

// evaluate walks a single task through the window state machine:
// PENDING before the reminder time, ARMED inside [reminderTime, start)
// without a marker, DELIVERED with one, EXPIRED once start has passed
// (marker cleared so a future edit can re-arm the task).
func (e *Evaluator) evaluate(
	task model.Task,
	now time.Time,
	todayKey string,
	lead time.Duration,
	settings model.Settings,
) {
	if !task.NotificationsEnabled {
		return
	}

	start := task.StartTime
	reminderAt := start.Add(-lead)

	// A reminder window that crosses midnight would belong to
	// yesterday's evaluation; never fire it from today's.
	if model.DateKeyOf(reminderAt) != todayKey {
		return
	}

	switch {
	case !now.Before(start):
		// EXPIRED: free the marker for a potential re-arm.
		e.log.Clear(task.ID)

	case !now.Before(reminderAt):
		// Inside the arming window. Winning the marker is what
		// authorizes the single delivery.
		if !e.log.MarkIfAbsent(task.ID) {
			return
		}
		req := notify.Request{
			Title: task.Title,
			Message: fmt.Sprintf(
				"Task %q is starting in %d minutes.",
				task.Title, settings.LeadMinutes,
			),
			Key:   "task_reminder_" + task.ID,
			Sound: !settings.MuteSound,
		}
		if !e.out.Publish(req) {
			log.Printf("sched: delivery queue full, reminder for %s dropped", task.ID)
		}
	}
}

// Run drives Tick on a fixed cadence until the context is canceled. An
// immediate first tick keeps a reminder due at startup from waiting a
// full interval.
func (e *Evaluator) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	e.Tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick(ctx)
		}
	}
}
