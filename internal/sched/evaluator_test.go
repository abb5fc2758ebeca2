package sched

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/notify"
)

type fakeSource struct {
	mu       sync.Mutex
	tasks    map[string][]model.Task
	settings model.Settings
	tasksErr error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		tasks: make(map[string][]model.Task),
		settings: model.Settings{
			DefaultNotifications: true,
			LeadMinutes:          5,
		},
	}
}

func (f *fakeSource) GetTasksForDate(_ context.Context, dateKey string) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tasksErr != nil {
		return nil, f.tasksErr
	}
	return append([]model.Task(nil), f.tasks[dateKey]...), nil
}

func (f *fakeSource) Settings(context.Context) (model.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings, nil
}

func (f *fakeSource) put(task model.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := task.DateKey()
	bucket := f.tasks[key]
	for i, existing := range bucket {
		if existing.ID == task.ID {
			bucket[i] = task
			f.tasks[key] = bucket
			return
		}
	}
	f.tasks[key] = append(bucket, task)
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []notify.Request
	full bool
}

func (f *fakePublisher) Publish(req notify.Request) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.full {
		return false
	}
	f.sent = append(f.sent, req)
	return true
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakePublisher) last() notify.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sent[len(f.sent)-1]
}

type fakeAuth struct{ granted bool }

func (f *fakeAuth) Authorized(context.Context) bool { return f.granted }

// harness bundles an evaluator with a controllable clock.
type harness struct {
	source *fakeSource
	pub    *fakePublisher
	auth   *fakeAuth
	log    *DeliveryLog
	eval   *Evaluator
	clock  time.Time
	mu     sync.Mutex
}

func newHarness() *harness {
	h := &harness{
		source: newFakeSource(),
		pub:    &fakePublisher{},
		auth:   &fakeAuth{granted: true},
		log:    NewDeliveryLog(),
	}
	h.eval = NewEvaluator(h.source, h.auth, h.pub, h.log, func() time.Time {
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.clock
	})
	return h
}

func (h *harness) tickAt(t time.Time) {
	h.mu.Lock()
	h.clock = t
	h.mu.Unlock()
	h.eval.Tick(context.Background())
}

func taskStarting(id string, start time.Time) model.Task {
	return model.Task{
		ID:                   id,
		Title:                "review",
		StartTime:            start,
		EndTime:              start.Add(time.Hour),
		NotificationsEnabled: true,
	}
}

func TestReminderFiresExactlyOncePerWindow(t *testing.T) {
	h := newHarness()
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	h.source.put(taskStarting("t1", start))

	// 13:54 — one minute before the window opens: nothing.
	h.tickAt(start.Add(-6 * time.Minute))
	if h.pub.count() != 0 {
		t.Fatalf("delivery before window: %d", h.pub.count())
	}

	// 13:55 — window opens: exactly one delivery.
	h.tickAt(start.Add(-5 * time.Minute))
	if h.pub.count() != 1 {
		t.Fatalf("deliveries at window open = %d, want 1", h.pub.count())
	}

	// 13:58 — still inside the window: no second delivery.
	h.tickAt(start.Add(-2 * time.Minute))
	if h.pub.count() != 1 {
		t.Fatalf("duplicate delivery inside window: %d", h.pub.count())
	}

	// 14:01 — past the start: marker cleared.
	h.tickAt(start.Add(time.Minute))
	if h.log.Delivered("t1") {
		t.Fatalf("delivery record not cleared after start passed")
	}
	if h.pub.count() != 1 {
		t.Fatalf("extra delivery after expiry: %d", h.pub.count())
	}
}

func TestReminderMessageFormat(t *testing.T) {
	h := newHarness()
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	h.source.put(taskStarting("t1", start))

	h.tickAt(start.Add(-5 * time.Minute))
	req := h.pub.last()
	if req.Title != "review" {
		t.Fatalf("title = %q", req.Title)
	}
	if req.Message != `Task "review" is starting in 5 minutes.` {
		t.Fatalf("message = %q", req.Message)
	}
	if req.Key != "task_reminder_t1" {
		t.Fatalf("key = %q", req.Key)
	}
}

func TestEditedTaskReArmsAfterExpiry(t *testing.T) {
	h := newHarness()
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.Local)
	task := taskStarting("t1", start)
	h.source.put(task)

	h.tickAt(start.Add(-3 * time.Minute))
	if h.pub.count() != 1 {
		t.Fatalf("first delivery: %d", h.pub.count())
	}

	// Start passes, marker clears.
	h.tickAt(start.Add(time.Minute))

	// User pushes the task two hours out; a fresh window must fire again.
	task.StartTime = start.Add(2 * time.Hour)
	task.EndTime = task.StartTime.Add(time.Hour)
	h.source.put(task)

	h.tickAt(task.StartTime.Add(-4 * time.Minute))
	if h.pub.count() != 2 {
		t.Fatalf("re-armed delivery: %d, want 2", h.pub.count())
	}
}

func TestDisabledNotificationsAreSkipped(t *testing.T) {
	h := newHarness()
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	task := taskStarting("t1", start)
	task.NotificationsEnabled = false
	h.source.put(task)

	h.tickAt(start.Add(-5 * time.Minute))
	if h.pub.count() != 0 {
		t.Fatalf("disabled task delivered: %d", h.pub.count())
	}
}

func TestMidnightCrossingWindowIsSkipped(t *testing.T) {
	h := newHarness()
	h.source.mu.Lock()
	h.source.settings.LeadMinutes = 30
	h.source.mu.Unlock()

	// Task at 00:10; the reminder time 23:40 belongs to the previous
	// day, so today's evaluation must not fire it.
	start := time.Date(2025, 3, 10, 0, 10, 0, 0, time.Local)
	h.source.put(taskStarting("t1", start))

	h.tickAt(time.Date(2025, 3, 10, 0, 5, 0, 0, time.Local))
	if h.pub.count() != 0 {
		t.Fatalf("midnight-crossing window fired: %d", h.pub.count())
	}
}

func TestUnauthorizedTicksDegradeToNoop(t *testing.T) {
	h := newHarness()
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	h.source.put(taskStarting("t1", start))
	h.auth.granted = false

	h.tickAt(start.Add(-5 * time.Minute))
	h.tickAt(start.Add(-4 * time.Minute))
	if h.pub.count() != 0 {
		t.Fatalf("unauthorized tick delivered: %d", h.pub.count())
	}

	// Re-granting resumes delivery on the next eligible tick. The
	// missed portion of the window is simply retried while it is open.
	h.auth.granted = true
	h.tickAt(start.Add(-3 * time.Minute))
	if h.pub.count() != 1 {
		t.Fatalf("delivery after re-grant: %d, want 1", h.pub.count())
	}
}

func TestStorageFailureNeverStopsTheLoop(t *testing.T) {
	h := newHarness()
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	h.source.put(taskStarting("t1", start))

	h.source.mu.Lock()
	h.source.tasksErr = errors.New("disk unhappy")
	h.source.mu.Unlock()

	// Must not panic, must not deliver.
	h.tickAt(start.Add(-5 * time.Minute))
	if h.pub.count() != 0 {
		t.Fatalf("delivery without data: %d", h.pub.count())
	}

	h.source.mu.Lock()
	h.source.tasksErr = nil
	h.source.mu.Unlock()

	h.tickAt(start.Add(-4 * time.Minute))
	if h.pub.count() != 1 {
		t.Fatalf("recovery tick deliveries = %d, want 1", h.pub.count())
	}
}

func TestSettingsAreReadEveryTick(t *testing.T) {
	h := newHarness()
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	h.source.put(taskStarting("t1", start))

	// Lead of 5: at -20 minutes nothing fires.
	h.tickAt(start.Add(-20 * time.Minute))
	if h.pub.count() != 0 {
		t.Fatalf("premature delivery: %d", h.pub.count())
	}

	// User widens the lead to 30 between ticks; the very next tick
	// sees the window open.
	h.source.mu.Lock()
	h.source.settings.LeadMinutes = 30
	h.source.mu.Unlock()

	h.tickAt(start.Add(-19 * time.Minute))
	if h.pub.count() != 1 {
		t.Fatalf("widened lead not honored: %d", h.pub.count())
	}
}

func TestMuteSettingControlsSoundFlag(t *testing.T) {
	h := newHarness()
	h.source.mu.Lock()
	h.source.settings.MuteSound = true
	h.source.mu.Unlock()

	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	h.source.put(taskStarting("t1", start))

	h.tickAt(start.Add(-5 * time.Minute))
	if req := h.pub.last(); req.Sound {
		t.Fatalf("muted reminder requested sound")
	}
}

func TestFullQueueKeepsAtMostOnceSemantics(t *testing.T) {
	h := newHarness()
	h.pub.full = true
	start := time.Date(2025, 3, 10, 14, 0, 0, 0, time.Local)
	h.source.put(taskStarting("t1", start))

	// The marker is written before publishing; a dropped request is a
	// lost reminder, never a duplicated one.
	h.tickAt(start.Add(-5 * time.Minute))
	h.pub.full = false
	h.tickAt(start.Add(-4 * time.Minute))
	if h.pub.count() != 0 {
		t.Fatalf("dropped reminder was re-sent: %d", h.pub.count())
	}
}

func TestDeliveryLogMarkIfAbsentIsExclusive(t *testing.T) {
	l := NewDeliveryLog()
	if !l.MarkIfAbsent("t1") {
		t.Fatalf("first mark should win")
	}
	if l.MarkIfAbsent("t1") {
		t.Fatalf("second mark should lose")
	}
	l.Clear("t1")
	if !l.MarkIfAbsent("t1") {
		t.Fatalf("mark after clear should win")
	}
}
