package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/source"
	"github.com/muhammad-salman-webdev/planr/tests/testutil"
)

// fakeSource serves a fixed event list, or an error.
type fakeSource struct {
	events []source.Event
	err    error

	gotFrom time.Time
	gotTo   time.Time
}

func (f *fakeSource) Type() model.ProviderType { return model.ProviderGoogle }

func (f *fakeSource) ValidateConnection(context.Context) (string, error) {
	return "fake", nil
}

func (f *fakeSource) FetchEvents(
	_ context.Context, from, to time.Time,
) ([]source.Event, error) {
	f.gotFrom, f.gotTo = from, to
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func event(id, title string, start time.Time) source.Event {
	return source.Event{
		ProviderID: id,
		Title:      title,
		Start:      start,
		End:        start.Add(time.Hour),
	}
}

func TestImportMonthWindow(t *testing.T) {
	s := testutil.NewTestStore(t)
	src := &fakeSource{}

	now := time.Date(2026, 3, 17, 15, 30, 0, 0, time.UTC)
	if _, err := New(s).ImportMonth(context.Background(), src, now); err != nil {
		t.Fatalf("ImportMonth: %v", err)
	}

	wantFrom := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	wantTo := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	if !src.gotFrom.Equal(wantFrom) || !src.gotTo.Equal(wantTo) {
		t.Errorf("window = [%v, %v), want [%v, %v)",
			src.gotFrom, src.gotTo, wantFrom, wantTo)
	}
}

func TestImportMonthInsertsAndDedupes(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{events: []source.Event{
		event("ev-1", "Standup", start),
		event("ev-2", "Review", start.Add(2*time.Hour)),
	}}

	imp := New(s)
	res, err := imp.ImportMonth(ctx, src, start)
	if err != nil {
		t.Fatalf("first import: %v", err)
	}
	if res.Imported != 2 || res.Skipped != 0 {
		t.Fatalf("first import = %+v, want 2 imported", res)
	}

	// Second run must not duplicate anything.
	res, err = imp.ImportMonth(ctx, src, start)
	if err != nil {
		t.Fatalf("second import: %v", err)
	}
	if res.Imported != 0 || res.Skipped != 2 {
		t.Errorf("second import = %+v, want 2 skipped", res)
	}

	tasks, err := s.GetTasksForDate(ctx, "2026-03-10")
	if err != nil {
		t.Fatalf("GetTasksForDate: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("stored %d tasks, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.Provider != model.ProviderGoogle {
			t.Errorf("task %q provider = %q", task.Title, task.Provider)
		}
	}
}

func TestImportMonthFetchErrorAborts(t *testing.T) {
	s := testutil.NewTestStore(t)
	src := &fakeSource{err: errors.New("network down")}

	_, err := New(s).ImportMonth(context.Background(), src, time.Now())
	if err == nil {
		t.Fatal("expected fetch error to propagate")
	}
}

func TestImportMonthPartialSuccess(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	bad := event("ev-bad", "", start) // empty title fails validation
	src := &fakeSource{events: []source.Event{
		event("ev-ok", "Kickoff", start),
		bad,
		event("ev-ok-2", "Retro", start.Add(3*time.Hour)),
	}}

	res, err := New(s).ImportMonth(ctx, src, start)
	if err != nil {
		t.Fatalf("ImportMonth: %v", err)
	}
	if res.Imported != 2 {
		t.Errorf("imported = %d, want 2", res.Imported)
	}

	tasks, err := s.GetTasksForDate(ctx, "2026-03-10")
	if err != nil {
		t.Fatalf("GetTasksForDate: %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("stored %d tasks, want 2", len(tasks))
	}
}

func TestImportedTasksInheritDefaultNotifications(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	if err := s.SetDefaultNotifications(ctx, false); err != nil {
		t.Fatalf("SetDefaultNotifications: %v", err)
	}

	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{events: []source.Event{event("ev-1", "Quiet", start)}}

	if _, err := New(s).ImportMonth(ctx, src, start); err != nil {
		t.Fatalf("ImportMonth: %v", err)
	}

	tasks, err := s.GetTasksForDate(ctx, "2026-03-10")
	if err != nil {
		t.Fatalf("GetTasksForDate: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("stored %d tasks, want 1", len(tasks))
	}
	if tasks[0].NotificationsEnabled {
		t.Error("imported task should inherit disabled default")
	}
}

func TestTaskIDStableForSameEvent(t *testing.T) {
	src := &fakeSource{}
	ev := event("ev-1", "Standup", time.Now())

	a := taskID(src, ev)
	b := taskID(src, ev)
	if a != b {
		t.Errorf("id not stable: %s vs %s", a, b)
	}

	other := taskID(src, event("ev-2", "Standup", time.Now()))
	if a == other {
		t.Error("distinct provider ids must yield distinct task ids")
	}

	anon := taskID(src, source.Event{Title: "No ID"})
	anon2 := taskID(src, source.Event{Title: "No ID"})
	if anon == anon2 {
		t.Error("events without provider ids should get fresh ids")
	}
}
