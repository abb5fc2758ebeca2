package dayview

import (
	"context"
	"testing"
	"time"

	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/store"
	"github.com/muhammad-salman-webdev/planr/internal/timegrid"
	"github.com/muhammad-salman-webdev/planr/tests/testutil"
)

func TestCommitMoveSameDay(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	task, err := s.AddTask(ctx, store.TaskDraft{
		Title:     "standup",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}

	m := Model{
		store:  s,
		window: timegrid.Window{StartHour: 0, EndHour: 24},
		step:   time.Minute,
		tasks:  []model.Task{task},
	}

	dropAt := time.Date(2025, 3, 10, 11, 15, 0, 0, time.Local)
	msg := m.commitMove(task, dropAt)()
	changed, ok := msg.(taskChangedMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if changed.err != nil {
		t.Fatalf("commit move: %v", changed.err)
	}

	tasks, err := s.GetTasksForDate(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("get tasks: %v", err)
	}
	if len(tasks) != 1 || !tasks[0].StartTime.Equal(dropAt) {
		t.Fatalf("bucket contents = %+v", tasks)
	}
}

func TestCommitMoveAcrossMidnightRebuckets(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 10, 23, 0, 0, 0, time.Local)
	task, err := s.AddTask(ctx, store.TaskDraft{
		Title:     "late call",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}

	m := Model{
		store:  s,
		window: timegrid.Window{StartHour: 0, EndHour: 24},
		step:   time.Minute,
		tasks:  []model.Task{task},
	}

	dropAt := time.Date(2025, 3, 11, 0, 30, 0, 0, time.Local)
	msg := m.commitMove(task, dropAt)()
	changed, ok := msg.(taskChangedMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if changed.err != nil {
		t.Fatalf("commit move across midnight: %v", changed.err)
	}

	old, err := s.GetTasksForDate(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("get old bucket: %v", err)
	}
	if len(old) != 0 {
		t.Fatalf("old bucket still holds %+v", old)
	}

	moved, err := s.GetTasksForDate(ctx, "2025-03-11")
	if err != nil {
		t.Fatalf("get new bucket: %v", err)
	}
	if len(moved) != 1 {
		t.Fatalf("new bucket contents = %+v", moved)
	}
	got := moved[0]
	if got.ID != task.ID || !got.StartTime.Equal(dropAt) {
		t.Fatalf("moved task = %+v", got)
	}
	if got.Duration() != 30*time.Minute {
		t.Fatalf("duration changed: %v", got.Duration())
	}
}
