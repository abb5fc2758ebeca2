package store

import (
	"context"
	"testing"
	"time"
)

func newMemoryStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing store: %v", err)
		}
	})
	return s
}

func TestGetTasksForDateSurvivesCorruptStartTime(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	task, err := s.AddTask(ctx, TaskDraft{
		Title:     "mangled",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET start_time = 'not-a-timestamp' WHERE id = ?",
		task.ID,
	); err != nil {
		t.Fatalf("corrupting row: %v", err)
	}

	before := time.Now()
	tasks, err := s.GetTasksForDate(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("get tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected the corrupt row to still be listed, got %+v", tasks)
	}

	got := tasks[0]
	if got.ID != task.ID {
		t.Fatalf("wrong task returned: %+v", got)
	}
	if got.StartTime.Before(before) {
		t.Fatalf("fallback start not anchored at read time: %v", got.StartTime)
	}
	if got.Duration() != time.Hour {
		t.Fatalf("fallback interval = %v, want one hour", got.Duration())
	}
}

func TestGetTasksForDateSurvivesInvertedInterval(t *testing.T) {
	s := newMemoryStore(t)
	ctx := context.Background()

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	task, err := s.AddTask(ctx, TaskDraft{
		Title:     "inverted",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("add task: %v", err)
	}

	if _, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET end_time = ? WHERE id = ?",
		start.Add(-time.Hour).Format(time.RFC3339), task.ID,
	); err != nil {
		t.Fatalf("corrupting row: %v", err)
	}

	tasks, err := s.GetTasksForDate(ctx, "2025-03-10")
	if err != nil {
		t.Fatalf("get tasks: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected the corrupt row to still be listed, got %+v", tasks)
	}
	if got := tasks[0]; !got.EndTime.After(got.StartTime) {
		t.Fatalf("fallback did not restore ordering: %v .. %v", got.StartTime, got.EndTime)
	}
}
