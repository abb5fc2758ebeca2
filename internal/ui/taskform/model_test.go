package taskform

import (
	"testing"
	"time"
)

func TestEditSubmissionKeepsOriginalDateKey(t *testing.T) {
	m := New(80, 24)

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	m.StartEdit(Submission{
		EditID:  "task-1",
		DateKey: "2025-03-10",
		Title:   "standup",
		Start:   start,
		End:     start.Add(30 * time.Minute),
	})

	msg := m.handleSubmit()()
	sub, ok := msg.(SubmitMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if sub.Submission.EditID != "task-1" {
		t.Fatalf("edit id = %q", sub.Submission.EditID)
	}
	if sub.Submission.DateKey != "2025-03-10" {
		t.Fatalf("date key = %q, want the bucket the edit was opened from", sub.Submission.DateKey)
	}
}

func TestCreateSubmissionHasNoDateKey(t *testing.T) {
	m := New(80, 24)

	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	m.StartCreate(day, true)
	m.fb.title = "new task"
	m.fb.start = "09:00"
	m.fb.end = "09:30"

	msg := m.handleSubmit()()
	sub, ok := msg.(SubmitMsg)
	if !ok {
		t.Fatalf("unexpected message %T", msg)
	}
	if sub.Submission.EditID != "" || sub.Submission.DateKey != "" {
		t.Fatalf("new-task submission carries edit state: %+v", sub.Submission)
	}
}
