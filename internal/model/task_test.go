package model

import (
	"errors"
	"testing"
	"time"
)

func validTask() Task {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)
	return Task{
		ID:        "t1",
		Title:     "standup",
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	}
}

func TestTaskValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Task)
		wantErr bool
	}{
		{"valid", func(*Task) {}, false},
		{"missing id", func(tk *Task) { tk.ID = " " }, true},
		{"missing title", func(tk *Task) { tk.Title = "" }, true},
		{"zero start", func(tk *Task) { tk.StartTime = time.Time{} }, true},
		{"end equals start", func(tk *Task) { tk.EndTime = tk.StartTime }, true},
		{"end before start", func(tk *Task) { tk.EndTime = tk.StartTime.Add(-time.Minute) }, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			task := validTask()
			tc.mutate(&task)
			err := task.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestTaskValidateIntervalSentinel(t *testing.T) {
	task := validTask()
	task.EndTime = task.StartTime
	if err := task.Validate(); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestDateKeyOf(t *testing.T) {
	at := time.Date(2025, 3, 10, 23, 59, 0, 0, time.Local)
	if got := DateKeyOf(at); got != "2025-03-10" {
		t.Fatalf("DateKeyOf = %q, want 2025-03-10", got)
	}

	task := validTask()
	if got := task.DateKey(); got != "2025-03-10" {
		t.Fatalf("DateKey = %q, want 2025-03-10", got)
	}
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}

	s.LeadMinutes = 0
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for lead minutes below minimum")
	}

	s.LeadMinutes = MaxLeadMinutes + 1
	if err := s.Validate(); err == nil {
		t.Fatalf("expected error for lead minutes above maximum")
	}

	s.LeadMinutes = MaxLeadMinutes
	if err := s.Validate(); err != nil {
		t.Fatalf("max lead minutes should be valid: %v", err)
	}
}
