package store

import (
	"context"
	"errors"
	"time"

	"github.com/muhammad-salman-webdev/planr/internal/model"
)

var (
	// ErrTaskNotFound is returned when no task with the given id exists
	// in the named bucket.
	ErrTaskNotFound = errors.New("store: task not found")

	// ErrDateKeyChanged is returned by UpdateTask when a patch would
	// move the task's start time onto a different calendar day. Callers
	// must use MoveTask for that, which re-buckets atomically.
	ErrDateKeyChanged = errors.New("store: start time crosses a date boundary, use MoveTask")
)

// TaskDraft is the input to AddTask. Notifications nil means "fill from
// the process-wide default setting at creation time".
type TaskDraft struct {
	ID              string
	Title           string
	Description     string
	StartTime       time.Time
	EndTime         time.Time
	Color           string
	Notifications   *bool
	Provider        model.ProviderType
	ProviderEventID string
}

// TaskPatch carries a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title         *string
	Description   *string
	StartTime     *time.Time
	EndTime       *time.Time
	Color         *string
	Notifications *bool
}

// Store is the persistence contract for the task ledger and the
// user-mutable settings. A task is filed under exactly one date key at
// any moment, derived from its current start time; the store enforces
// that invariant rather than trusting callers to remember it.
//
// Overlap policy is deliberately not implemented here. The store is a
// dumb, consistent ledger; save-time overlap validation belongs to the
// caller (see timegrid.Conflicts).
type Store interface {
	// AddTask inserts the draft into the bucket derived from its start
	// time and returns the stored task with its generated id.
	AddTask(ctx context.Context, draft TaskDraft) (model.Task, error)

	// UpdateTask merges patch into the task found under dateKey.
	// It returns ErrDateKeyChanged if the patched start time derives a
	// different date key.
	UpdateTask(ctx context.Context, id, dateKey string, patch TaskPatch) (model.Task, error)

	// MoveTask merges patch and relocates the task to the bucket
	// derived from its new start time, atomically. The task is never
	// duplicated across buckets. It also accepts patches that keep the
	// task on the same day.
	MoveTask(ctx context.Context, id, oldKey string, patch TaskPatch) (model.Task, error)

	// DeleteTask removes the task by id from that bucket only.
	DeleteTask(ctx context.Context, id, dateKey string) error

	// GetTasksForDate returns the bucket for dateKey in insertion
	// order, with timestamps hydrated to concrete instants.
	GetTasksForDate(ctx context.Context, dateKey string) ([]model.Task, error)

	// TaskExists reports whether a task with the given id exists in any
	// bucket. Used by the importer for id-based dedupe.
	TaskExists(ctx context.Context, id string) (bool, error)

	// Settings returns the current user settings, falling back to
	// defaults for keys that were never saved.
	Settings(ctx context.Context) (model.Settings, error)

	// SaveSettings validates and persists the full settings record.
	SaveSettings(ctx context.Context, s model.Settings) error

	// SetDefaultNotifications updates only the process-wide default
	// notification flag. Existing tasks are not altered.
	SetDefaultNotifications(ctx context.Context, enabled bool) error
}
