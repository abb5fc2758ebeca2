package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/muhammad-salman-webdev/planr/internal/model"
)

// AddTask inserts a new task into the bucket derived from its start
// time. Generates a UUID if the draft carries no id. When the draft
// leaves Notifications nil, the current default notification setting is
// baked into the task; later changes to the default never touch it.
func (s *SQLiteStore) AddTask(ctx context.Context, draft TaskDraft) (model.Task, error) {
	task := model.Task{
		ID:              draft.ID,
		Title:           strings.TrimSpace(draft.Title),
		Description:     draft.Description,
		StartTime:       draft.StartTime,
		EndTime:         draft.EndTime,
		Color:           draft.Color,
		Provider:        draft.Provider,
		ProviderEventID: draft.ProviderEventID,
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	if draft.Notifications != nil {
		task.NotificationsEnabled = *draft.Notifications
	} else {
		settings, err := s.Settings(ctx)
		if err != nil {
			return model.Task{}, fmt.Errorf("resolving default notification setting: %w", err)
		}
		task.NotificationsEnabled = settings.DefaultNotifications
	}

	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}

	dateKey := task.DateKey()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Task{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	position, err := nextPosition(ctx, tx, dateKey)
	if err != nil {
		return model.Task{}, err
	}

	if err := insertTask(ctx, tx, task, dateKey, position); err != nil {
		return model.Task{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Task{}, fmt.Errorf("committing task %s: %w", task.ID, err)
	}
	return task, nil
}

// UpdateTask merges patch into the task found under dateKey. A patch
// whose start time would change the task's date key is rejected with
// ErrDateKeyChanged; re-bucketing is MoveTask's job.
func (s *SQLiteStore) UpdateTask(
	ctx context.Context,
	id, dateKey string,
	patch TaskPatch,
) (model.Task, error) {
	task, err := s.getTask(ctx, id, dateKey)
	if err != nil {
		return model.Task{}, err
	}

	applyPatch(&task, patch)
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}
	if task.DateKey() != dateKey {
		return model.Task{}, fmt.Errorf("%w: %s -> %s", ErrDateKeyChanged, dateKey, task.DateKey())
	}

	if err := s.updateTaskRow(ctx, task, dateKey); err != nil {
		return model.Task{}, err
	}
	return task, nil
}

// MoveTask merges patch and relocates the task into the bucket derived
// from its patched start time. Delete-then-insert runs in a single
// transaction, so the task is never visible in two buckets and never
// lost between them. A move that lands on the same day degrades to a
// plain update.
func (s *SQLiteStore) MoveTask(
	ctx context.Context,
	id, oldKey string,
	patch TaskPatch,
) (model.Task, error) {
	task, err := s.getTask(ctx, id, oldKey)
	if err != nil {
		return model.Task{}, err
	}

	applyPatch(&task, patch)
	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}

	newKey := task.DateKey()
	if newKey == oldKey {
		if err := s.updateTaskRow(ctx, task, oldKey); err != nil {
			return model.Task{}, err
		}
		return task, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return model.Task{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND date_key = ?", id, oldKey)
	if err != nil {
		return model.Task{}, fmt.Errorf("removing task %s from %s: %w", id, oldKey, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return model.Task{}, fmt.Errorf("%w: %s in %s", ErrTaskNotFound, id, oldKey)
	}

	position, err := nextPosition(ctx, tx, newKey)
	if err != nil {
		return model.Task{}, err
	}
	if err := insertTask(ctx, tx, task, newKey, position); err != nil {
		return model.Task{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.Task{}, fmt.Errorf("committing move of task %s: %w", id, err)
	}
	return task, nil
}

// DeleteTask removes a task by id from the named bucket only.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id, dateKey string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND date_key = ?", id, dateKey)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s in %s", ErrTaskNotFound, id, dateKey)
	}
	return nil
}

// GetTasksForDate returns the bucket for dateKey in insertion order.
func (s *SQLiteStore) GetTasksForDate(ctx context.Context, dateKey string) ([]model.Task, error) {
	var rows []taskRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM tasks WHERE date_key = ? ORDER BY position", dateKey)
	if err != nil {
		return nil, fmt.Errorf("querying tasks for %s: %w", dateKey, err)
	}

	tasks := make([]model.Task, 0, len(rows))
	for _, r := range rows {
		tasks = append(tasks, r.hydrate())
	}
	return tasks, nil
}

// TaskExists reports whether a task with the given id exists in any bucket.
func (s *SQLiteStore) TaskExists(ctx context.Context, id string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM tasks WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("checking task %s: %w", id, err)
	}
	return count > 0, nil
}

// getTask loads a single task from the named bucket.
func (s *SQLiteStore) getTask(ctx context.Context, id, dateKey string) (model.Task, error) {
	var row taskRow
	err := s.db.GetContext(ctx, &row,
		"SELECT * FROM tasks WHERE id = ? AND date_key = ?", id, dateKey)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Task{}, fmt.Errorf("%w: %s in %s", ErrTaskNotFound, id, dateKey)
	}
	if err != nil {
		return model.Task{}, fmt.Errorf("getting task %s: %w", id, err)
	}
	return row.hydrate(), nil
}

// updateTaskRow writes the task back in place, keeping its position.
func (s *SQLiteStore) updateTaskRow(ctx context.Context, task model.Task, dateKey string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, description = ?, start_time = ?, end_time = ?,
			color = ?, notifications = ?, updated_at = ?
		WHERE id = ? AND date_key = ?`,
		task.Title, task.Description,
		task.StartTime.Format(time.RFC3339), task.EndTime.Format(time.RFC3339),
		task.Color, boolToInt(task.NotificationsEnabled),
		time.Now().UTC().Format(time.RFC3339),
		task.ID, dateKey,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", task.ID, err)
	}
	rows, _ := res.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("%w: %s in %s", ErrTaskNotFound, task.ID, dateKey)
	}
	return nil
}

func insertTask(ctx context.Context, tx *sqlx.Tx, task model.Task, dateKey string, position int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO tasks (
			id, date_key, title, description, start_time, end_time,
			color, notifications, provider, provider_event_id, position
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		task.ID, dateKey, task.Title, task.Description,
		task.StartTime.Format(time.RFC3339), task.EndTime.Format(time.RFC3339),
		task.Color, boolToInt(task.NotificationsEnabled),
		string(task.Provider), task.ProviderEventID, position,
	)
	if err != nil {
		return fmt.Errorf("inserting task %s into %s: %w", task.ID, dateKey, err)
	}
	return nil
}

// nextPosition yields max(position)+1 within a bucket so ordering
// follows insertion.
func nextPosition(ctx context.Context, tx *sqlx.Tx, dateKey string) (int, error) {
	var maxPos int
	err := tx.GetContext(ctx, &maxPos,
		"SELECT COALESCE(MAX(position), 0) FROM tasks WHERE date_key = ?", dateKey)
	if err != nil {
		return 0, fmt.Errorf("getting max position for %s: %w", dateKey, err)
	}
	return maxPos + 1, nil
}

func applyPatch(task *model.Task, patch TaskPatch) {
	if patch.Title != nil {
		task.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.StartTime != nil {
		task.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		task.EndTime = *patch.EndTime
	}
	if patch.Color != nil {
		task.Color = *patch.Color
	}
	if patch.Notifications != nil {
		task.NotificationsEnabled = *patch.Notifications
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
