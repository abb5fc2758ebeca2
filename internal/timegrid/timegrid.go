// Package timegrid holds the pure time-interval math behind the calendar
// grid: overlap detection, drag-relocation with snapping and window
// clamping, and slot-selection normalization. Nothing here touches the
// store or the clock.
package timegrid

import (
	"errors"
	"time"

	"github.com/muhammad-salman-webdev/planr/internal/model"
)

var ErrConflict = errors.New("timegrid: interval overlaps an existing task")

// Window is the visible portion of a day on the grid. Relocated tasks
// are clamped so they stay inside it.
type Window struct {
	StartHour int
	EndHour   int
}

// Start returns the window's lower bound on the given day.
func (w Window) Start(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), w.StartHour, 0, 0, 0, day.Location())
}

// End returns the window's upper bound on the given day. A task may run
// up to one hour past it, matching the grid's bottom grace row.
func (w Window) End(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location()).
		Add(time.Duration(w.EndHour) * time.Hour)
}

// Overlaps reports whether two half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// Conflicts reports whether the candidate interval overlaps any task in
// existing other than excludeID. Used for save-time validation and for
// drop-target checks.
func Conflicts(start, end time.Time, existing []model.Task, excludeID string) bool {
	for _, other := range existing {
		if other.ID == excludeID {
			continue
		}
		if Overlaps(start, end, other.StartTime, other.EndTime) {
			return true
		}
	}
	return false
}

// SnapToStep floors an instant to the containing step boundary and
// strips sub-minute precision. With a one-minute step this drops the
// seconds, so 13:54:59 snaps to 13:54.
func SnapToStep(at time.Time, step time.Duration) time.Time {
	if step < time.Minute {
		step = time.Minute
	}
	return at.Truncate(step)
}

// NormalizeRange orders a drag-selected pair so start <= end. The grid
// lets the user drag upward, producing an inverted pair.
func NormalizeRange(a, b time.Time) (start, end time.Time) {
	if b.Before(a) {
		return b, a
	}
	return a, b
}

// Relocate computes the task's new interval for a drop at dropAt,
// preserving the original duration, snapping the start to step, and
// clamping the interval into the window on dropAt's day. It returns
// ErrConflict when the clamped interval would overlap another task in
// existing, leaving the caller to keep the original position.
func Relocate(
	task model.Task,
	dropAt time.Time,
	window Window,
	step time.Duration,
	existing []model.Task,
) (start, end time.Time, err error) {
	duration := task.Duration()

	start = SnapToStep(dropAt, step)

	minStart := window.Start(dropAt)
	maxEnd := window.End(dropAt).Add(time.Hour)

	if start.Before(minStart) {
		start = minStart
	}
	end = start.Add(duration)

	if end.After(maxEnd) {
		end = maxEnd
		start = SnapToStep(end.Add(-duration), step)
		if start.Before(minStart) {
			start = minStart
		}
		end = start.Add(duration)
	}

	if Conflicts(start, end, existing, task.ID) {
		return time.Time{}, time.Time{}, ErrConflict
	}

	return start, end, nil
}
