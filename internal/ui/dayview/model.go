// Package dayview renders the schedule for a single day and handles
// day navigation, task selection, and keyboard-driven relocation.
package dayview

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muhammad-salman-webdev/planr/internal/keys"
	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/store"
	"github.com/muhammad-salman-webdev/planr/internal/theme"
	"github.com/muhammad-salman-webdev/planr/internal/timegrid"
)

// TasksLoadedMsg is sent when the selected day's tasks have been
// loaded from the store.
type TasksLoadedMsg struct {
	DateKey string
	Tasks   []model.Task
}

// EditTaskMsg asks the app to open the task form for an existing task.
type EditTaskMsg struct {
	Task model.Task
}

// NewTaskMsg asks the app to open the task form for a new task on the
// given day.
type NewTaskMsg struct {
	Day time.Time
}

// taskChangedMsg is an internal signal that a store write completed
// and the day needs reloading. A non-empty err carries the failure for
// the status line.
type taskChangedMsg struct {
	err error
}

// Model is the day schedule view.
type Model struct {
	store  store.Store
	keys   *keys.KeyMap
	window timegrid.Window
	step   time.Duration

	day    time.Time
	tasks  []model.Task
	cursor int

	// moveMode relocates the selected task with the arrow keys instead
	// of moving the cursor. moveAt is the pending drop position.
	moveMode bool
	moveAt   time.Time

	status string
	width  int
	height int
}

// New creates a day view showing today.
func New(
	s store.Store,
	k *keys.KeyMap,
	window timegrid.Window,
	step time.Duration,
	width, height int,
) Model {
	return Model{
		store:  s,
		keys:   k,
		window: window,
		step:   step,
		day:    time.Now(),
		width:  width,
		height: height,
	}
}

// Init loads the initial day.
func (m Model) Init() tea.Cmd {
	return m.LoadTasks()
}

// Day returns the currently selected day.
func (m Model) Day() time.Time {
	return m.day
}

// Tasks returns the currently loaded tasks. The app uses them for
// overlap checks when the task form submits.
func (m Model) Tasks() []model.Task {
	return m.tasks
}

// SetStatus sets the transient status line shown under the schedule.
func (m *Model) SetStatus(status string) {
	m.status = status
}

// LoadTasks returns a command that loads the selected day's bucket.
func (m Model) LoadTasks() tea.Cmd {
	s := m.store
	day := m.day
	return func() tea.Msg {
		key := model.DateKeyOf(day)
		tasks, err := s.GetTasksForDate(context.Background(), key)
		if err != nil {
			return taskChangedMsg{err: err}
		}
		return TasksLoadedMsg{DateKey: key, Tasks: tasks}
	}
}

// Update handles messages for the day view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TasksLoadedMsg:
		// Ignore stale loads from a day we already navigated away from.
		if msg.DateKey != model.DateKeyOf(m.day) {
			return m, nil
		}
		m.tasks = msg.Tasks
		if m.cursor >= len(m.tasks) {
			m.cursor = len(m.tasks) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil

	case taskChangedMsg:
		if msg.err != nil {
			m.status = msg.err.Error()
		}
		return m, m.LoadTasks()

	case tea.KeyMsg:
		if m.moveMode {
			return m.handleMoveKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys processes key input outside move mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.tasks)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.PrevDay):
		m.day = m.day.AddDate(0, 0, -1)
		m.cursor = 0
		return m, m.LoadTasks()

	case key.Matches(msg, m.keys.NextDay):
		m.day = m.day.AddDate(0, 0, 1)
		m.cursor = 0
		return m, m.LoadTasks()

	case key.Matches(msg, m.keys.Today):
		m.day = time.Now()
		m.cursor = 0
		return m, m.LoadTasks()

	case key.Matches(msg, m.keys.New):
		day := m.day
		return m, func() tea.Msg { return NewTaskMsg{Day: day} }

	case key.Matches(msg, m.keys.Edit):
		if task, ok := m.selected(); ok {
			return m, func() tea.Msg { return EditTaskMsg{Task: task} }
		}

	case key.Matches(msg, m.keys.Delete):
		if task, ok := m.selected(); ok {
			return m, m.deleteTask(task)
		}

	case key.Matches(msg, m.keys.Toggle):
		if task, ok := m.selected(); ok {
			return m, m.toggleNotifications(task)
		}

	case key.Matches(msg, m.keys.Move):
		if task, ok := m.selected(); ok {
			m.moveMode = true
			m.moveAt = task.StartTime
		}
	}

	return m, nil
}

// handleMoveKeys processes key input while relocating a task. Up and
// down nudge the pending position by one snap step; enter commits,
// escape abandons the move.
func (m Model) handleMoveKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	task, ok := m.selected()
	if !ok {
		m.moveMode = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Up):
		m.moveAt = m.moveAt.Add(-m.step)

	case key.Matches(msg, m.keys.Down):
		m.moveAt = m.moveAt.Add(m.step)

	case msg.String() == "enter":
		m.moveMode = false
		return m, m.commitMove(task, m.moveAt)

	case key.Matches(msg, m.keys.Back):
		m.moveMode = false
		m.status = ""
	}

	return m, nil
}

// commitMove resolves the drop position and persists the new interval.
func (m Model) commitMove(task model.Task, dropAt time.Time) tea.Cmd {
	s := m.store
	window := m.window
	step := m.step
	existing := m.tasks
	return func() tea.Msg {
		start, end, err := timegrid.Relocate(task, dropAt, window, step, existing)
		if err != nil {
			return taskChangedMsg{err: err}
		}

		// A move nudged past midnight lands in another bucket; MoveTask
		// handles that and degrades to a plain update for same-day moves.
		patch := store.TaskPatch{StartTime: &start, EndTime: &end}
		_, err = s.MoveTask(context.Background(), task.ID, task.DateKey(), patch)
		return taskChangedMsg{err: err}
	}
}

// deleteTask removes the selected task from its bucket.
func (m Model) deleteTask(task model.Task) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteTask(context.Background(), task.ID, task.DateKey())
		return taskChangedMsg{err: err}
	}
}

// toggleNotifications flips the per-task reminder flag.
func (m Model) toggleNotifications(task model.Task) tea.Cmd {
	s := m.store
	enabled := !task.NotificationsEnabled
	return func() tea.Msg {
		patch := store.TaskPatch{Notifications: &enabled}
		_, err := s.UpdateTask(context.Background(), task.ID, task.DateKey(), patch)
		return taskChangedMsg{err: err}
	}
}

// selected returns the task under the cursor.
func (m Model) selected() (model.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return model.Task{}, false
	}
	return m.tasks[m.cursor], true
}

// View renders the day schedule.
func (m Model) View() string {
	if len(m.tasks) == 0 {
		empty := theme.MutedStyle.Render("No tasks scheduled. Press n to add one.")
		return lipgloss.NewStyle().Padding(1, 2).Render(empty + m.statusLine())
	}

	rows := make([]string, 0, len(m.tasks)+1)
	for i, task := range m.tasks {
		rows = append(rows, m.renderRow(i, task))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	return lipgloss.NewStyle().Padding(1, 2).Render(content + m.statusLine())
}

// renderRow renders one schedule row, highlighting the cursor and the
// pending move position.
func (m Model) renderRow(i int, task model.Task) string {
	start, end := task.StartTime, task.EndTime
	moving := m.moveMode && i == m.cursor
	if moving {
		// Preview the pending position without persisting it.
		snapped := timegrid.SnapToStep(m.moveAt, m.step)
		start = snapped
		end = snapped.Add(task.Duration())
	}

	timeRange := theme.TimeStyle.Render(fmt.Sprintf(
		"%s–%s", start.Local().Format("15:04"), end.Local().Format("15:04"),
	))
	swatch := theme.TaskColorStyle(task.Color).Render("■")

	label := task.Title
	if !task.NotificationsEnabled {
		label += theme.MutedStyle.Render("  (silent)")
	}
	if task.Provider != "" {
		label += theme.MutedStyle.Render("  [" + string(task.Provider) + "]")
	}

	row := fmt.Sprintf("%s %s %s", timeRange, swatch, label)

	switch {
	case moving:
		return theme.MovingRowStyle.Render(row)
	case i == m.cursor:
		return theme.SelectedRowStyle.Render(row)
	default:
		return theme.TaskRowStyle.Render(row)
	}
}

// statusLine renders the transient error/status text, if any.
func (m Model) statusLine() string {
	if m.status == "" {
		return ""
	}
	return "\n\n" + theme.ErrorStyle.Render(m.status)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
