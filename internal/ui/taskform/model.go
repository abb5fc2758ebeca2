// Package taskform is the create/edit form for tasks. Submissions are
// handed to the app, which runs the overlap check against the day's
// bucket and either persists or pushes the rejection back into the
// form as an inline error.
package taskform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/muhammad-salman-webdev/planr/internal/theme"
	"github.com/muhammad-salman-webdev/planr/internal/timegrid"
)

// Submission carries a completed form back to the app.
type Submission struct {
	// EditID is empty for a new task.
	EditID string
	// DateKey is the bucket the task currently lives in, so an edit
	// can look it up even after the start time moved to another day.
	// Empty for a new task.
	DateKey     string
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	Color       string
	Notify      bool
}

// SubmitMsg is dispatched when the form is completed.
type SubmitMsg struct {
	Submission Submission
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// colorOptions is the palette offered in the color selector.
var colorOptions = []huh.Option[string]{
	huh.NewOption("Blue", "#5B9BD5"),
	huh.NewOption("Green", "#6BCB77"),
	huh.NewOption("Yellow", "#FFD93D"),
	huh.NewOption("Red", "#FF6B6B"),
	huh.NewOption("Purple", "#CC5DE8"),
}

// formBindings holds field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title       string
	description string
	start       string
	end         string
	color       string
	notify      bool
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	editID  string
	dateKey string
	day     time.Time
	errText string
	width   int
	height  int
}

// New creates a new task form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// StartCreate initializes the form for a new task on the given day.
// defaultNotify seeds the reminder toggle from the user settings.
func (m *Model) StartCreate(day time.Time, defaultNotify bool) tea.Cmd {
	m.editID = ""
	m.dateKey = ""
	m.day = day
	m.errText = ""
	m.fb.title = ""
	m.fb.description = ""
	m.fb.start = ""
	m.fb.end = ""
	m.fb.color = colorOptions[0].Value
	m.fb.notify = defaultNotify
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form with an existing submission's values.
func (m *Model) StartEdit(sub Submission) tea.Cmd {
	m.editID = sub.EditID
	m.dateKey = sub.DateKey
	m.day = sub.Start
	m.errText = ""
	m.fb.title = sub.Title
	m.fb.description = sub.Description
	m.fb.start = sub.Start.Local().Format("15:04")
	m.fb.end = sub.End.Local().Format("15:04")
	m.fb.color = sub.Color
	if m.fb.color == "" {
		m.fb.color = colorOptions[0].Value
	}
	m.fb.notify = sub.Notify
	m.form = m.buildForm()
	return m.form.Init()
}

// SetError surfaces a rejection (an overlap, a store failure) and
// reopens the form with the entered values intact.
func (m *Model) SetError(text string) tea.Cmd {
	m.errText = text
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Task"
	if m.editID != "" {
		titleText = "Edit Task"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText)
	if m.errText != "" {
		content += "\n" + theme.ErrorStyle.Render(m.errText)
	}
	content += "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("What are you planning?").
				Value(&m.fb.title).
				Validate(validateRequired("Title")),
			huh.NewText().
				Title("Description").
				Placeholder("Optional details...").
				Value(&m.fb.description),
			huh.NewInput().
				Title("Start").
				Placeholder("HH:MM").
				Value(&m.fb.start).
				Validate(validateClock),
			huh.NewInput().
				Title("End").
				Placeholder("HH:MM").
				Value(&m.fb.end).
				Validate(validateClock),
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOptions...).
				Value(&m.fb.color),
			huh.NewConfirm().
				Title("Reminders").
				Affirmative("On").
				Negative("Off").
				Value(&m.fb.notify),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

// handleSubmit assembles the submission. A reversed time range is
// normalized rather than rejected.
func (m Model) handleSubmit() tea.Cmd {
	start := clockOnDay(m.day, m.fb.start)
	end := clockOnDay(m.day, m.fb.end)
	start, end = timegrid.NormalizeRange(start, end)

	sub := Submission{
		EditID:      m.editID,
		DateKey:     m.dateKey,
		Title:       strings.TrimSpace(m.fb.title),
		Description: m.fb.description,
		Start:       start,
		End:         end,
		Color:       m.fb.color,
		Notify:      m.fb.notify,
	}
	return func() tea.Msg { return SubmitMsg{Submission: sub} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

// clockOnDay combines a validated HH:MM string with the form's day.
func clockOnDay(day time.Time, clock string) time.Time {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		return day
	}
	return time.Date(
		day.Year(), day.Month(), day.Day(),
		t.Hour(), t.Minute(), 0, 0, day.Location(),
	)
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateClock(s string) error {
	if _, err := time.Parse("15:04", strings.TrimSpace(s)); err != nil {
		return fmt.Errorf("invalid time, use HH:MM")
	}
	return nil
}
