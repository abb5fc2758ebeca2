// Package settingsform edits the user-mutable notification settings.
package settingsform

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/theme"
)

// SavedMsg is dispatched when the form completes with valid settings.
type SavedMsg struct {
	Settings model.Settings
}

// CancelMsg is dispatched when the user abandons the form.
type CancelMsg struct{}

// formBindings holds field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	defaultNotifications bool
	leadMinutes          string
	muteSound            bool
}

// Model is the Bubble Tea model for the settings form.
type Model struct {
	form   *huh.Form
	fb     *formBindings
	width  int
	height int
}

// New creates a new settings form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form with the current settings.
func (m *Model) Start(settings model.Settings) tea.Cmd {
	m.fb.defaultNotifications = settings.DefaultNotifications
	m.fb.leadMinutes = strconv.Itoa(settings.LeadMinutes)
	m.fb.muteSound = settings.MuteSound
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the settings form.
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

// View renders the settings form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Notification Settings") + "\n" + m.form.View()

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
			huh.NewConfirm().
				Title("Reminders for new tasks").
				Affirmative("On").
				Negative("Off").
				Value(&m.fb.defaultNotifications),
			huh.NewInput().
				Title("Lead time (minutes)").
				Description(fmt.Sprintf(
					"How long before a task starts the reminder fires (%d–%d).",
					model.MinLeadMinutes, model.MaxLeadMinutes,
				)).
				Value(&m.fb.leadMinutes).
				Validate(validateLeadMinutes),
			huh.NewConfirm().
				Title("Mute reminder sound").
				Affirmative("Muted").
				Negative("Audible").
				Value(&m.fb.muteSound),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) handleSubmit() tea.Cmd {
	// Validation already guaranteed a parseable in-range value.
	lead, _ := strconv.Atoi(strings.TrimSpace(m.fb.leadMinutes))
	settings := model.Settings{
		DefaultNotifications: m.fb.defaultNotifications,
		LeadMinutes:          lead,
		MuteSound:            m.fb.muteSound,
	}
	return func() tea.Msg { return SavedMsg{Settings: settings} }
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

func validateLeadMinutes(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number")
	}
	if n < model.MinLeadMinutes || n > model.MaxLeadMinutes {
		return fmt.Errorf(
			"must be between %d and %d",
			model.MinLeadMinutes, model.MaxLeadMinutes,
		)
	}
	return nil
}
