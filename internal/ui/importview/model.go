// Package importview drives a one-shot calendar import: pick a
// provider, run it, show the outcome once.
package importview

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/theme"
)

// RunImportMsg asks the app to run an import for the chosen provider.
type RunImportMsg struct {
	Provider model.ProviderType
}

// DoneMsg reports the outcome of an import run back to the view.
type DoneMsg struct {
	Provider model.ProviderType
	Imported int
	Skipped  int
	Err      error
}

// CloseMsg is dispatched when the user leaves the import view.
type CloseMsg struct{}

// phase tracks where the view is in the pick/run/report cycle.
type phase int

const (
	phasePick phase = iota
	phaseRunning
	phaseDone
)

// formBindings holds field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	provider string
}

// Model is the Bubble Tea model for the import view.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	phase   phase
	outcome string
	failed  bool
	width   int
	height  int
}

// New creates a new import view model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start resets the view to the provider picker.
func (m *Model) Start() tea.Cmd {
	m.phase = phasePick
	m.outcome = ""
	m.failed = false
	m.fb.provider = string(model.ProviderGoogle)
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Import from").
				Options(
					huh.NewOption("Google Calendar", string(model.ProviderGoogle)),
					huh.NewOption("Email invites", string(model.ProviderEmail)),
				).
				Value(&m.fb.provider),
		),
	).WithWidth(m.width - 4)
	return m.form.Init()
}

// Update handles messages for the import view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DoneMsg:
		m.phase = phaseDone
		if msg.Err != nil {
			m.failed = true
			m.outcome = fmt.Sprintf("Import failed: %v", msg.Err)
		} else {
			m.outcome = fmt.Sprintf(
				"Imported %d events from %s (%d already present).",
				msg.Imported, msg.Provider, msg.Skipped,
			)
		}
		return m, nil

	case tea.KeyMsg:
		if m.phase != phasePick {
			// Any key dismisses the outcome or the running notice.
			if m.phase == phaseDone || msg.String() == "esc" {
				return m, func() tea.Msg { return CloseMsg{} }
			}
			return m, nil
		}
	}

	if m.phase != phasePick || m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.phase = phaseRunning
		provider := model.ProviderType(m.fb.provider)
		return m, func() tea.Msg { return RunImportMsg{Provider: provider} }
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CloseMsg{} }
	}

	return m, cmd
}

// View renders the import view.
func (m Model) View() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var body string
	switch m.phase {
	case phasePick:
		if m.form != nil {
			body = m.form.View()
		}
	case phaseRunning:
		body = theme.MutedStyle.Render("Importing...")
	case phaseDone:
		style := theme.SuccessStyle
		if m.failed {
			style = theme.ErrorStyle
		}
		body = style.Render(m.outcome) + "\n\n" +
			theme.MutedStyle.Render("Press any key to continue.")
	}

	content := titleStyle.Render("Calendar Import") + "\n" + body

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
