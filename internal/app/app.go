package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muhammad-salman-webdev/planr/internal/importer"
	"github.com/muhammad-salman-webdev/planr/internal/keys"
	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/notify"
	"github.com/muhammad-salman-webdev/planr/internal/store"
	"github.com/muhammad-salman-webdev/planr/internal/timegrid"
	"github.com/muhammad-salman-webdev/planr/internal/ui"
	"github.com/muhammad-salman-webdev/planr/internal/ui/dayview"
	helpview "github.com/muhammad-salman-webdev/planr/internal/ui/help"
	"github.com/muhammad-salman-webdev/planr/internal/ui/importview"
	"github.com/muhammad-salman-webdev/planr/internal/ui/settingsform"
	"github.com/muhammad-salman-webdev/planr/internal/ui/taskform"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewDay ViewState = iota
	ViewTaskForm
	ViewSettings
	ViewImport
	ViewHelp
)

// settingsLoadedMsg carries the stored settings into a form opening.
type settingsLoadedMsg struct {
	settings model.Settings
	open     ViewState
}

// taskSavedMsg reports the outcome of a task form submission.
type taskSavedMsg struct {
	err error
}

// settingsSavedMsg reports the outcome of a settings save.
type settingsSavedMsg struct {
	err error
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        *store.SQLiteStore
	keys         *keys.KeyMap
	dispatcher   *notify.Dispatcher
	config       *model.AppConfig

	dayView      dayview.Model
	taskFormView taskform.Model
	settingsView settingsform.Model
	importView   importview.Model
	helpView     helpview.Model

	ready bool
}

// New creates the root application model.
func New(
	s *store.SQLiteStore,
	cfg *model.AppConfig,
	dispatcher *notify.Dispatcher,
) Model {
	keymap := keys.DefaultKeyMap()
	window := timegrid.Window{
		StartHour: cfg.Grid.StartHour,
		EndHour:   cfg.Grid.EndHour,
	}
	step := time.Duration(cfg.Grid.SnapMinutes) * time.Minute

	return Model{
		currentView:  ViewDay,
		store:        s,
		keys:         keymap,
		dispatcher:   dispatcher,
		config:       cfg,
		dayView:      dayview.New(s, keymap, window, step, 80, 24),
		taskFormView: taskform.New(80, 24),
		settingsView: settingsform.New(80, 24),
		importView:   importview.New(80, 24),
		helpView:     helpview.New(keymap, 80, 24),
	}
}

// Init loads the initial day.
func (m Model) Init() tea.Cmd {
	return m.dayView.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.dayView.SetSize(contentWidth, contentHeight)
		m.taskFormView.SetSize(contentWidth, contentHeight)
		m.settingsView.SetSize(contentWidth, contentHeight)
		m.importView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case dayview.NewTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		return m, m.loadSettingsFor(ViewTaskForm, msg.Day)

	case dayview.EditTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		task := msg.Task
		return m, m.taskFormView.StartEdit(taskform.Submission{
			EditID:      task.ID,
			DateKey:     task.DateKey(),
			Title:       task.Title,
			Description: task.Description,
			Start:       task.StartTime,
			End:         task.EndTime,
			Color:       task.Color,
			Notify:      task.NotificationsEnabled,
		})

	case taskform.SubmitMsg:
		return m.handleTaskSubmit(msg.Submission)

	case taskform.CancelMsg:
		m.currentView = ViewDay
		return m, nil

	case taskSavedMsg:
		if msg.err != nil {
			// Reopen the form with the rejection inline.
			m.currentView = ViewTaskForm
			return m, m.taskFormView.SetError(msg.err.Error())
		}
		m.currentView = ViewDay
		return m, m.dayView.LoadTasks()

	case settingsLoadedMsg:
		if msg.open == ViewSettings {
			return m, m.settingsView.Start(msg.settings)
		}
		return m, m.taskFormView.StartCreate(
			m.dayView.Day(), msg.settings.DefaultNotifications,
		)

	case settingsform.SavedMsg:
		m.currentView = ViewDay
		return m, m.saveSettings(msg.Settings)

	case settingsform.CancelMsg:
		m.currentView = ViewDay
		return m, nil

	case settingsSavedMsg:
		if msg.err != nil {
			m.dayView.SetStatus(msg.err.Error())
		}
		return m, nil

	case importview.RunImportMsg:
		return m, m.runImport(msg.Provider)

	case importview.DoneMsg:
		var cmd tea.Cmd
		m.importView, cmd = m.importView.Update(msg)
		return m, tea.Batch(cmd, m.dayView.LoadTasks())

	case importview.CloseMsg:
		m.currentView = ViewDay
		return m, m.dayView.LoadTasks()

	case tea.KeyMsg:
		// Global keys that work regardless of current view.
		switch {
		case msg.String() == "ctrl+c":
			return m, tea.Quit

		case key.Matches(msg, m.keys.Quit):
			if m.currentView == ViewDay {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.Help):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			if m.currentView == ViewDay {
				m.previousView = m.currentView
				m.currentView = ViewHelp
				return m, nil
			}

		case key.Matches(msg, m.keys.Settings):
			if m.currentView == ViewDay {
				m.previousView = m.currentView
				m.currentView = ViewSettings
				return m, m.loadSettingsFor(ViewSettings, time.Time{})
			}

		case key.Matches(msg, m.keys.Import):
			if m.currentView == ViewDay {
				m.previousView = m.currentView
				m.currentView = ViewImport
				return m, m.importView.Start()
			}

		case key.Matches(msg, m.keys.TestNotify):
			if m.currentView == ViewDay {
				return m, m.testNotification()
			}

		case key.Matches(msg, m.keys.Back):
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
		}
	}

	// Delegate to active sub-view.
	return m.updateActiveView(msg)
}

// handleTaskSubmit runs the overlap check against the day's bucket and
// persists the task when the interval is free.
func (m Model) handleTaskSubmit(sub taskform.Submission) (tea.Model, tea.Cmd) {
	if timegrid.Conflicts(sub.Start, sub.End, m.dayView.Tasks(), sub.EditID) {
		m.currentView = ViewTaskForm
		return m, m.taskFormView.SetError(
			"That time overlaps another task. Pick a free slot.",
		)
	}

	m.currentView = ViewDay
	s := m.store
	return m, func() tea.Msg {
		ctx := context.Background()

		if sub.EditID == "" {
			enabled := sub.Notify
			_, err := s.AddTask(ctx, store.TaskDraft{
				Title:         sub.Title,
				Description:   sub.Description,
				StartTime:     sub.Start,
				EndTime:       sub.End,
				Color:         sub.Color,
				Notifications: &enabled,
			})
			return taskSavedMsg{err: err}
		}

		patch := store.TaskPatch{
			Title:         &sub.Title,
			Description:   &sub.Description,
			StartTime:     &sub.Start,
			EndTime:       &sub.End,
			Color:         &sub.Color,
			Notifications: &sub.Notify,
		}
		// Look the task up under the bucket it was opened from, not the
		// patched start's bucket; an edit that changes the day would
		// otherwise miss the row entirely.
		_, err := s.UpdateTask(ctx, sub.EditID, sub.DateKey, patch)
		if errors.Is(err, store.ErrDateKeyChanged) {
			_, err = s.MoveTask(ctx, sub.EditID, sub.DateKey, patch)
		}
		return taskSavedMsg{err: err}
	}
}

// loadSettingsFor fetches the stored settings before opening a view
// that seeds its fields from them.
func (m Model) loadSettingsFor(open ViewState, _ time.Time) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		settings, err := s.Settings(context.Background())
		if err != nil {
			settings = model.DefaultSettings()
		}
		return settingsLoadedMsg{settings: settings, open: open}
	}
}

// saveSettings persists the settings form's output.
func (m Model) saveSettings(settings model.Settings) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.SaveSettings(context.Background(), settings)
		return settingsSavedMsg{err: err}
	}
}

// runImport builds the chosen provider and runs a current-month import.
func (m Model) runImport(provider model.ProviderType) tea.Cmd {
	s := m.store
	cfg := m.config
	return func() tea.Msg {
		src, err := buildSource(provider, cfg)
		if err != nil {
			return importview.DoneMsg{Provider: provider, Err: err}
		}

		res, err := importer.New(s).ImportMonth(
			context.Background(), src, time.Now(),
		)
		return importview.DoneMsg{
			Provider: provider,
			Imported: res.Imported,
			Skipped:  res.Skipped,
			Err:      err,
		}
	}
}

// testNotification pushes a throwaway request through the dispatcher so
// the user can verify delivery end to end.
func (m Model) testNotification() tea.Cmd {
	s := m.store
	d := m.dispatcher
	return func() tea.Msg {
		settings, err := s.Settings(context.Background())
		if err != nil {
			settings = model.DefaultSettings()
		}
		d.Publish(notify.Request{
			Title:   "Test Notification",
			Message: "This is a test notification!",
			Key:     fmt.Sprintf("test_notification_%d", time.Now().UnixMilli()),
			Sound:   !settings.MuteSound,
		})
		return nil
	}
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewDay:
		m.dayView, cmd = m.dayView.Update(msg)
	case ViewTaskForm:
		m.taskFormView, cmd = m.taskFormView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewImport:
		m.importView, cmd = m.importView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader(
		"Planr", m.dayView.Day().Format("Mon, Jan 2 2006"),
	)
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDay:
		return m.dayView.View()
	case ViewTaskForm:
		return m.taskFormView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewImport:
		return m.importView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewTaskForm:
		return "enter submit | esc cancel"
	case ViewSettings:
		return "enter save | esc cancel"
	case ViewImport:
		return "enter run | esc back"
	default:
		return "q quit | ? help | n new | m move | x reminders | h/l day | s settings | i import"
	}
}
