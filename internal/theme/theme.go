package theme

import "github.com/charmbracelet/lipgloss"

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen  = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorBlue).
	Padding(0, 1)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// PanelStyle wraps full-screen overlay content (help, forms, import).
var PanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// TaskRowStyle is the base style for schedule rows.
var TaskRowStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedRowStyle highlights the currently focused schedule row.
var SelectedRowStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorBlue).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorBlue)

// MovingRowStyle marks the row being relocated in move mode.
var MovingRowStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorYellow).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorYellow)

// TimeStyle renders the HH:MM gutter of schedule rows.
var TimeStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// MutedStyle renders secondary text such as disabled-reminder markers.
var MutedStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// ErrorStyle renders inline error messages.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorRed).
	Bold(true)

// SuccessStyle renders confirmation messages.
var SuccessStyle = lipgloss.NewStyle().
	Foreground(ColorGreen)

// TaskColorStyle renders the task's color swatch. Falls back to the
// default blue when the task carries no color.
func TaskColorStyle(hex string) lipgloss.Style {
	if hex == "" {
		return lipgloss.NewStyle().Foreground(ColorBlue)
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}
