package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/vburojevic/jittail/internal/domain"
)

// Styles holds all lipgloss styles for text output
var Styles = struct {
	// Severity styles
	Neutral lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Danger  lipgloss.Style

	// Component styles
	Timestamp   lipgloss.Style
	Stream      lipgloss.Style
	Label       lipgloss.Style
	TypeTag     lipgloss.Style
	Correlation lipgloss.Style

	// Summary styles
	Header lipgloss.Style
	Key    lipgloss.Style
	Value  lipgloss.Style

	// TUI styles
	Title     lipgloss.Style
	StatusBar lipgloss.Style
	Live      lipgloss.Style
	Paused    lipgloss.Style
	Help      lipgloss.Style
}{
	Neutral: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),            // White
	Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),             // Cyan
	Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),             // Green
	Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true), // Orange
	Danger:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true), // Red

	Timestamp:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Stream:      lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
	Label:       lipgloss.NewStyle().Bold(true),
	TypeTag:     lipgloss.NewStyle().Foreground(lipgloss.Color("142")),
	Correlation: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),

	Header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).BorderStyle(lipgloss.NormalBorder()).BorderBottom(true).BorderForeground(lipgloss.Color("239")),
	Key:    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
	Value:  lipgloss.NewStyle().Bold(true),

	Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1),
	StatusBar: lipgloss.NewStyle().Background(lipgloss.Color("236")).Foreground(lipgloss.Color("252")).Padding(0, 1),
	Live:      lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
	Paused:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	Help:      lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
}

// SeverityStyle returns the style for a severity
func SeverityStyle(sev domain.Severity) lipgloss.Style {
	switch sev {
	case domain.SeverityInfo:
		return Styles.Info
	case domain.SeveritySuccess:
		return Styles.Success
	case domain.SeverityWarning:
		return Styles.Warning
	case domain.SeverityError:
		return Styles.Danger
	default:
		return Styles.Neutral
	}
}

// SeverityIndicator returns a styled three-letter severity marker
func SeverityIndicator(sev domain.Severity) string {
	style := SeverityStyle(sev)
	switch sev {
	case domain.SeverityInfo:
		return style.Render("INF")
	case domain.SeveritySuccess:
		return style.Render("OK ")
	case domain.SeverityWarning:
		return style.Render("WRN")
	case domain.SeverityError:
		return style.Render("ERR")
	default:
		return style.Render("   ")
	}
}

// StatusText returns styled live/paused text
func StatusText(live bool) string {
	if live {
		return Styles.Live.Render("LIVE")
	}
	return Styles.Paused.Render("PAUSED")
}

// DisableStyles strips colors from all styles, for non-terminal output
func DisableStyles() {
	plain := lipgloss.NewStyle()
	Styles.Neutral = plain
	Styles.Info = plain
	Styles.Success = plain
	Styles.Warning = plain
	Styles.Danger = plain
	Styles.Timestamp = plain
	Styles.Stream = plain
	Styles.Label = plain
	Styles.TypeTag = plain
	Styles.Correlation = plain
	Styles.Header = plain
	Styles.Key = plain
	Styles.Value = plain
}
