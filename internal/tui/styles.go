package tui

import (
	"pumpradar/internal/domain"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")).MarginBottom(1)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("63")).Padding(0, 1)

	signalStyles = map[domain.TradingSignal]lipgloss.Style{
		domain.SignalGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
		domain.SignalYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true),
		domain.SignalRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

func signalBadge(s domain.TradingSignal) string {
	style, ok := signalStyles[s]
	if !ok {
		return string(s)
	}
	return style.Render("● " + string(s))
}
