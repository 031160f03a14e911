// Package report renders dashboard data for the terminal.
package report

import "github.com/charmbracelet/lipgloss"

var (
	AccentColor  = lipgloss.Color("#4ECDC4")
	IncomeColor  = lipgloss.Color("#2E7D32")
	ExpenseColor = lipgloss.Color("#FF6B6B")
	WarningColor = lipgloss.Color("#FFE66D")
	SubtleColor  = lipgloss.Color("#666666")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor).
			MarginBottom(1)

	IncomeStyle  = lipgloss.NewStyle().Foreground(IncomeColor)
	ExpenseStyle = lipgloss.NewStyle().Foreground(ExpenseColor)
	WarningStyle = lipgloss.NewStyle().Foreground(WarningColor)
	SubtleStyle  = lipgloss.NewStyle().Foreground(SubtleColor)
	BoldStyle    = lipgloss.NewStyle().Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 2)
)

const (
	IncomeIcon  = "+"
	ExpenseIcon = "-"
	BudgetIcon  = "#"
	WarningIcon = "!"
)
