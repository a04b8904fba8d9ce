package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFDF5")).Background(lipgloss.Color("62")).Padding(0, 1)

	userLabelStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	assistantLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	timeStyle           = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	placeholderStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888")).Italic(true)

	transcriptPane = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	fieldLabelStyle   = lipgloss.NewStyle().Width(9).Foreground(lipgloss.Color("#AFAFAF"))
	focusedLabelStyle = fieldLabelStyle.Foreground(lipgloss.Color("#FFFDF5")).Bold(true)

	buttonStyle        = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("62"))
	buttonLoadingStyle = buttonStyle.Background(lipgloss.Color("240"))

	noticeStyles = map[string]lipgloss.Style{
		"info":    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		"success": lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		"error":   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}

	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)
