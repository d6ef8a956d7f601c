package game

import "github.com/charmbracelet/lipgloss"

const (
	// chromeHeight is the vertical space reserved around the log
	// viewport: header, dialogue line, action list and status line.
	chromeHeight = 12

	caret = "▌"
)

var (
	spinnerColor = lipgloss.Color("111")

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
	goldStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("216"))
	statusColor = lipgloss.Color("243")
	statusStyle = lipgloss.NewStyle().Foreground(statusColor)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	hpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("157"))
	hpHurtStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	mpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))

	combatEntryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("216"))
	systemEntryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("251"))
	rollStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("183"))
	dialogueStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Italic(true)
	dialogueHintStyle = lipgloss.NewStyle().Foreground(statusColor)

	enemyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	enemyHurtStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Bold(true)

	sceneBannerStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("203")).
				Border(lipgloss.RoundedBorder()).
				Padding(0, 2)

	tipStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("111")).
			Padding(0, 1)

	actionStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("251"))
	actionSelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Bold(true)
	actionDisabledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("203")).
			Border(lipgloss.DoubleBorder()).
			Padding(1, 4)
)
