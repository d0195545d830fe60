package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func renderHelpModal(width, height int) string {
	modalWidth := 70
	if width < modalWidth+10 {
		modalWidth = width - 10
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Keyboard Shortcuts")

	keyStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)

	shortcuts := [][2]string{
		{"Enter", "Send message"},
		{"Alt+Enter", "Insert newline"},
		{"Alt+N", "New conversation"},
		{"Alt+S", "Conversation manager"},
		{"Alt+M", "Model selector"},
		{"Alt+F", "Search all conversations"},
		{"Alt+Y", "Copy last assistant message"},
		{"Alt+B", "Copy last code block"},
		{"Alt+C", "Copy whole conversation"},
		{"Alt+J/K", "Scroll half page"},
		{"Alt+G / Alt+Shift+G", "Scroll to top / bottom"},
		{"Alt+H", "Toggle this help"},
		{"Alt+Shift+A", "About"},
		{"Alt+Q", "Quit"},
	}

	var lines []string
	lines = append(lines, strings.Repeat(" ", modalWidth))
	for _, sc := range shortcuts {
		styled := keyStyle.Render(fmt.Sprintf("  %-22s", sc[0])) + sc[1]
		lines = append(lines, lipgloss.NewStyle().Width(modalWidth).Render(styled))
	}
	lines = append(lines, strings.Repeat(" ", modalWidth))

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(lines, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render("Esc Close")

	sections := []string{titleSection, messageSection, footerSection}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}

func renderAboutModal(width, height int, version string) string {
	modalWidth := 50
	if width < modalWidth+10 {
		modalWidth = width - 10
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("p2pchat")

	var lines []string
	lines = append(lines, strings.Repeat(" ", modalWidth))

	center := lipgloss.NewStyle().Width(modalWidth).Align(lipgloss.Center)
	lines = append(lines, center.Render("Terminal assistant for procure-to-pay analysts"))
	lines = append(lines, center.Render(fmt.Sprintf("Version %s", version)))
	lines = append(lines, strings.Repeat(" ", modalWidth))

	messageSection := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(strings.Join(lines, "\n"))

	footerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render("Esc Close")

	sections := []string{titleSection, messageSection, footerSection}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.Join(sections, "\n"))
}
