package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"p2pchat/storage"
)

func (a AppView) renderConversationManager() string {
	width, height := a.width, a.height

	modalWidth := width - 10
	if modalWidth > 110 {
		modalWidth = 110
	}
	modalHeight := height - 6

	if a.confirmDelete != nil {
		warningText := lipgloss.NewStyle().Foreground(dangerColor).Render("This action cannot be undone.")
		return RenderConfirmationModal(ConfirmationState{
			Active:  true,
			Title:   "⚠ Delete Conversation",
			Message: fmt.Sprintf("Are you sure you want to delete:\n\n\"%s\"\n\n%s", a.confirmDelete.Title, warningText),
		}, width, height)
	}

	if a.importMode {
		return renderImportModal(a.importInput, width, height)
	}

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Conversations")

	// Header: filter input or count
	var header string
	if a.convFilterMode {
		header = a.convFilterInput.View()
	} else {
		total := a.dataModel.Store.Count()
		if total == len(a.conversationList) {
			header = fmt.Sprintf("%d conversations", total)
		} else {
			header = fmt.Sprintf("%d of %d conversations", len(a.conversationList), total)
		}
	}

	headerSection := lipgloss.NewStyle().
		Foreground(dimColor).
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(header)

	currentID := a.dataModel.Store.CurrentID()

	var listLines []string
	maxLines := modalHeight - 8

	if len(a.conversationList) == 0 {
		emptyMsg := "No conversations yet. Start chatting to create one!"
		if a.convFilterMode {
			emptyMsg = "No matches found"
		}
		listLines = append(listLines, lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth).
			Render(emptyMsg))
	} else {
		startIdx := 0
		endIdx := len(a.conversationList)

		if len(a.conversationList) > maxLines {
			if a.selectedConvIdx < maxLines/2 {
				endIdx = maxLines
			} else if a.selectedConvIdx >= len(a.conversationList)-maxLines/2 {
				startIdx = len(a.conversationList) - maxLines
			} else {
				startIdx = a.selectedConvIdx - maxLines/2
				endIdx = startIdx + maxLines
			}
		}

		for i := startIdx; i < endIdx && i < len(a.conversationList); i++ {
			listLines = append(listLines, a.renderConversationLine(i, modalWidth, currentID))
		}
	}

	emptyLine := strings.Repeat(" ", modalWidth)
	listLines = append([]string{emptyLine}, listLines...)
	listLines = append(listLines, emptyLine)

	var footerText string
	if a.renameMode {
		footerText = FormatFooter("Enter", "Save", "Esc", "Cancel")
	} else if a.convFilterMode {
		footerText = FormatFooter("Type", "to filter", "Alt+J/K", "Navigate", "Enter", "Load", "Esc", "Cancel")
	} else {
		footerText = FormatFooter("/", "Filter", "j/k", "Navigate", "Enter", "Load", "n", "New", "r", "Rename", "x", "Export All", "i", "Import", "d", "Delete", "Esc", "Exit")
	}
	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footerText)

	sections := []string{titleSection, headerSection}
	sections = append(sections, listLines...)
	sections = append(sections, footerSection)

	content := strings.Join(sections, "\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

func (a AppView) renderConversationLine(i, modalWidth int, currentID string) string {
	match := a.conversationList[i]
	conv := match.Conversation

	indicator := "  "
	if i == a.selectedConvIdx {
		indicator = "▶ "
	}

	maxTitleWidth := modalWidth - 38

	var titleDisplay string
	var titleVisualWidth int
	if a.renameMode && i == a.selectedConvIdx {
		titleDisplay = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Render(a.renameInput.View())
		titleVisualWidth = runewidth.StringWidth(a.renameInput.Value()) + len(a.renameInput.Prompt) + 1
	} else {
		title := runewidth.Truncate(conv.Title, maxTitleWidth, "...")
		titleVisualWidth = runewidth.StringWidth(title)

		// Mark the query occurrences inside the title. Spans are computed
		// against the full title, so clip them to the kept prefix before
		// the "..." suffix.
		if len(match.TitleSpans) > 0 {
			prefixLen := len(title)
			if title != conv.Title {
				prefixLen -= len("...")
			}
			spans := storage.ClipSpans(match.TitleSpans, prefixLen)
			title = storage.HighlightTitle(title, spans, func(s string) string {
				return HighlightStyle.Render(s)
			})
		}
		switch {
		case i == a.selectedConvIdx:
			title = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(title)
		case conv.ID == currentID:
			title = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(title)
		}
		titleDisplay = title
	}

	hasCurrentMarker := conv.ID == currentID && !a.renameMode

	msgCount := fmt.Sprintf("%d msgs", len(conv.Messages))
	if len(conv.Messages) == 1 {
		msgCount = "1 msg"
	}
	timeAgo := formatTimeAgo(conv.UpdatedAt)
	rightSide := fmt.Sprintf("%8s  %8s", msgCount, timeAgo)

	leftSide := indicator + titleDisplay
	spacing := modalWidth - 4 - len(indicator) - titleVisualWidth - len(rightSide)
	if hasCurrentMarker {
		spacing -= 10 // " (current)"
	}
	if spacing < 2 {
		spacing = 2
	}

	if hasCurrentMarker {
		markerColor := accentColor
		if i == a.selectedConvIdx {
			markerColor = successColor
		}
		leftSide += " " + lipgloss.NewStyle().Foreground(markerColor).Render("(current)")
	}

	rightStyled := rightSide
	if i == a.selectedConvIdx {
		rightStyled = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(rightSide)
	} else if conv.ID == currentID {
		rightStyled = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(rightSide)
	}

	line := fmt.Sprintf("  %s%s%s  ", leftSide, strings.Repeat(" ", spacing), rightStyled)
	return lipgloss.NewStyle().Width(modalWidth).Render(line)
}

// formatTimeAgo formats a time as a relative string (e.g., "2h ago")
func formatTimeAgo(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return "just now"
	} else if duration < time.Hour {
		return fmt.Sprintf("%dm ago", int(duration.Minutes()))
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(duration.Hours()))
	} else if duration < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(duration.Hours()/24))
	} else if duration < 30*24*time.Hour {
		return fmt.Sprintf("%dw ago", int(duration.Hours()/24/7))
	}
	return fmt.Sprintf("%dmo ago", int(duration.Hours()/24/30))
}
