package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"p2pchat/storage"
)

func renderGlobalSearch(searchInput textinput.Model, results []storage.MessageMatch, selectedIdx, scrollIdx, width, height int) string {
	modalWidth := width - 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	modalStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(dimColor).
		Padding(1, 2)

	title := TitleStyle.Render("🔍 Search All Conversations")
	searchView := searchInput.View()

	resultsView := ""
	if len(results) == 0 {
		if searchInput.Value() == "" {
			resultsView = DimStyle.Render("Type to search across all conversations...")
		} else {
			resultsView = DimStyle.Render("No matches found")
		}
	} else {
		// Border(2) + Padding(2) + Title(1) + Blank(1) + SearchInput(1) +
		// Blank(1) + "Found X matches:"(1) + Blank(1) + Footer(1) + Blank(1)
		fixedOverhead := 12
		scrollIndicatorSpace := 4

		availableLines := height - fixedOverhead - scrollIndicatorSpace
		if availableLines < 3 {
			availableLines = 3
		}

		linesPerResult := 6
		maxVisibleResults := availableLines / linesPerResult
		if maxVisibleResults < 1 {
			maxVisibleResults = 1
		}

		startIdx := scrollIdx
		endIdx := scrollIdx + maxVisibleResults
		if endIdx > len(results) {
			endIdx = len(results)
		}

		resultsView = fmt.Sprintf("Found %d matches:\n\n", len(results))

		if startIdx > 0 {
			resultsView += DimStyle.Render(fmt.Sprintf("↑ %d more above\n\n", startIdx))
		}

		for i := startIdx; i < endIdx; i++ {
			match := results[i]

			roleStyle := UserStyle
			if match.Type == storage.MessageAssistant {
				roleStyle = AssistantStyle
			}

			matchText := fmt.Sprintf("%s [%s] %s\n  %s",
				roleStyle.Render(match.ConversationTitle),
				match.Timestamp.Format("Jan 2, 3:04 PM"),
				DimStyle.Render(string(match.Type)),
				match.Preview,
			)

			if i == selectedIdx {
				matchText = SelectedStyle.Render("> " + matchText)
			} else {
				matchText = "  " + matchText
			}

			resultsView += matchText + "\n\n"
		}

		if endIdx < len(results) {
			resultsView += DimStyle.Render(fmt.Sprintf("↓ %d more below", len(results)-endIdx))
		}
	}

	footer := FormatFooter("Type", "to search", "Alt+J/K", "Navigate", "Enter", "Open Conversation", "Esc", "Close")

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		searchView,
		"",
		resultsView,
		"",
		footer,
	)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		modalStyle.Width(modalWidth).Render(content))
}

func (a AppView) handleGlobalSearchUpdate(msg tea.KeyMsg) (AppView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.showGlobalSearch = false
		a.globalSearchInput.Blur()
		return a, nil

	case "enter":
		if a.selectedGlobalIdx < len(a.globalSearchResults) {
			match := a.globalSearchResults[a.selectedGlobalIdx]
			a.dataModel.Store.LoadConversation(match.ConversationID)
			a.showGlobalSearch = false
			a.globalSearchInput.Blur()
			a.updateViewportContent(true)
		}
		return a, nil

	case "alt+j", "alt+down":
		if a.selectedGlobalIdx < len(a.globalSearchResults)-1 {
			a.selectedGlobalIdx++
			if a.selectedGlobalIdx >= a.globalScrollIdx+3 {
				a.globalScrollIdx++
			}
		}
		return a, nil

	case "alt+k", "alt+up":
		if a.selectedGlobalIdx > 0 {
			a.selectedGlobalIdx--
			if a.selectedGlobalIdx < a.globalScrollIdx {
				a.globalScrollIdx = a.selectedGlobalIdx
			}
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.globalSearchInput, cmd = a.globalSearchInput.Update(msg)

	query := a.globalSearchInput.Value()
	if query == "" {
		a.globalSearchResults = nil
		a.selectedGlobalIdx = 0
		a.globalScrollIdx = 0
		return a, cmd
	}

	return a, tea.Batch(cmd, a.dataModel.GlobalSearch(query))
}
