package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"p2pchat/ollama"
)

// modelSource adapts the model list for fuzzy matching by name.
type modelSource []ollama.ModelInfo

func (s modelSource) String(i int) string { return s[i].Name }
func (s modelSource) Len() int            { return len(s) }

func renderModelSelector(models []ollama.ModelInfo, selectedIdx int, currentModel string, filterMode bool, filterInput textinput.Model, width, height int) string {
	modalWidth := width - 10
	if modalWidth > 80 {
		modalWidth = 80
	}
	modalHeight := height - 6

	titleSection := lipgloss.NewStyle().
		Bold(true).
		Align(lipgloss.Center).
		Width(modalWidth).
		Render("Select Model")

	var header string
	if filterMode {
		header = filterInput.View()
	} else {
		header = fmt.Sprintf("%d models", len(models))
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

	var lines []string
	maxLines := modalHeight - 8

	if len(models) == 0 {
		msg := "No models available"
		if filterMode {
			msg = "No matches found"
		}
		lines = append(lines, lipgloss.NewStyle().
			Foreground(dimColor).
			Italic(true).
			Align(lipgloss.Center).
			Width(modalWidth).
			Render(msg))
	} else {
		startIdx := 0
		endIdx := len(models)
		if len(models) > maxLines {
			if selectedIdx < maxLines/2 {
				endIdx = maxLines
			} else if selectedIdx >= len(models)-maxLines/2 {
				startIdx = len(models) - maxLines
			} else {
				startIdx = selectedIdx - maxLines/2
				endIdx = startIdx + maxLines
			}
		}

		for i := startIdx; i < endIdx && i < len(models); i++ {
			m := models[i]

			indicator := "  "
			if i == selectedIdx {
				indicator = "▶ "
			}

			name := m.Name
			marker := ""
			if m.Name == currentModel {
				marker = " (current)"
			}

			line := fmt.Sprintf("  %s%s%s", indicator, name, marker)
			switch {
			case i == selectedIdx:
				line = lipgloss.NewStyle().Foreground(successColor).Bold(true).Render(line)
			case m.Name == currentModel:
				line = lipgloss.NewStyle().Foreground(accentColor).Bold(true).Render(line)
			}
			lines = append(lines, lipgloss.NewStyle().Width(modalWidth).Render(line))
		}
	}

	emptyLine := strings.Repeat(" ", modalWidth)
	lines = append([]string{emptyLine}, lines...)
	lines = append(lines, emptyLine)

	var footerText string
	if filterMode {
		footerText = FormatFooter("Type", "to filter", "Alt+J/K", "Navigate", "Enter", "Select", "Esc", "Cancel")
	} else {
		footerText = FormatFooter("/", "Filter", "j/k", "Navigate", "Enter", "Select", "Esc", "Close")
	}
	footerSection := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Width(modalWidth).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(footerText)

	sections := []string{titleSection, headerSection}
	sections = append(sections, lines...)
	sections = append(sections, footerSection)

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(strings.Join(sections, "\n"))
}

func (a AppView) handleModelSelectorUpdate(msg tea.KeyMsg) (AppView, tea.Cmd) {
	if a.modelFilterMode {
		switch msg.String() {
		case "esc":
			a.modelFilterMode = false
			a.modelFilterInput.Blur()
			a.filteredModelList = nil
			return a, nil

		case "enter":
			return a.selectModel()

		case "alt+j", "alt+down":
			if a.selectedModelIdx < len(a.getModelList())-1 {
				a.selectedModelIdx++
			}
			return a, nil

		case "alt+k", "alt+up":
			if a.selectedModelIdx > 0 {
				a.selectedModelIdx--
			}
			return a, nil
		}

		var cmd tea.Cmd
		a.modelFilterInput, cmd = a.modelFilterInput.Update(msg)
		a.applyModelFilter()
		return a, cmd
	}

	switch msg.String() {
	case "esc":
		a.showModelSelector = false
		return a, nil

	case "j", "down":
		if a.selectedModelIdx < len(a.getModelList())-1 {
			a.selectedModelIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedModelIdx > 0 {
			a.selectedModelIdx--
		}
		return a, nil

	case "enter":
		return a.selectModel()

	case "/":
		a.modelFilterMode = true
		a.modelFilterInput.SetValue("")
		a.modelFilterInput.Focus()
		a.filteredModelList = nil
		a.selectedModelIdx = 0
		return a, textinput.Blink
	}

	return a, nil
}

func (a *AppView) applyModelFilter() {
	query := a.modelFilterInput.Value()
	if query == "" {
		a.filteredModelList = nil
		a.selectedModelIdx = 0
		return
	}

	matches := fuzzy.FindFrom(query, modelSource(a.modelList))
	filtered := make([]ollama.ModelInfo, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, a.modelList[m.Index])
	}
	a.filteredModelList = filtered
	a.selectedModelIdx = 0
}

func (a AppView) selectModel() (AppView, tea.Cmd) {
	list := a.getModelList()
	if a.selectedModelIdx < len(list) {
		a.dataModel.Provider.SetModel(list[a.selectedModelIdx].Name)
	}
	a.showModelSelector = false
	a.modelFilterMode = false
	a.modelFilterInput.Blur()
	a.filteredModelList = nil
	return a, nil
}
