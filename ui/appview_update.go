package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"p2pchat/config"
	"p2pchat/render"
	"p2pchat/storage"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	// Keep the placeholder spinner animated while waiting for deltas
	if a.dataModel.Streaming {
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		cmds = append(cmds, cmd)
		a.updateViewportContent(true)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height

		// Title (1), separator (1), textarea (3), status bar (1)
		a.viewport.Width = a.width
		a.viewport.Height = a.height - 6
		a.textarea.SetWidth(a.width)

		a.ready = true
		a.updateViewportContent(true)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "alt+q" {
			a.dataModel.Quitting = true
			return a, tea.Quit
		}

		// Modal toggle shortcuts
		switch msg.String() {
		case "alt+h":
			a.showHelp = !a.showHelp
			return a, nil

		case "alt+n":
			a.closeAllModals()
			a.dataModel.Store.CreateConversation()
			a.textarea.Reset()
			a.updateViewportContent(true)
			return a, nil

		case "alt+s":
			wasOpen := a.showConversationManager
			a.closeAllModals()
			a.showConversationManager = !wasOpen
			if a.showConversationManager {
				a.selectedConvIdx = 0
				a.refreshConversationList()
				currentID := a.dataModel.Store.CurrentID()
				for i, match := range a.conversationList {
					if match.Conversation.ID == currentID {
						a.selectedConvIdx = i
						break
					}
				}
			}
			return a, nil

		case "alt+m":
			wasOpen := a.showModelSelector
			a.closeAllModals()
			a.showModelSelector = !wasOpen
			if a.showModelSelector {
				currentModel := a.dataModel.Provider.GetModel()
				for i, m := range a.modelList {
					if m.Name == currentModel {
						a.selectedModelIdx = i
						break
					}
				}
				if !a.modelListCached {
					return a, a.dataModel.FetchModelList()
				}
			}
			return a, nil

		case "alt+f":
			wasOpen := a.showGlobalSearch
			a.closeAllModals()
			a.showGlobalSearch = !wasOpen
			if a.showGlobalSearch {
				a.globalSearchInput.Focus()
				a.globalSearchInput.SetValue("")
				a.globalSearchResults = nil
				a.selectedGlobalIdx = 0
				a.globalScrollIdx = 0
				return a, textinput.Blink
			}
			return a, nil

		case "alt+A":
			wasOpen := a.showAbout
			a.closeAllModals()
			a.showAbout = !wasOpen
			return a, nil
		}

		// Modal-specific key handling, order matches View rendering
		if a.showInfoModal {
			a.showInfoModal = false
			a.infoModalTitle = ""
			a.infoModalMsg = ""
			return a, nil
		}

		if a.showHelp {
			if msg.String() == "esc" {
				a.showHelp = false
			}
			return a, nil
		}

		if a.showModelSelector {
			return a.handleModelSelectorUpdate(msg)
		}

		if a.showConversationManager {
			return a.handleConversationManagerUpdate(msg)
		}

		if a.showGlobalSearch {
			return a.handleGlobalSearchUpdate(msg)
		}

		if a.showAbout {
			if msg.String() == "esc" || msg.String() == "enter" {
				a.showAbout = false
			}
			return a, nil
		}

		if msg.String() == "tab" && !a.dataModel.Streaming {
			a.textarea.InsertString("   ")
			return a, nil
		}

		// Enter sends - don't let the textarea consume it. Alt+Enter
		// passes through for newlines. Compose is disabled mid-stream.
		if msg.Type == tea.KeyEnter && !msg.Alt && !a.dataModel.Streaming {
			text := strings.TrimRight(a.textarea.Value(), "\n")
			if strings.TrimSpace(text) == "" {
				return a, nil
			}
			a.textarea.Reset()

			config.Log.Debugf("sending message (%d chars)", len(text))

			a.loadingSpinner = spinner.New()
			a.loadingSpinner.Spinner = spinner.Dot
			a.loadingSpinner.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))

			sendCmd := a.dataModel.SendMessage(text)
			a.updateViewportContent(true)

			return a, tea.Batch(sendCmd, a.loadingSpinner.Tick)
		}

		switch msg.String() {
		case "alt+y":
			// Copy last assistant message, raw text
			if conv := a.dataModel.Store.Current(); conv != nil {
				for i := len(conv.Messages) - 1; i >= 0; i-- {
					if conv.Messages[i].Type == storage.MessageAssistant {
						clipboard.WriteAll(conv.Messages[i].Text)
						return a, nil
					}
				}
			}
			return a, nil

		case "alt+b":
			// Copy last code block of the last assistant message
			if raw, ok := a.lastCodeBlock(); ok {
				clipboard.WriteAll(raw)
			}
			return a, nil

		case "alt+c":
			// Copy the whole conversation
			if conv := a.dataModel.Store.Current(); conv != nil {
				var allText strings.Builder
				for _, m := range conv.Messages {
					role := "You"
					if m.Type == storage.MessageAssistant {
						role = "Assistant"
					} else if m.Type == storage.MessageError {
						role = "Error"
					}
					allText.WriteString(fmt.Sprintf("[%s] %s:\n%s\n\n",
						m.Timestamp.Format("15:04"), role, m.Text))
				}
				clipboard.WriteAll(allText.String())
			}
			return a, nil

		case "alt+j", "alt+down":
			a.viewport.HalfPageDown()
			return a, nil

		case "alt+k", "alt+up":
			a.viewport.HalfPageUp()
			return a, nil

		case "alt+J", "pgdown":
			a.viewport.PageDown()
			return a, nil

		case "alt+K", "pgup":
			a.viewport.PageUp()
			return a, nil

		case "alt+g":
			a.viewport.GotoTop()
			return a, nil

		case "alt+G":
			a.viewport.GotoBottom()
			return a, nil
		}

	case streamDeltaMsg, streamToolCallMsg, streamDoneMsg, streamErrorMsg:
		return a.handleStreamingMessage(msg)

	case modelsListMsg:
		if msg.Err != nil {
			config.Log.Warnf("fetching models: %v", msg.Err)
			return a, nil
		}
		a.modelList = msg.Models
		a.modelListCached = true
		return a, nil

	case conversationExportedMsg:
		a.showInfoModal = true
		if msg.Err != nil {
			a.infoModalTitle = "Export Failed"
			a.infoModalMsg = msg.Err.Error()
		} else {
			a.infoModalTitle = "✓ Export Successful"
			a.infoModalMsg = fmt.Sprintf("Exported to:\n%s", msg.Path)
		}
		return a, nil

	case conversationImportedMsg:
		a.showInfoModal = true
		if msg.Err != nil {
			a.infoModalTitle = "Import Failed"
			a.infoModalMsg = msg.Err.Error()
		} else {
			a.infoModalTitle = "✓ Import Successful"
			a.infoModalMsg = fmt.Sprintf("%d conversation(s) added", msg.Added)
			a.refreshConversationList()
		}
		return a, nil

	case globalSearchResultsMsg:
		if msg.Err != nil {
			config.Log.Warnf("global search: %v", msg.Err)
			return a, nil
		}
		if msg.Query != a.globalSearchInput.Value() {
			// Stale result for an older query
			return a, nil
		}
		a.globalSearchResults = msg.Matches
		a.selectedGlobalIdx = 0
		a.globalScrollIdx = 0
		return a, nil
	}

	// Forward remaining messages to the focused components
	if !a.dataModel.Streaming {
		a.textarea, cmd = a.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}
	a.viewport, cmd = a.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return a, tea.Batch(cmds...)
}

// lastCodeBlock returns the raw source of the last fenced code block in
// the most recent assistant message.
func (a AppView) lastCodeBlock() (string, bool) {
	conv := a.dataModel.Store.Current()
	if conv == nil {
		return "", false
	}
	for i := len(conv.Messages) - 1; i >= 0; i-- {
		if conv.Messages[i].Type != storage.MessageAssistant {
			continue
		}
		segments := render.SplitFences(conv.Messages[i].Text)
		for j := len(segments) - 1; j >= 0; j-- {
			if segments[j].Kind == render.SegmentCode {
				return segments[j].Raw, true
			}
		}
		return "", false
	}
	return "", false
}
