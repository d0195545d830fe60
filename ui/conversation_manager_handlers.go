package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (a AppView) handleConversationManagerUpdate(msg tea.KeyMsg) (AppView, tea.Cmd) {
	// Delete confirmation takes priority over everything else
	if a.confirmDelete != nil {
		switch msg.String() {
		case "y", "Y":
			id := a.confirmDelete.ID
			a.confirmDelete = nil
			a.dataModel.Store.DeleteConversation(id)
			a.refreshConversationList()
			a.updateViewportContent(true)
		case "n", "N", "esc":
			a.confirmDelete = nil
		}
		return a, nil
	}

	if a.renameMode {
		return a.handleRenameMode(msg)
	}

	if a.importMode {
		return a.handleImportMode(msg)
	}

	if a.convFilterMode {
		return a.handleConvFilterMode(msg)
	}

	switch msg.String() {
	case "esc":
		a.showConversationManager = false
		return a, nil

	case "j", "down":
		if a.selectedConvIdx < len(a.conversationList)-1 {
			a.selectedConvIdx++
		}
		return a, nil

	case "k", "up":
		if a.selectedConvIdx > 0 {
			a.selectedConvIdx--
		}
		return a, nil

	case "enter":
		if a.selectedConvIdx < len(a.conversationList) {
			a.dataModel.Store.LoadConversation(a.conversationList[a.selectedConvIdx].Conversation.ID)
			a.showConversationManager = false
			a.updateViewportContent(true)
		}
		return a, nil

	case "n":
		a.dataModel.Store.CreateConversation()
		a.showConversationManager = false
		a.updateViewportContent(true)
		return a, nil

	case "r":
		if a.selectedConvIdx < len(a.conversationList) {
			a.renameMode = true
			a.renameInput.SetValue(a.conversationList[a.selectedConvIdx].Conversation.Title)
			a.renameInput.CursorEnd()
			a.renameInput.Focus()
			return a, textinput.Blink
		}
		return a, nil

	case "d":
		if a.selectedConvIdx < len(a.conversationList) {
			a.confirmDelete = a.conversationList[a.selectedConvIdx].Conversation
		}
		return a, nil

	case "x":
		return a, a.dataModel.ExportConversations("")

	case "i":
		a.importMode = true
		a.importInput.SetValue("")
		a.importInput.Focus()
		return a, textinput.Blink

	case "/":
		a.convFilterMode = true
		a.convFilterInput.SetValue("")
		a.convFilterInput.Focus()
		a.refreshConversationList()
		return a, textinput.Blink
	}

	return a, nil
}

func (a AppView) handleRenameMode(msg tea.KeyMsg) (AppView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.renameMode = false
		a.renameInput.Blur()
		return a, nil

	case "enter":
		title := a.renameInput.Value()
		if title != "" && a.selectedConvIdx < len(a.conversationList) {
			a.dataModel.Store.RenameConversation(a.conversationList[a.selectedConvIdx].Conversation.ID, title)
			a.refreshConversationList()
		}
		a.renameMode = false
		a.renameInput.Blur()
		return a, nil
	}

	var cmd tea.Cmd
	a.renameInput, cmd = a.renameInput.Update(msg)
	return a, cmd
}

func (a AppView) handleImportMode(msg tea.KeyMsg) (AppView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.importMode = false
		a.importInput.Blur()
		return a, nil

	case "enter":
		path := a.importInput.Value()
		a.importMode = false
		a.importInput.Blur()
		if path == "" {
			return a, nil
		}
		return a, a.dataModel.ImportConversations(path)
	}

	var cmd tea.Cmd
	a.importInput, cmd = a.importInput.Update(msg)
	return a, cmd
}

func (a AppView) handleConvFilterMode(msg tea.KeyMsg) (AppView, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.convFilterMode = false
		a.convFilterInput.Blur()
		a.refreshConversationList()
		return a, nil

	case "enter":
		if a.selectedConvIdx < len(a.conversationList) {
			a.dataModel.Store.LoadConversation(a.conversationList[a.selectedConvIdx].Conversation.ID)
			a.convFilterMode = false
			a.convFilterInput.Blur()
			a.showConversationManager = false
			a.updateViewportContent(true)
		}
		return a, nil

	case "alt+j", "alt+down":
		if a.selectedConvIdx < len(a.conversationList)-1 {
			a.selectedConvIdx++
		}
		return a, nil

	case "alt+k", "alt+up":
		if a.selectedConvIdx > 0 {
			a.selectedConvIdx--
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.convFilterInput, cmd = a.convFilterInput.Update(msg)
	a.refreshConversationList()
	return a, cmd
}
