package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"p2pchat/storage"
)

// ExportConversations writes the full conversation set to path (a default
// Downloads path when empty).
func (m *Model) ExportConversations(path string) tea.Cmd {
	store := m.Store
	return func() tea.Msg {
		exportPath := path
		if exportPath == "" {
			exportPath = storage.GenerateExportPath()
		}
		err := store.Export(exportPath)
		return ConversationExportedMsg{Path: exportPath, Err: err}
	}
}

// ImportConversations merges an envelope file into the store. Existing
// conversations always win; a structurally invalid file aborts the whole
// import.
func (m *Model) ImportConversations(path string) tea.Cmd {
	store := m.Store
	return func() tea.Msg {
		added, err := store.Import(path)
		return ConversationImportedMsg{Added: added, Err: err}
	}
}

// GlobalSearch queries the message index across all conversations.
func (m *Model) GlobalSearch(query string) tea.Cmd {
	index := m.Index
	return func() tea.Msg {
		if index == nil {
			return GlobalSearchResultsMsg{Query: query}
		}
		matches, err := index.Search(query)
		return GlobalSearchResultsMsg{Query: query, Matches: matches, Err: err}
	}
}
