package model

import (
	"p2pchat/ollama"
	"p2pchat/storage"
)

type StreamDeltaMsg struct {
	Target StreamTarget
	Text   string
}

type StreamToolCallMsg struct {
	Target StreamTarget
	Names  []string
}

type StreamDoneMsg struct {
	Target       StreamTarget
	FullResponse string
}

type StreamErrorMsg struct {
	Target StreamTarget
	Err    error
}

type ModelsListMsg struct {
	Models []ollama.ModelInfo
	Err    error
}

type ConversationExportedMsg struct {
	Path string
	Err  error
}

type ConversationImportedMsg struct {
	Added int
	Err   error
}

type GlobalSearchResultsMsg struct {
	Query   string
	Matches []storage.MessageMatch
	Err     error
}
