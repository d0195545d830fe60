package model

import (
	tea "github.com/charmbracelet/bubbletea"

	"p2pchat/config"
	"p2pchat/storage"
	"p2pchat/tools"
)

// Model holds the core application data and business logic state. It is
// injected into the UI layer rather than living as a package-level
// singleton, so multiple independent chat instances can coexist in tests.
type Model struct {
	Config   *config.Config
	Store    *storage.Store
	Index    *storage.MessageIndex
	Provider Provider
	Tools    *tools.Registry

	// Stream is non-nil while a response is in flight; Streaming gates the
	// compose input so at most one session is active.
	Stream    *Accumulator
	Streaming bool

	streamCh chan tea.Msg

	Quitting bool
	Version  string
}

// NewModel creates a Model with its dependencies.
func NewModel(cfg *config.Config, store *storage.Store, index *storage.MessageIndex, provider Provider, registry *tools.Registry, version string) *Model {
	return &Model{
		Config:   cfg,
		Store:    store,
		Index:    index,
		Provider: provider,
		Tools:    registry,
		Version:  version,
	}
}

// BuildSystemPrompt returns the configured default system prompt.
func (m *Model) BuildSystemPrompt() string {
	return m.Config.DefaultSystemPrompt
}

// EndStream clears the in-flight session state and re-enables input.
func (m *Model) EndStream() {
	m.Stream = nil
	m.Streaming = false
	m.streamCh = nil
}
