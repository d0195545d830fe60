package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	appmodel "p2pchat/model"
	"p2pchat/ollama"
	"p2pchat/storage"
)

type AppView struct {
	// Reference to core data model
	dataModel *appmodel.Model

	// UI components
	viewport viewport.Model
	textarea textarea.Model

	// Window state
	width  int
	height int
	ready  bool

	// Loading spinner shown on the streaming placeholder
	loadingSpinner spinner.Model

	showHelp  bool
	showAbout bool

	// Conversation manager
	showConversationManager bool
	conversationList        []storage.ConversationMatch
	selectedConvIdx         int
	convFilterMode          bool
	convFilterInput         textinput.Model
	renameMode              bool
	renameInput             textinput.Model
	confirmDelete           *storage.Conversation
	importMode              bool
	importInput             textinput.Model

	// Model selector
	showModelSelector bool
	modelList         []ollama.ModelInfo
	filteredModelList []ollama.ModelInfo
	modelListCached   bool
	modelFilterMode   bool
	modelFilterInput  textinput.Model
	selectedModelIdx  int

	// Global search
	showGlobalSearch    bool
	globalSearchInput   textinput.Model
	globalSearchResults []storage.MessageMatch
	selectedGlobalIdx   int
	globalScrollIdx     int

	// Info modal for notifications and errors
	showInfoModal  bool
	infoModalTitle string
	infoModalMsg   string
}

func NewAppView(dataModel *appmodel.Model) AppView {
	ta := textarea.New()
	ta.Placeholder = "Ask about a PO, an invoice hold, payment terms..."
	ta.Focus()
	ta.CharLimit = 0
	ta.ShowLineNumbers = false
	ta.SetHeight(3)
	ta.SetWidth(80)

	// Alt+Enter for newline, plain Enter is handled as send
	ta.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("alt+enter"))

	ta.SetPromptFunc(2, func(lineIdx int) string {
		if lineIdx == 0 {
			return "> "
		}
		return "| "
	})

	vp := viewport.New(0, 0)

	convFilterInput := textinput.New()
	convFilterInput.Prompt = "Filter: "
	convFilterInput.CharLimit = 64

	renameInput := textinput.New()
	renameInput.Prompt = "Title: "
	renameInput.CharLimit = 100

	importInput := textinput.New()
	importInput.Prompt = "Import from: "
	importInput.CharLimit = 200

	modelFilterInput := textinput.New()
	modelFilterInput.Prompt = "Filter: "
	modelFilterInput.CharLimit = 64

	globalSearchInput := textinput.New()
	globalSearchInput.Prompt = "Search all: "
	globalSearchInput.CharLimit = 100

	return AppView{
		dataModel:         dataModel,
		textarea:          ta,
		viewport:          vp,
		convFilterInput:   convFilterInput,
		renameInput:       renameInput,
		importInput:       importInput,
		modelFilterInput:  modelFilterInput,
		globalSearchInput: globalSearchInput,
	}
}

func (a AppView) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		a.dataModel.FetchModelList(),
	)
}

func (a AppView) View() string {
	if !a.ready {
		return "Loading p2pchat..."
	}

	// Modal rendering order, top layer first
	if a.showInfoModal {
		return RenderAcknowledgeModal(a.infoModalTitle, a.infoModalMsg, a.width, a.height)
	}

	if a.showHelp {
		return renderHelpModal(a.width, a.height)
	}

	if a.showModelSelector {
		return renderModelSelector(a.getModelList(), a.selectedModelIdx, a.dataModel.Provider.GetModel(), a.modelFilterMode, a.modelFilterInput, a.width, a.height)
	}

	if a.showConversationManager {
		return a.renderConversationManager()
	}

	if a.showGlobalSearch {
		return renderGlobalSearch(a.globalSearchInput, a.globalSearchResults, a.selectedGlobalIdx, a.globalScrollIdx, a.width, a.height)
	}

	if a.showAbout {
		return renderAboutModal(a.width, a.height, a.dataModel.Version)
	}

	// Title bar - "p2pchat - model - conversation title"
	appText := AssistantStyle.Render("p2pchat")
	modelText := TitleStyle.Render(fmt.Sprintf(" - %s", a.dataModel.Provider.GetModel()))
	convTitle := storage.DefaultTitle
	if conv := a.dataModel.Store.Current(); conv != nil {
		convTitle = conv.Title
	}
	convText := UserStyle.Render(fmt.Sprintf(" - %s", convTitle))
	title := appText + modelText + convText

	descStyle := lipgloss.NewStyle().Foreground(successColor).Bold(true)
	statusBar := fmt.Sprintf("Alt+Q %s  Alt+S %s  Alt+M %s  Alt+F %s  Alt+N %s  Alt+Enter %s  Enter %s  Alt+Y %s",
		descStyle.Render("Quit"),
		descStyle.Render("Conversations"),
		descStyle.Render("Models"),
		descStyle.Render("Search"),
		descStyle.Render("New"),
		descStyle.Render("New Line"),
		descStyle.Render("Send"),
		descStyle.Render("Copy"),
	)
	statusBar = StatusStyle.Render(statusBar)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		a.viewport.View(),
		a.textarea.View(),
		statusBar,
	)
}

func (a AppView) getModelList() []ollama.ModelInfo {
	if a.modelFilterMode && len(a.filteredModelList) > 0 {
		return a.filteredModelList
	}
	return a.modelList
}

// refreshConversationList rebuilds the manager list from the store,
// applying the active filter query.
func (a *AppView) refreshConversationList() {
	query := ""
	if a.convFilterMode {
		query = a.convFilterInput.Value()
	}
	a.conversationList = a.dataModel.Store.FilterConversations(query)
	if a.selectedConvIdx >= len(a.conversationList) {
		a.selectedConvIdx = len(a.conversationList) - 1
	}
	if a.selectedConvIdx < 0 {
		a.selectedConvIdx = 0
	}
}

func (a *AppView) closeAllModals() {
	a.showInfoModal = false
	a.showHelp = false
	a.showAbout = false
	a.showConversationManager = false
	a.showModelSelector = false
	a.showGlobalSearch = false

	a.renameMode = false
	a.convFilterMode = false
	a.importMode = false
	a.confirmDelete = nil
	a.modelFilterMode = false

	if a.renameInput.Focused() {
		a.renameInput.Blur()
	}
	if a.convFilterInput.Focused() {
		a.convFilterInput.Blur()
	}
	if a.importInput.Focused() {
		a.importInput.Blur()
	}
	if a.modelFilterInput.Focused() {
		a.modelFilterInput.Blur()
	}
	if a.globalSearchInput.Focused() {
		a.globalSearchInput.Blur()
	}
}
