package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"p2pchat/config"
	"p2pchat/model"
	"p2pchat/provider"
	"p2pchat/storage"
	"p2pchat/tools"
	"p2pchat/ui"
)

const Version = "v0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	config.InitLog(cfg.DataDir())
	defer config.SyncLog()

	store, err := storage.Open(cfg.DataDir())
	if err != nil {
		fmt.Printf("Failed to open conversation storage: %v\n", err)
		os.Exit(1)
	}

	index, err := storage.NewMessageIndex(cfg.DataDir())
	if err != nil {
		// Global search degrades, chat still works
		config.Log.Warnf("message index unavailable: %v", err)
	} else {
		store.SetIndex(index)
		defer index.Close()
	}

	creds := config.NewCredentialStore(config.SecurityMethod(cfg.SecurityMethod), cfg.SSHKeyPath)
	if err := creds.Load(cfg.DataDir()); err != nil {
		config.Log.Warnf("loading credentials: %v", err)
	}

	prov, err := provider.NewProvider(provider.Config{
		Type:    provider.TypeFromID(cfg.ProviderType),
		BaseURL: cfg.ProviderURL,
		Model:   cfg.DefaultModel,
		APIKey:  creds.GetAPIKey(cfg.ProviderType),
	})
	if err != nil {
		fmt.Printf("Failed to initialize provider %q: %v\n", cfg.ProviderType, err)
		os.Exit(1)
	}

	dataModel := model.NewModel(cfg, store, index, prov, tools.NewRegistry(), Version)

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running p2pchat: %v\n", err)
		os.Exit(1)
	}
}
