package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadUserConfigDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}
	if cfg.Provider.Type != "ollama" {
		t.Errorf("provider type: got %q, want %q", cfg.Provider.Type, "ollama")
	}
	if cfg.Provider.BaseURL != "http://localhost:11434" {
		t.Errorf("base url: got %q, want %q", cfg.Provider.BaseURL, "http://localhost:11434")
	}
	if !cfg.ToolsEnabled {
		t.Error("tools not enabled by default")
	}
	if cfg.Security.Method != "plaintext" {
		t.Errorf("security method: got %q, want %q", cfg.Security.Method, "plaintext")
	}

	// First load writes a commented template for the user to edit.
	if !FileExists(filepath.Join(dataDir, "config.toml")) {
		t.Error("default user config file not created")
	}
}

func TestUserConfigRoundTrip(t *testing.T) {
	dataDir := t.TempDir()

	in := DefaultUserConfig()
	in.Provider.Type = "anthropic"
	in.Provider.Model = "claude-sonnet-4-5"
	in.DefaultSystemPrompt = "You assist procure-to-pay analysts."
	in.Security.Method = "ssh_key"
	in.Security.SSHKeyPath = "~/.ssh/id_ed25519"

	if err := SaveUserConfig(in, dataDir); err != nil {
		t.Fatalf("SaveUserConfig failed: %v", err)
	}

	out, err := LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}
	if out.Provider.Type != in.Provider.Type {
		t.Errorf("provider type: got %q, want %q", out.Provider.Type, in.Provider.Type)
	}
	if out.Provider.Model != in.Provider.Model {
		t.Errorf("model: got %q, want %q", out.Provider.Model, in.Provider.Model)
	}
	if out.DefaultSystemPrompt != in.DefaultSystemPrompt {
		t.Errorf("system prompt: got %q, want %q", out.DefaultSystemPrompt, in.DefaultSystemPrompt)
	}
	if out.Security.Method != in.Security.Method {
		t.Errorf("security method: got %q, want %q", out.Security.Method, in.Security.Method)
	}
}

func TestEnvOverrides(t *testing.T) {
	tests := []struct {
		name   string
		envKey string
		envVal string
		check  func(c *Config) string
	}{
		{
			name:   "data dir",
			envKey: "P2PCHAT_DATA_DIR",
			envVal: "/tmp/elsewhere",
			check:  func(c *Config) string { return c.DataDirectory },
		},
		{
			name:   "provider",
			envKey: "P2PCHAT_PROVIDER",
			envVal: "openai",
			check:  func(c *Config) string { return c.ProviderType },
		},
		{
			name:   "provider url",
			envKey: "P2PCHAT_PROVIDER_URL",
			envVal: "http://gateway:8080",
			check:  func(c *Config) string { return c.ProviderURL },
		},
		{
			name:   "model",
			envKey: "P2PCHAT_MODEL",
			envVal: "qwen2.5:7b",
			check:  func(c *Config) string { return c.DefaultModel },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.envKey, tt.envVal)

			cfg := &Config{
				DataDirectory: "/tmp/original",
				ProviderType:  "ollama",
				ProviderURL:   "http://localhost:11434",
				DefaultModel:  "llama3.1:latest",
			}
			cfg.applyEnvOverrides()

			if got := tt.check(cfg); got != tt.envVal {
				t.Errorf("got %q, want %q", got, tt.envVal)
			}
		})
	}
}

func TestEnvOverridesIgnoreEmptyValues(t *testing.T) {
	t.Setenv("P2PCHAT_PROVIDER", "")

	cfg := &Config{ProviderType: "ollama"}
	cfg.applyEnvOverrides()

	if cfg.ProviderType != "ollama" {
		t.Errorf("provider type: got %q, want %q", cfg.ProviderType, "ollama")
	}
}

func TestExpandPath(t *testing.T) {
	home := os.Getenv("HOME")
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "tilde", input: "~/.local/share/p2pchat", expected: filepath.Join(home, ".local", "share", "p2pchat")},
		{name: "absolute untouched", input: "/var/lib/p2pchat", expected: "/var/lib/p2pchat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.input); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTruncatedUserConfigKeepsDefaults(t *testing.T) {
	dataDir := t.TempDir()
	partial := "[provider]\ntype = \"openai\"\n"
	if err := os.WriteFile(filepath.Join(dataDir, "config.toml"), []byte(partial), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadUserConfig(dataDir)
	if err != nil {
		t.Fatalf("LoadUserConfig failed: %v", err)
	}
	if cfg.Provider.Type != "openai" {
		t.Errorf("provider type: got %q, want %q", cfg.Provider.Type, "openai")
	}
	// Fields absent from the file keep their defaults.
	if cfg.Provider.BaseURL != "http://localhost:11434" {
		t.Errorf("base url: got %q, want %q", cfg.Provider.BaseURL, "http://localhost:11434")
	}
}
