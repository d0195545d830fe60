package config

import (
	"fmt"
	"os"
)

type SystemConfig struct {
	DataDirectory string `toml:"data_directory"`
}

type ProviderConfig struct {
	Type    string `toml:"type"`
	BaseURL string `toml:"base_url,omitempty"`
	Model   string `toml:"model,omitempty"`
}

type SecurityConfig struct {
	Method     string `toml:"method"`
	SSHKeyPath string `toml:"ssh_key_path,omitempty"`
}

type UserConfig struct {
	Provider            ProviderConfig `toml:"provider"`
	DefaultSystemPrompt string         `toml:"default_system_prompt,omitempty"`
	ToolsEnabled        bool           `toml:"tools_enabled"`
	Security            SecurityConfig `toml:"security"`
}

// Config is the flattened runtime view of system + user configuration.
type Config struct {
	DataDirectory       string
	ProviderType        string
	ProviderURL         string
	DefaultModel        string
	DefaultSystemPrompt string
	ToolsEnabled        bool
	SecurityMethod      string
	SSHKeyPath          string
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

func (c *Config) applyEnvOverrides() {
	if dataDir := os.Getenv("P2PCHAT_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if provider := os.Getenv("P2PCHAT_PROVIDER"); provider != "" {
		c.ProviderType = provider
	}
	if host := os.Getenv("P2PCHAT_PROVIDER_URL"); host != "" {
		c.ProviderURL = host
	}
	if model := os.Getenv("P2PCHAT_MODEL"); model != "" {
		c.DefaultModel = model
	}
}

// Load reads the system config, then the user config from the data
// directory, flattens both and applies environment overrides.
func Load() (*Config, error) {
	sysCfg, err := LoadSystemConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load system config: %w", err)
	}

	cfg := &Config{
		DataDirectory: sysCfg.DataDirectory,
	}

	// Env override for the data dir has to land before the user config
	// is read, since the user config lives inside the data dir.
	if dataDir := os.Getenv("P2PCHAT_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
	}

	dataDir := cfg.DataDir()
	if err := EnsureDataDirPermissions(dataDir); err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	userCfg, err := LoadUserConfig(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load user config: %w", err)
	}

	cfg.ProviderType = userCfg.Provider.Type
	cfg.ProviderURL = userCfg.Provider.BaseURL
	cfg.DefaultModel = userCfg.Provider.Model
	cfg.DefaultSystemPrompt = userCfg.DefaultSystemPrompt
	cfg.ToolsEnabled = userCfg.ToolsEnabled
	cfg.SecurityMethod = userCfg.Security.Method
	cfg.SSHKeyPath = userCfg.Security.SSHKeyPath

	cfg.applyEnvOverrides()

	return cfg, nil
}
