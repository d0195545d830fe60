package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/p2pchat",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Provider: ProviderConfig{
			Type:    "ollama",
			BaseURL: "http://localhost:11434",
			Model:   "llama3.1:latest",
		},
		ToolsEnabled: true,
		Security: SecurityConfig{
			Method: "plaintext",
		},
	}
}

func GenerateSystemConfigTemplate() string {
	return `# P2PChat System Configuration
# Location: ~/.config/p2pchat/settings.toml
# This file uses TOML format: https://toml.io

# Directory where conversations and user config are stored
data_directory = "~/.local/share/p2pchat"
`
}

func GenerateUserConfigTemplate() string {
	return `# P2PChat User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

[provider]
# Provider backing the assistant: "ollama", "openai" or "anthropic"
type = "ollama"

# Provider base URL (Ollama server, or a compatible API gateway)
base_url = "http://localhost:11434"

# Default model for new conversations
model = "llama3.1:latest"

# Default system prompt for new conversations (optional)
# Example: "You are an assistant for procure-to-pay analysts."
default_system_prompt = ""

# Built-in tools (procure-to-pay glossary lookup, current date)
tools_enabled = true

[security]
# Credential storage: "plaintext" or "ssh_key"
method = "plaintext"

# SSH private key used to derive the encryption key (ssh_key method only)
# ssh_key_path = "~/.ssh/id_ed25519"
`
}
