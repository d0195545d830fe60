package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SecurityMethod defines the credential storage method
type SecurityMethod string

const (
	SecurityPlainText SecurityMethod = "plaintext"
	SecuritySSHKey    SecurityMethod = "ssh_key"
)

const (
	credentialsPlainFile     = "credentials.json"
	credentialsEncryptedFile = "credentials.enc"
)

// CredentialStore manages provider API keys, stored either as plain JSON
// or encrypted with an SSH-key-derived AES key.
type CredentialStore struct {
	method      SecurityMethod
	credentials map[string]string // provider type → API key
	cipher      *sshKeyCipher
}

func NewCredentialStore(method SecurityMethod, sshKeyPath string) *CredentialStore {
	store := &CredentialStore{
		method:      method,
		credentials: make(map[string]string),
	}
	if method == SecuritySSHKey {
		store.cipher = newSSHKeyCipher(ExpandPath(sshKeyPath))
	}
	return store
}

// SetPassphrase sets the passphrase for decrypting the SSH key
func (c *CredentialStore) SetPassphrase(passphrase string) {
	if c.cipher != nil {
		c.cipher.SetPassphrase(passphrase)
	}
}

// Load loads credentials from disk based on the configured security method.
// A missing credentials file is not an error; the store starts empty.
func (c *CredentialStore) Load(dataDir string) error {
	switch c.method {
	case SecurityPlainText:
		path := filepath.Join(dataDir, credentialsPlainFile)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read credentials: %w", err)
		}
		return json.Unmarshal(data, &c.credentials)

	case SecuritySSHKey:
		if err := c.cipher.Unlock(); err != nil {
			return err
		}
		path := filepath.Join(dataDir, credentialsEncryptedFile)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read credentials: %w", err)
		}
		plaintext, err := c.cipher.Open(data)
		if err != nil {
			return fmt.Errorf("failed to decrypt credentials: %w", err)
		}
		return json.Unmarshal(plaintext, &c.credentials)

	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

// Save writes credentials to disk based on the configured security method.
func (c *CredentialStore) Save(dataDir string) error {
	data, err := json.MarshalIndent(c.credentials, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal credentials: %w", err)
	}

	switch c.method {
	case SecurityPlainText:
		path := filepath.Join(dataDir, credentialsPlainFile)
		// 0600 - contains API keys
		return os.WriteFile(path, data, 0600)

	case SecuritySSHKey:
		ciphertext, err := c.cipher.Seal(data)
		if err != nil {
			return fmt.Errorf("failed to encrypt credentials: %w", err)
		}
		path := filepath.Join(dataDir, credentialsEncryptedFile)
		return os.WriteFile(path, ciphertext, 0600)

	default:
		return fmt.Errorf("unknown security method: %s", c.method)
	}
}

// GetAPIKey returns the stored API key for a provider. Environment variables
// take precedence so keys never have to touch disk.
func (c *CredentialStore) GetAPIKey(providerType string) string {
	switch providerType {
	case "openai":
		if key := os.Getenv("OPENAI_API_KEY"); key != "" {
			return key
		}
	case "anthropic":
		if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
			return key
		}
	}
	return c.credentials[providerType]
}

// SetAPIKey stores an API key for a provider (in memory until Save).
func (c *CredentialStore) SetAPIKey(providerType, key string) {
	c.credentials[providerType] = key
}
