package config

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/ssh"
)

// derivationTag is the fixed message signed during key derivation. Changing
// it invalidates every existing credentials.enc.
const derivationTag = "p2pchat-credentials-key-v1"

// sshKeyCipher seals and opens small payloads with AES-256-GCM. The key is
// never stored: Unlock rederives it by signing a fixed message with the
// user's SSH key, so the same key file always unlocks the same data.
type sshKeyCipher struct {
	keyPath    string
	passphrase string
	aead       cipher.AEAD
}

func newSSHKeyCipher(keyPath string) *sshKeyCipher {
	return &sshKeyCipher{keyPath: keyPath}
}

// SetPassphrase sets the passphrase for decrypting the SSH key itself.
func (c *sshKeyCipher) SetPassphrase(passphrase string) {
	c.passphrase = passphrase
}

// Unlock loads the SSH key and derives the AEAD. Must be called before Seal
// or Open.
func (c *sshKeyCipher) Unlock() error {
	encrypted, err := IsSSHKeyEncrypted(c.keyPath)
	if err != nil {
		return fmt.Errorf("failed to check SSH key: %w", err)
	}
	if encrypted && c.passphrase == "" {
		return fmt.Errorf("SSH key is encrypted - passphrase required")
	}

	var signer ssh.Signer
	if encrypted {
		signer, err = LoadSSHPrivateKeyWithPassphrase(c.keyPath, c.passphrase)
	} else {
		signer, err = LoadSSHPrivateKey(c.keyPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load SSH key: %w", err)
	}

	// ed25519 and RSA signatures over a fixed message are deterministic, so
	// the hash of the signature blob is a stable 32-byte key.
	sig, err := signer.Sign(rand.Reader, []byte(derivationTag))
	if err != nil {
		return fmt.Errorf("failed to derive encryption key: %w", err)
	}
	key := sha256.Sum256(sig.Blob)

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return err
	}
	c.aead, err = cipher.NewGCM(block)
	return err
}

// Seal encrypts plaintext as [nonce][ciphertext+tag].
func (c *sshKeyCipher) Seal(plaintext []byte) ([]byte, error) {
	if c.aead == nil {
		return nil, fmt.Errorf("cipher not unlocked")
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return c.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a payload produced by Seal.
func (c *sshKeyCipher) Open(sealed []byte) ([]byte, error) {
	if c.aead == nil {
		return nil, fmt.Errorf("cipher not unlocked")
	}
	if len(sealed) < c.aead.NonceSize() {
		return nil, fmt.Errorf("payload too short")
	}
	nonce, box := sealed[:c.aead.NonceSize()], sealed[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, box, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed: %w", err)
	}
	return plaintext, nil
}
