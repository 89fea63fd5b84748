package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Maximum message size (1MB to prevent excessive memory usage)
const MaxMessageSize = 1024 * 1024

// messageKeyInfo is the HKDF info label separating message keys from every
// other use of the application secret.
var messageKeyInfo = []byte("openchat/message-key")

// deriveMessageKey expands the application secret into a fresh AEAD key.
func deriveMessageKey(applicationSecret []byte) ([]byte, error) {
	key := make([]byte, chacha20poly1305.KeySize)
	r := hkdf.New(sha256.New, applicationSecret, nil, messageKeyInfo)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("message key derivation failed: %w", err)
	}
	return key, nil
}

// EncryptPayload seals plaintext under the current epoch's application
// secret using ChaCha20-Poly1305. The random nonce is prepended to the
// returned ciphertext. The additional data is authenticated but not
// encrypted; decryption fails if it differs.
//
//export OpenChatEncryptPayload
func EncryptPayload(applicationSecret, plaintext, additionalData []byte) ([]byte, error) {
	if len(plaintext) > MaxMessageSize {
		return nil, errors.New("message too large")
	}

	key, err := deriveMessageKey(applicationSecret)
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "EncryptPayload",
			"error":    err.Error(),
		}).Error("Nonce generation failed")
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, plaintext, additionalData)
	return sealed, nil
}

// DecryptPayload reverses EncryptPayload. It expects the nonce prepended to
// the ciphertext and the same additional data the sender authenticated.
//
//export OpenChatDecryptPayload
func DecryptPayload(applicationSecret, sealed, additionalData []byte) ([]byte, error) {
	if len(sealed) < chacha20poly1305.NonceSize+chacha20poly1305.Overhead {
		return nil, errors.New("ciphertext too short")
	}

	key, err := deriveMessageKey(applicationSecret)
	if err != nil {
		return nil, err
	}
	defer ZeroBytes(key)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}

	nonce := sealed[:chacha20poly1305.NonceSize]
	plaintext, err := aead.Open(nil, nonce, sealed[chacha20poly1305.NonceSize:], additionalData)
	if err != nil {
		return nil, errors.New("decryption failed: message authentication failed")
	}

	return plaintext, nil
}
