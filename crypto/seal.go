package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/flynn/noise"
	"github.com/sirupsen/logrus"
)

// sealSuite is the Noise cipher suite used for sealing welcome secrets:
// Noise_N_25519_ChaChaPoly_SHA256. The one-way N pattern encrypts a single
// message to a known static public key using an ephemeral sender key, so the
// recipient needs no prior interaction with the sender.
var sealSuite = noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashSHA256)

// SealToPublicKey encrypts plaintext so that only the holder of the private
// half of recipientPublicKey can read it.
//
//export OpenChatSealToPublicKey
func SealToPublicKey(recipientPublicKey [32]byte, plaintext []byte) ([]byte, error) {
	if isZeroKey(recipientPublicKey) {
		return nil, errors.New("invalid recipient key: all zeros")
	}

	hs, err := noise.NewHandshakeState(noise.Config{
		CipherSuite: sealSuite,
		Random:      rand.Reader,
		Pattern:     noise.HandshakeN,
		Initiator:   true,
		PeerStatic:  recipientPublicKey[:],
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create handshake state: %w", err)
	}

	sealed, _, _, err := hs.WriteMessage(nil, plaintext)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "SealToPublicKey",
			"error":    err.Error(),
		}).Error("Sealing failed")
		return nil, fmt.Errorf("failed to seal payload: %w", err)
	}

	return sealed, nil
}

// OpenSealed decrypts a payload produced by SealToPublicKey using the
// recipient's key pair.
//
//export OpenChatOpenSealed
func OpenSealed(recipient *KeyPair, sealed []byte) ([]byte, error) {
	if recipient == nil {
		return nil, errors.New("recipient key pair cannot be nil")
	}
	if len(sealed) == 0 {
		return nil, errors.New("empty sealed payload")
	}

	hs, err := noise.NewHandshakeState(noise.Config{
		CipherSuite: sealSuite,
		Random:      rand.Reader,
		Pattern:     noise.HandshakeN,
		Initiator:   false,
		StaticKeypair: noise.DHKey{
			Private: recipient.Private[:],
			Public:  recipient.Public[:],
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create handshake state: %w", err)
	}

	plaintext, _, _, err := hs.ReadMessage(nil, sealed)
	if err != nil {
		return nil, errors.New("unsealing failed: payload not addressed to this key")
	}

	return plaintext, nil
}
