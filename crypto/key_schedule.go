package crypto

import (
	"crypto/sha256"
	"encoding/binary"
)

// SecretSize is the size in bytes of group and application secrets.
const SecretSize = 32

// Domain separation labels for the two key schedule derivations. The labels
// keep the next-secret chain and the application secret in disjoint hash
// domains even though both hash the same group secret.
var (
	nextSecretLabel        = []byte("mls_next_secret")
	applicationSecretLabel = []byte("mls_application_secret")
)

// DeriveNextSecret advances the group secret chain by one epoch. The
// derivation is a one-way hash, so holding the returned secret reveals
// nothing about its input. Deterministic and safe for concurrent use.
//
//export OpenChatDeriveNextSecret
func DeriveNextSecret(currentSecret []byte) []byte {
	h := sha256.New()
	h.Write(currentSecret)
	h.Write(nextSecretLabel)
	return h.Sum(nil)
}

// DeriveApplicationSecret derives the per-epoch secret protecting message
// payloads. The epoch is mixed in as a fixed-width little-endian integer so
// application secrets never repeat across epochs. Deterministic and safe for
// concurrent use.
//
//export OpenChatDeriveApplicationSecret
func DeriveApplicationSecret(groupSecret []byte, epoch uint64) []byte {
	var epochBytes [8]byte
	binary.LittleEndian.PutUint64(epochBytes[:], epoch)

	h := sha256.New()
	h.Write(groupSecret)
	h.Write(applicationSecretLabel)
	h.Write(epochBytes[:])
	return h.Sum(nil)
}
