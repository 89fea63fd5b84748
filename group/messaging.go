package group

import (
	"encoding/binary"
	"fmt"

	"github.com/DavidGershony/openChat/crypto"
)

// messageAAD builds the additional data authenticated with every message:
// group ID, epoch and sender identity. A message moved to another group,
// epoch or sender fails authentication.
func messageAAD(groupID []byte, epoch uint64, sender string) []byte {
	aad := make([]byte, 0, len(groupID)+8+len(sender))
	aad = append(aad, groupID...)
	aad = binary.LittleEndian.AppendUint64(aad, epoch)
	aad = append(aad, sender...)
	return aad
}

// EncryptMessage seals an application payload under the current epoch's
// application secret and wraps it with the sender identity and epoch. Fails
// with ErrNotMember if the sender is not a current member. Encryption never
// mutates group state.
//
//export OpenChatGroupEncryptMessage
func (g *Group) EncryptMessage(plaintext, senderIdentity string) (*EncryptedMessage, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if !containsMember(g.members, senderIdentity) {
		return nil, fmt.Errorf("%w: %q", ErrNotMember, senderIdentity)
	}

	aad := messageAAD(g.id, g.epoch, senderIdentity)
	ciphertext, err := crypto.EncryptPayload(g.applicationSecret, []byte(plaintext), aad)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}

	return &EncryptedMessage{
		SenderPublicKey: senderIdentity,
		Epoch:           g.epoch,
		Ciphertext:      ciphertext,
	}, nil
}

// DecryptMessage opens a received message envelope against the current
// epoch's application secret and returns the sender identity, the plaintext
// and the epoch the message was sealed at. Fails with ErrNotMember if the
// sender is not a current member, and with ErrInvalidState if the message
// was sealed at a different epoch than the group's current one. Old-epoch
// secrets are gone by construction, so such messages are undecryptable here.
//
//export OpenChatGroupDecryptMessage
func (g *Group) DecryptMessage(msg *EncryptedMessage) (string, string, uint64, error) {
	if msg == nil {
		return "", "", 0, fmt.Errorf("%w: nil message", ErrSerialization)
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	if !containsMember(g.members, msg.SenderPublicKey) {
		return "", "", 0, fmt.Errorf("%w: %q", ErrNotMember, msg.SenderPublicKey)
	}
	if msg.Epoch != g.epoch {
		return "", "", 0, fmt.Errorf("%w: message epoch %d does not match current epoch %d", ErrInvalidState, msg.Epoch, g.epoch)
	}

	aad := messageAAD(g.id, msg.Epoch, msg.SenderPublicKey)
	plaintext, err := crypto.DecryptPayload(g.applicationSecret, msg.Ciphertext, aad)
	if err != nil {
		return "", "", 0, fmt.Errorf("%w: %v", ErrCrypto, err)
	}

	return msg.SenderPublicKey, string(plaintext), msg.Epoch, nil
}
