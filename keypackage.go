package openchat

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DavidGershony/openChat/crypto"
	"github.com/DavidGershony/openChat/group"
)

// KeyPackage advertises a member's public key for group invitations. A
// prospective member publishes one; whoever adds them uses it to seal the
// welcome secret so only that member can open it.
//
//export OpenChatKeyPackage
type KeyPackage struct {
	PublicKey string `json:"public_key"`
	CreatedAt int64  `json:"created_at"`
}

// GenerateKeyPackage returns this client's serialized key package.
//
//export OpenChatGenerateKeyPackage
func (c *Client) GenerateKeyPackage() ([]byte, error) {
	kp := KeyPackage{
		PublicKey: c.SelfIdentity(),
		CreatedAt: time.Now().Unix(),
	}

	data, err := json.Marshal(&kp)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", group.ErrSerialization, err)
	}
	return data, nil
}

// ParseKeyPackage deserializes and validates a key package, returning the
// advertised public key.
func ParseKeyPackage(data []byte) (*KeyPackage, [32]byte, error) {
	var kp KeyPackage
	var publicKey [32]byte

	if err := json.Unmarshal(data, &kp); err != nil {
		return nil, publicKey, fmt.Errorf("%w: invalid key package: %v", group.ErrSerialization, err)
	}

	raw, err := hex.DecodeString(kp.PublicKey)
	if err != nil || len(raw) != 32 {
		return nil, publicKey, fmt.Errorf("%w: key package holds no valid public key", group.ErrInvalidKey)
	}
	copy(publicKey[:], raw)

	return &kp, publicKey, nil
}

// AddMemberSealed adds the member advertised by a key package, returning
// serialized Welcome bytes whose group secret is encrypted to the joiner's
// public key. Unlike AddMember, the welcome can safely traverse an
// untrusted channel: only the key package holder can recover the secret.
//
//export OpenChatAddMemberSealed
func (c *Client) AddMemberSealed(groupID, keyPackageData []byte) ([]byte, error) {
	g, err := c.Group(groupID)
	if err != nil {
		return nil, err
	}

	kp, publicKey, err := ParseKeyPackage(keyPackageData)
	if err != nil {
		return nil, err
	}

	welcome, err := g.AddMember(kp.PublicKey)
	if err != nil {
		return nil, err
	}

	sealed, err := crypto.SealToPublicKey(publicKey, welcome.GroupSecrets)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", group.ErrCrypto, err)
	}
	crypto.ZeroBytes(welcome.GroupSecrets)
	welcome.GroupSecrets = nil
	welcome.EncryptedGroupInfo = sealed

	return welcome.Marshal()
}

// JoinGroupSealed joins a group from a sealed Welcome produced by
// AddMemberSealed, unsealing the group secret with this client's key pair.
//
//export OpenChatJoinGroupSealed
func (c *Client) JoinGroupSealed(welcomeData []byte) (*group.Group, error) {
	welcome, err := group.ParseWelcome(welcomeData)
	if err != nil {
		return nil, err
	}

	secret, err := crypto.OpenSealed(c.keyPair, welcome.EncryptedGroupInfo)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", group.ErrCrypto, err)
	}
	welcome.GroupSecrets = secret

	g, err := group.FromWelcome(welcome, c.SelfIdentity())
	if err != nil {
		crypto.ZeroBytes(secret)
		return nil, err
	}

	c.mu.Lock()
	c.groups[groupKey(g.ID())] = g
	c.mu.Unlock()

	return g, nil
}
