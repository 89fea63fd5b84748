package openchat

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/DavidGershony/openChat/crypto"
	"github.com/DavidGershony/openChat/group"
)

// SaveDataType specifies the type of saved data handed to New.
type SaveDataType uint8

const (
	// SaveDataTypeNone starts with a fresh identity and no groups.
	SaveDataTypeNone SaveDataType = iota
	// SaveDataTypeClientSave restores a full client from GetSavedata output.
	SaveDataTypeClientSave
	// SaveDataTypeSecretKey restores only the identity from a 32-byte
	// secret key.
	SaveDataTypeSecretKey
)

// Options contains configuration options for creating a Client.
//
//export OpenChatOptions
type Options struct {
	SavedataType SaveDataType
	SavedataData []byte
}

// NewOptions creates a new default Options.
//
//export OpenChatOptionsNew
func NewOptions() *Options {
	return &Options{
		SavedataType: SaveDataTypeNone,
	}
}

// SaveData represents the serializable state of a Client: the identity key
// pair and the exported state of every group. Treat it as secret material.
type SaveData struct {
	SecretKey [32]byte `json:"secret_key"`
	PublicKey [32]byte `json:"public_key"`
	Groups    [][]byte `json:"groups"`
	Timestamp int64    `json:"timestamp"`
}

// Serialize converts SaveData to a byte slice using JSON.
func (s *SaveData) Serialize() []byte {
	data, _ := json.Marshal(s)
	return data
}

// LoadSaveData deserializes a byte slice into SaveData.
func LoadSaveData(data []byte) (*SaveData, error) {
	var saveData SaveData
	if err := json.Unmarshal(data, &saveData); err != nil {
		return nil, fmt.Errorf("%w: invalid savedata: %v", group.ErrSerialization, err)
	}
	return &saveData, nil
}

// Client is a participant's session: one identity key pair and the groups it
// belongs to, keyed by group ID.
//
//export OpenChatClient
type Client struct {
	options *Options
	keyPair *crypto.KeyPair

	groups map[string]*group.Group
	mu     sync.RWMutex
}

// New creates a new Client with the given options, generating a fresh
// identity unless savedata restores one.
//
//export OpenChatNew
func New(options *Options) (*Client, error) {
	if options == nil {
		options = NewOptions()
	}

	c := &Client{
		options: options,
		groups:  make(map[string]*group.Group),
	}

	switch options.SavedataType {
	case SaveDataTypeSecretKey:
		if len(options.SavedataData) != 32 {
			return nil, fmt.Errorf("%w: secret key savedata must be 32 bytes", group.ErrInvalidKey)
		}
		var secretKey [32]byte
		copy(secretKey[:], options.SavedataData)
		keyPair, err := crypto.FromSecretKey(secretKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", group.ErrInvalidKey, err)
		}
		c.keyPair = keyPair

	case SaveDataTypeClientSave:
		if err := c.loadFromSaveData(options.SavedataData); err != nil {
			return nil, err
		}

	default:
		keyPair, err := crypto.GenerateKeyPair()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", group.ErrCrypto, err)
		}
		c.keyPair = keyPair
	}

	logrus.WithFields(logrus.Fields{
		"function":    "New",
		"public_key":  fmt.Sprintf("%x", c.keyPair.Public[:8]),
		"group_count": len(c.groups),
	}).Info("Client created")

	return c, nil
}

// loadFromSaveData restores identity and groups from GetSavedata output.
func (c *Client) loadFromSaveData(data []byte) error {
	saveData, err := LoadSaveData(data)
	if err != nil {
		return err
	}

	keyPair, err := crypto.FromSecretKey(saveData.SecretKey)
	if err != nil {
		return fmt.Errorf("%w: %v", group.ErrInvalidKey, err)
	}
	c.keyPair = keyPair

	for _, state := range saveData.Groups {
		g, err := group.ImportState(state)
		if err != nil {
			return err
		}
		c.groups[groupKey(g.ID())] = g
	}

	return nil
}

// GetSavedata returns the current client state as a byte slice for
// persistence. The output restores a fully equivalent client through
// Options.SavedataType = SaveDataTypeClientSave.
//
//export OpenChatGetSavedata
func (c *Client) GetSavedata() []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	saveData := &SaveData{
		SecretKey: c.keyPair.Private,
		PublicKey: c.keyPair.Public,
		Groups:    make([][]byte, 0, len(c.groups)),
		Timestamp: time.Now().Unix(),
	}

	for _, g := range c.groups {
		state, err := g.ExportState()
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "GetSavedata",
				"error":    err.Error(),
			}).Error("Failed to export group state")
			continue
		}
		saveData.Groups = append(saveData.Groups, state)
	}

	return saveData.Serialize()
}

// SelfIdentity returns the hex-encoded public key identifying this client
// in group member lists.
//
//export OpenChatSelfIdentity
func (c *Client) SelfIdentity() string {
	return hex.EncodeToString(c.keyPair.Public[:])
}

// PublicKey returns the client's public key.
func (c *Client) PublicKey() [32]byte {
	return c.keyPair.Public
}

// CreateGroup creates a new group with this client as sole member and
// registers it with the client.
//
//export OpenChatCreateGroup
func (c *Client) CreateGroup(name string) (*group.Group, error) {
	g, err := group.Create(name, c.SelfIdentity())
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.groups[groupKey(g.ID())] = g
	c.mu.Unlock()

	return g, nil
}

// JoinGroup joins a group from serialized Welcome bytes and registers it.
//
//export OpenChatJoinGroup
func (c *Client) JoinGroup(welcomeData []byte) (*group.Group, error) {
	welcome, err := group.ParseWelcome(welcomeData)
	if err != nil {
		return nil, err
	}

	g, err := group.FromWelcome(welcome, c.SelfIdentity())
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.groups[groupKey(g.ID())] = g
	c.mu.Unlock()

	return g, nil
}

// Group returns the registered group with the given ID.
//
//export OpenChatGetGroup
func (c *Client) Group(groupID []byte) (*group.Group, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	g, ok := c.groups[groupKey(groupID)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", group.ErrGroupNotFound, hex.EncodeToString(groupID))
	}
	return g, nil
}

// GroupIDs returns the IDs of all registered groups.
func (c *Client) GroupIDs() [][]byte {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ids := make([][]byte, 0, len(c.groups))
	for _, g := range c.groups {
		ids = append(ids, g.ID())
	}
	return ids
}

// AddMember adds an identity to a group, returning serialized Welcome bytes
// for delivery to the new member. The welcome carries the raw epoch secret;
// use AddMemberSealed when the joiner published a key package.
//
//export OpenChatAddMember
func (c *Client) AddMember(groupID []byte, identity string) ([]byte, error) {
	g, err := c.Group(groupID)
	if err != nil {
		return nil, err
	}

	welcome, err := g.AddMember(identity)
	if err != nil {
		return nil, err
	}
	return welcome.Marshal()
}

// RemoveMember removes an identity from a group, returning serialized
// Commit bytes for delivery to the remaining members.
//
//export OpenChatRemoveMember
func (c *Client) RemoveMember(groupID []byte, identity string) ([]byte, error) {
	g, err := c.Group(groupID)
	if err != nil {
		return nil, err
	}

	commit, err := g.RemoveMember(identity)
	if err != nil {
		return nil, err
	}
	return commit.Marshal()
}

// UpdateKeys advances a group's keys for forward secrecy, returning
// serialized Commit bytes for delivery to the other members.
//
//export OpenChatUpdateKeys
func (c *Client) UpdateKeys(groupID []byte) ([]byte, error) {
	g, err := c.Group(groupID)
	if err != nil {
		return nil, err
	}

	commit, err := g.UpdateKeys()
	if err != nil {
		return nil, err
	}
	return commit.Marshal()
}

// ProcessCommit applies serialized Commit bytes received from another
// member to the targeted group.
//
//export OpenChatProcessCommit
func (c *Client) ProcessCommit(groupID, commitData []byte) error {
	g, err := c.Group(groupID)
	if err != nil {
		return err
	}

	commit, err := group.ParseCommit(commitData)
	if err != nil {
		return err
	}
	return g.ProcessCommit(commit)
}

// EncryptMessage encrypts a message to a group as this client, returning
// the serialized envelope.
//
//export OpenChatEncryptMessage
func (c *Client) EncryptMessage(groupID []byte, plaintext string) ([]byte, error) {
	g, err := c.Group(groupID)
	if err != nil {
		return nil, err
	}

	msg, err := g.EncryptMessage(plaintext, c.SelfIdentity())
	if err != nil {
		return nil, err
	}
	return msg.Marshal()
}

// DecryptMessage decrypts a serialized envelope received for a group,
// returning the sender identity, the plaintext and the message epoch.
//
//export OpenChatDecryptMessage
func (c *Client) DecryptMessage(groupID, messageData []byte) (string, string, uint64, error) {
	g, err := c.Group(groupID)
	if err != nil {
		return "", "", 0, err
	}

	msg, err := group.ParseEncryptedMessage(messageData)
	if err != nil {
		return "", "", 0, err
	}
	return g.DecryptMessage(msg)
}

// GetGroupInfo returns a snapshot of a group's public fields.
//
//export OpenChatGetGroupInfo
func (c *Client) GetGroupInfo(groupID []byte) (*group.Info, error) {
	g, err := c.Group(groupID)
	if err != nil {
		return nil, err
	}

	info := g.GetInfo()
	return &info, nil
}

// ExportGroupState serializes one group, secrets included.
//
//export OpenChatExportGroupState
func (c *Client) ExportGroupState(groupID []byte) ([]byte, error) {
	g, err := c.Group(groupID)
	if err != nil {
		return nil, err
	}
	return g.ExportState()
}

// ImportGroupState restores a group from ExportGroupState output and
// registers it, replacing any registered group with the same ID.
//
//export OpenChatImportGroupState
func (c *Client) ImportGroupState(state []byte) (*group.Group, error) {
	g, err := group.ImportState(state)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.groups[groupKey(g.ID())] = g
	c.mu.Unlock()

	return g, nil
}

// Kill wipes all secret material and releases the client's groups. The
// client must not be used afterwards.
//
//export OpenChatKill
func (c *Client) Kill() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, g := range c.groups {
		g.Wipe()
		delete(c.groups, key)
	}
	_ = crypto.WipeKeyPair(c.keyPair)

	logrus.WithFields(logrus.Fields{
		"function": "Kill",
	}).Info("Client destroyed, secret material wiped")
}

// groupKey maps a group ID to its registry key.
func groupKey(groupID []byte) string {
	return hex.EncodeToString(groupID)
}
