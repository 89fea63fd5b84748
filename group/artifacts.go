package group

import (
	"encoding/json"
	"fmt"
)

// Welcome is the artifact delivered to a newly added member. It snapshots
// the group at the epoch of the addition so the joiner can reconstruct the
// full state.
//
// GroupSecrets carries the raw epoch secret in the base protocol. In the
// sealed variant issued by the client facade it is empty and
// EncryptedGroupInfo carries the secret encrypted to the joiner's
// key-package public key.
//
//export OpenChatWelcome
type Welcome struct {
	GroupID            []byte   `json:"group_id"`
	GroupName          string   `json:"group_name"`
	Epoch              uint64   `json:"epoch"`
	Members            []string `json:"members"`
	GroupSecrets       []byte   `json:"group_secrets"`
	EncryptedGroupInfo []byte   `json:"encrypted_group_info"`
}

// Commit is the artifact delivered to every existing member describing a
// membership or key transition to apply locally.
//
//export OpenChatCommit
type Commit struct {
	GroupID        []byte   `json:"group_id"`
	Epoch          uint64   `json:"epoch"`
	RemovedMembers []string `json:"removed_members"`
	AddedMembers   []string `json:"added_members"`
}

// EncryptedMessage is the epoch-tagged envelope around an encrypted
// application payload. Ciphertext holds the AEAD nonce followed by the
// sealed payload.
//
//export OpenChatEncryptedMessage
type EncryptedMessage struct {
	SenderPublicKey string `json:"sender_public_key"`
	Epoch           uint64 `json:"epoch"`
	Ciphertext      []byte `json:"ciphertext"`
}

// Marshal serializes the Welcome for out-of-band delivery.
func (w *Welcome) Marshal() ([]byte, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// ParseWelcome deserializes a Welcome received out of band.
func ParseWelcome(data []byte) (*Welcome, error) {
	var w Welcome
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("%w: invalid welcome: %v", ErrSerialization, err)
	}
	return &w, nil
}

// Marshal serializes the Commit for out-of-band delivery.
func (c *Commit) Marshal() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// ParseCommit deserializes a Commit received out of band.
func ParseCommit(data []byte) (*Commit, error) {
	var c Commit
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: invalid commit: %v", ErrSerialization, err)
	}
	return &c, nil
}

// Marshal serializes the message envelope for delivery.
func (m *EncryptedMessage) Marshal() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// ParseEncryptedMessage deserializes a received message envelope.
func ParseEncryptedMessage(data []byte) (*EncryptedMessage, error) {
	var m EncryptedMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: invalid message: %v", ErrSerialization, err)
	}
	return &m, nil
}
