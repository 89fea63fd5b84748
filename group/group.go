package group

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/DavidGershony/openChat/crypto"
)

// GroupIDSize is the size in bytes of a group identifier.
const GroupIDSize = 32

// Group is the local participant's view of a messaging group: identity,
// membership, the epoch counter and the secrets of the current epoch.
//
// A Group is a unit of mutual exclusion. All operations serialize on an
// internal lock, with read-only operations sharing it; the caller must not
// assume more than one in-flight mutating operation makes progress at a
// time.
//
//export OpenChatGroup
type Group struct {
	id      []byte
	name    string
	epoch   uint64
	members []string

	groupSecret       []byte
	applicationSecret []byte

	mu sync.RWMutex
}

// Info is a read-only snapshot of a group's public fields.
type Info struct {
	GroupID []byte   `json:"group_id"`
	Name    string   `json:"name"`
	Epoch   uint64   `json:"epoch"`
	Members []string `json:"members"`
}

// groupState is the serialized form of the full entity, secrets included.
type groupState struct {
	GroupID           []byte   `json:"group_id"`
	Name              string   `json:"name"`
	Epoch             uint64   `json:"epoch"`
	Members           []string `json:"members"`
	GroupSecret       []byte   `json:"group_secret"`
	ApplicationSecret []byte   `json:"application_secret"`
}

// Create creates a new group at epoch 0 with the creator as sole member.
// The group ID and initial secret are drawn from the system's secure random
// source; failure of that source is the only failure mode.
//
//export OpenChatGroupCreate
func Create(name, creatorIdentity string) (*Group, error) {
	id := make([]byte, GroupIDSize)
	if _, err := rand.Read(id); err != nil {
		return nil, fmt.Errorf("%w: failed to generate group ID: %v", ErrCrypto, err)
	}

	secret := make([]byte, crypto.SecretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("%w: failed to generate group secret: %v", ErrCrypto, err)
	}

	g := &Group{
		id:                id,
		name:              name,
		epoch:             0,
		members:           []string{creatorIdentity},
		groupSecret:       secret,
		applicationSecret: crypto.DeriveApplicationSecret(secret, 0),
	}

	logrus.WithFields(logrus.Fields{
		"function":     "Create",
		"group_id":     fmt.Sprintf("%x", id[:8]),
		"name":         name,
		"member_count": 1,
	}).Info("Group created")

	return g, nil
}

// FromWelcome constructs a group from a Welcome received at join time,
// adopting the issuer's snapshot verbatim. The joiner must appear in the
// welcome's member list.
//
//export OpenChatGroupFromWelcome
func FromWelcome(welcome *Welcome, joinerIdentity string) (*Group, error) {
	if welcome == nil {
		return nil, fmt.Errorf("%w: nil welcome", ErrSerialization)
	}
	if len(welcome.GroupID) != GroupIDSize {
		return nil, fmt.Errorf("%w: welcome carries no valid group ID", ErrInvalidState)
	}
	if !containsMember(welcome.Members, joinerIdentity) {
		return nil, fmt.Errorf("%w: %q is not in the welcome member list", ErrNotMember, joinerIdentity)
	}
	if len(welcome.GroupSecrets) != crypto.SecretSize {
		return nil, fmt.Errorf("%w: welcome carries no usable group secret", ErrInvalidState)
	}

	secret := append([]byte(nil), welcome.GroupSecrets...)
	g := &Group{
		id:                append([]byte(nil), welcome.GroupID...),
		name:              welcome.GroupName,
		epoch:             welcome.Epoch,
		members:           append([]string(nil), welcome.Members...),
		groupSecret:       secret,
		applicationSecret: crypto.DeriveApplicationSecret(secret, welcome.Epoch),
	}

	logrus.WithFields(logrus.Fields{
		"function":     "FromWelcome",
		"group_id":     fmt.Sprintf("%x", g.id[:8]),
		"epoch":        g.epoch,
		"member_count": len(g.members),
	}).Info("Group joined from welcome")

	return g, nil
}

// ExportState serializes the full entity, secrets included, so that
// ImportState can reconstruct an equivalent group. Callers own the returned
// bytes and should treat them as secret material.
//
//export OpenChatGroupExportState
func (g *Group) ExportState() ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	state := groupState{
		GroupID:           g.id,
		Name:              g.name,
		Epoch:             g.epoch,
		Members:           g.members,
		GroupSecret:       g.groupSecret,
		ApplicationSecret: g.applicationSecret,
	}

	data, err := json.Marshal(&state)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// ImportState reconstructs a group previously serialized by ExportState.
//
//export OpenChatGroupImportState
func ImportState(data []byte) (*Group, error) {
	var state groupState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("%w: invalid group state: %v", ErrSerialization, err)
	}

	if len(state.GroupID) != GroupIDSize || len(state.GroupSecret) != crypto.SecretSize {
		return nil, fmt.Errorf("%w: corrupted serialized state", ErrInvalidState)
	}
	if !bytes.Equal(state.ApplicationSecret, crypto.DeriveApplicationSecret(state.GroupSecret, state.Epoch)) {
		return nil, fmt.Errorf("%w: application secret does not match the group secret and epoch", ErrInvalidState)
	}

	return &Group{
		id:                state.GroupID,
		name:              state.Name,
		epoch:             state.Epoch,
		members:           state.Members,
		groupSecret:       state.GroupSecret,
		applicationSecret: state.ApplicationSecret,
	}, nil
}

// ID returns a copy of the group identifier.
func (g *Group) ID() []byte {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]byte(nil), g.id...)
}

// Name returns the group's human-readable label.
func (g *Group) Name() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.name
}

// Epoch returns the current epoch.
func (g *Group) Epoch() uint64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.epoch
}

// Members returns a copy of the current member list in join order.
func (g *Group) Members() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]string(nil), g.members...)
}

// IsMember reports whether identity is currently a member.
func (g *Group) IsMember(identity string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return containsMember(g.members, identity)
}

// GetInfo returns a snapshot of the group's public fields.
//
//export OpenChatGroupGetInfo
func (g *Group) GetInfo() Info {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return Info{
		GroupID: append([]byte(nil), g.id...),
		Name:    g.name,
		Epoch:   g.epoch,
		Members: append([]string(nil), g.members...),
	}
}

// Wipe erases the group's secret material. The group must not be used
// afterwards.
//
//export OpenChatGroupWipe
func (g *Group) Wipe() {
	g.mu.Lock()
	defer g.mu.Unlock()
	crypto.ZeroBytes(g.groupSecret)
	crypto.ZeroBytes(g.applicationSecret)
}

// ratchetForward replaces the secrets for the current epoch value. The
// previous secrets are wiped; callers must have already set g.epoch.
func (g *Group) ratchetForward() {
	old := g.groupSecret
	g.groupSecret = crypto.DeriveNextSecret(old)
	crypto.ZeroBytes(old)

	oldApp := g.applicationSecret
	g.applicationSecret = crypto.DeriveApplicationSecret(g.groupSecret, g.epoch)
	crypto.ZeroBytes(oldApp)
}

// containsMember reports whether identity appears in members.
func containsMember(members []string, identity string) bool {
	for _, m := range members {
		if m == identity {
			return true
		}
	}
	return false
}
