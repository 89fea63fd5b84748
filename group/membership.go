package group

import (
	"bytes"
	"fmt"

	"github.com/sirupsen/logrus"
)

// AddMember appends a new identity, advances the epoch and secret chain, and
// returns a Welcome snapshot of the new epoch for delivery to the joiner.
// Fails with ErrAlreadyMember, leaving the group unchanged, if the identity
// is already present.
//
//export OpenChatGroupAddMember
func (g *Group) AddMember(newIdentity string) (*Welcome, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if containsMember(g.members, newIdentity) {
		return nil, fmt.Errorf("%w: %q", ErrAlreadyMember, newIdentity)
	}

	g.members = append(g.members, newIdentity)
	g.epoch++
	g.ratchetForward()

	welcome := &Welcome{
		GroupID:            append([]byte(nil), g.id...),
		GroupName:          g.name,
		Epoch:              g.epoch,
		Members:            append([]string(nil), g.members...),
		GroupSecrets:       append([]byte(nil), g.groupSecret...),
		EncryptedGroupInfo: []byte{},
	}

	logrus.WithFields(logrus.Fields{
		"function":     "AddMember",
		"group_id":     fmt.Sprintf("%x", g.id[:8]),
		"epoch":        g.epoch,
		"member_count": len(g.members),
	}).Info("Member added, epoch advanced")

	return welcome, nil
}

// RemoveMember removes an identity, advances the epoch and secret chain, and
// returns a Commit for delivery to the remaining members. Fails with
// ErrMemberNotFound, leaving the group unchanged, if the identity is absent.
//
// The removed party never learns the new group secret, and the secret chain
// is one-way, so its last-known application secret is useless for every
// future epoch.
//
//export OpenChatGroupRemoveMember
func (g *Group) RemoveMember(identity string) (*Commit, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := -1
	for i, m := range g.members {
		if m == identity {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMemberNotFound, identity)
	}

	g.members = append(g.members[:idx], g.members[idx+1:]...)
	g.epoch++
	g.ratchetForward()

	commit := &Commit{
		GroupID:        append([]byte(nil), g.id...),
		Epoch:          g.epoch,
		RemovedMembers: []string{identity},
		AddedMembers:   []string{},
	}

	logrus.WithFields(logrus.Fields{
		"function":     "RemoveMember",
		"group_id":     fmt.Sprintf("%x", g.id[:8]),
		"epoch":        g.epoch,
		"member_count": len(g.members),
	}).Info("Member removed, epoch advanced")

	return commit, nil
}

// UpdateKeys performs a self-triggered epoch advance with no membership
// change, limiting the lifetime of the current secrets. Returns a Commit
// listing no additions or removals.
//
//export OpenChatGroupUpdateKeys
func (g *Group) UpdateKeys() (*Commit, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.epoch++
	g.ratchetForward()

	commit := &Commit{
		GroupID:        append([]byte(nil), g.id...),
		Epoch:          g.epoch,
		RemovedMembers: []string{},
		AddedMembers:   []string{},
	}

	logrus.WithFields(logrus.Fields{
		"function": "UpdateKeys",
		"group_id": fmt.Sprintf("%x", g.id[:8]),
		"epoch":    g.epoch,
	}).Info("Keys updated, epoch advanced")

	return commit, nil
}

// ProcessCommit applies a Commit received from another member: membership
// changes are replayed, the epoch adopts the commit's value and the secret
// chain advances once. The commit must target exactly the next epoch of this
// group; anything else fails with ErrInvalidState and leaves the group
// unchanged.
//
// Precondition: commits carry no secret material, so this only stays
// synchronized with the issuer if every member already agrees on the
// pre-transition group secret and no commit is skipped. A member that missed
// a commit must re-fetch it; the group does not resynchronize itself.
//
//export OpenChatGroupProcessCommit
func (g *Group) ProcessCommit(commit *Commit) error {
	if commit == nil {
		return fmt.Errorf("%w: nil commit", ErrSerialization)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if !bytes.Equal(commit.GroupID, g.id) {
		return fmt.Errorf("%w: group ID mismatch", ErrInvalidState)
	}
	if commit.Epoch != g.epoch+1 {
		return fmt.Errorf("%w: unexpected epoch: expected %d, got %d", ErrInvalidState, g.epoch+1, commit.Epoch)
	}

	for _, identity := range commit.RemovedMembers {
		for i, m := range g.members {
			if m == identity {
				g.members = append(g.members[:i], g.members[i+1:]...)
				break
			}
		}
	}
	for _, identity := range commit.AddedMembers {
		if !containsMember(g.members, identity) {
			g.members = append(g.members, identity)
		}
	}

	g.epoch = commit.Epoch
	g.ratchetForward()

	logrus.WithFields(logrus.Fields{
		"function":     "ProcessCommit",
		"group_id":     fmt.Sprintf("%x", g.id[:8]),
		"epoch":        g.epoch,
		"member_count": len(g.members),
	}).Info("Commit applied")

	return nil
}
