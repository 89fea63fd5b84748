package group

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidGershony/openChat/crypto"
)

// snapshot captures the serialized state for no-mutation-on-failure checks.
func snapshot(t *testing.T, g *Group) []byte {
	t.Helper()
	data, err := g.ExportState()
	require.NoError(t, err)
	return data
}

func TestAddMember(t *testing.T) {
	g, err := Create("Test", "alice")
	require.NoError(t, err)
	secretBefore := append([]byte(nil), g.groupSecret...)

	welcome, err := g.AddMember("bob")
	require.NoError(t, err)

	assert.Equal(t, uint64(1), g.epoch)
	assert.Equal(t, []string{"alice", "bob"}, g.members)
	assert.NotEqual(t, secretBefore, g.groupSecret, "secret chain must advance")
	assert.Equal(t, crypto.DeriveNextSecret(secretBefore), g.groupSecret)

	assert.Equal(t, g.id, welcome.GroupID)
	assert.Equal(t, "Test", welcome.GroupName)
	assert.Equal(t, uint64(1), welcome.Epoch)
	assert.Equal(t, []string{"alice", "bob"}, welcome.Members)
	assert.Equal(t, g.groupSecret, welcome.GroupSecrets, "welcome snapshots the new epoch's secret")
}

func TestAddMemberAlreadyMember(t *testing.T) {
	g, err := Create("Test", "alice")
	require.NoError(t, err)
	before := snapshot(t, g)

	_, err = g.AddMember("alice")
	assert.ErrorIs(t, err, ErrAlreadyMember)
	assert.Equal(t, before, snapshot(t, g), "failed add must not mutate state")
}

func TestRemoveMember(t *testing.T) {
	g, err := Create("Test", "alice")
	require.NoError(t, err)
	_, err = g.AddMember("bob")
	require.NoError(t, err)
	secretBefore := append([]byte(nil), g.groupSecret...)

	commit, err := g.RemoveMember("bob")
	require.NoError(t, err)

	assert.Equal(t, uint64(2), g.epoch)
	assert.Equal(t, []string{"alice"}, g.members)
	assert.Equal(t, crypto.DeriveNextSecret(secretBefore), g.groupSecret)

	assert.Equal(t, g.id, commit.GroupID)
	assert.Equal(t, uint64(2), commit.Epoch)
	assert.Equal(t, []string{"bob"}, commit.RemovedMembers)
	assert.Empty(t, commit.AddedMembers)
}

func TestRemoveMemberNotFound(t *testing.T) {
	g, err := Create("Test", "alice")
	require.NoError(t, err)
	before := snapshot(t, g)

	_, err = g.RemoveMember("bob")
	assert.ErrorIs(t, err, ErrMemberNotFound)
	assert.Equal(t, before, snapshot(t, g), "failed remove must not mutate state")
}

func TestRemoveMemberForwardSecrecy(t *testing.T) {
	g, err := Create("Test", "alice")
	require.NoError(t, err)
	_, err = g.AddMember("eve")
	require.NoError(t, err)

	// Eve's view of the secrets at the time of her membership.
	evesGroupSecret := append([]byte(nil), g.groupSecret...)

	_, err = g.RemoveMember("eve")
	require.NoError(t, err)

	assert.NotEqual(t, evesGroupSecret, g.groupSecret)
	assert.NotEqual(t,
		crypto.DeriveApplicationSecret(evesGroupSecret, g.epoch),
		g.applicationSecret,
		"old group secret must not reproduce the new application secret")
}

func TestUpdateKeys(t *testing.T) {
	g, err := Create("Test", "alice")
	require.NoError(t, err)
	secretBefore := append([]byte(nil), g.groupSecret...)

	commit, err := g.UpdateKeys()
	require.NoError(t, err)

	assert.Equal(t, uint64(1), g.epoch)
	assert.Equal(t, []string{"alice"}, g.members, "self-update changes no membership")
	assert.Equal(t, crypto.DeriveNextSecret(secretBefore), g.groupSecret)
	assert.Empty(t, commit.RemovedMembers)
	assert.Empty(t, commit.AddedMembers)
	assert.Equal(t, uint64(1), commit.Epoch)
}

func TestProcessCommit(t *testing.T) {
	// Two members sharing epoch 1 state via a welcome.
	a, err := Create("Test", "alice")
	require.NoError(t, err)
	welcome, err := a.AddMember("bob")
	require.NoError(t, err)
	b, err := FromWelcome(welcome, "bob")
	require.NoError(t, err)

	// Alice removes carol... first add her on both sides.
	welcomeCarol, err := a.AddMember("carol")
	require.NoError(t, err)
	addCommit := &Commit{
		GroupID:        welcomeCarol.GroupID,
		Epoch:          welcomeCarol.Epoch,
		RemovedMembers: []string{},
		AddedMembers:   []string{"carol"},
	}
	require.NoError(t, b.ProcessCommit(addCommit))
	assert.Equal(t, a.members, b.members)
	assert.Equal(t, a.applicationSecret, b.applicationSecret,
		"chains must stay synchronized after an add commit")

	removeCommit, err := a.RemoveMember("carol")
	require.NoError(t, err)
	require.NoError(t, b.ProcessCommit(removeCommit))

	assert.Equal(t, a.epoch, b.epoch)
	assert.Equal(t, []string{"alice", "bob"}, b.members)
	assert.Equal(t, a.groupSecret, b.groupSecret)
	assert.Equal(t, a.applicationSecret, b.applicationSecret,
		"chains must stay synchronized after a remove commit")
}

func TestProcessCommitEpochMismatch(t *testing.T) {
	g, err := Create("Test", "alice")
	require.NoError(t, err)
	before := snapshot(t, g)

	for _, epoch := range []uint64{0, 2, 100} {
		commit := &Commit{GroupID: g.ID(), Epoch: epoch}
		err := g.ProcessCommit(commit)
		assert.ErrorIs(t, err, ErrInvalidState, "epoch %d must be rejected", epoch)
	}
	assert.Equal(t, before, snapshot(t, g), "failed commits must not mutate state")
}

func TestProcessCommitGroupIDMismatch(t *testing.T) {
	g, err := Create("Test", "alice")
	require.NoError(t, err)
	other, err := Create("Other", "alice")
	require.NoError(t, err)
	before := snapshot(t, g)

	commit := &Commit{GroupID: other.ID(), Epoch: g.Epoch() + 1}
	err = g.ProcessCommit(commit)
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, before, snapshot(t, g))
}

func TestProcessCommitIgnoresRedundantChanges(t *testing.T) {
	g, err := Create("Test", "alice")
	require.NoError(t, err)

	commit := &Commit{
		GroupID:        g.ID(),
		Epoch:          1,
		RemovedMembers: []string{"ghost"},        // already absent: ignored
		AddedMembers:   []string{"alice", "bob"}, // alice already present: skipped
	}
	require.NoError(t, g.ProcessCommit(commit))

	assert.Equal(t, []string{"alice", "bob"}, g.members)
	assert.Equal(t, uint64(1), g.epoch)
}

// TestTwoPartyScenario walks the full flow between two parties: create,
// add, join, and verify both agree on epoch, membership and secrets.
func TestTwoPartyScenario(t *testing.T) {
	a, err := Create("Test", "A")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), a.Epoch())
	assert.Equal(t, []string{"A"}, a.Members())

	welcome, err := a.AddMember("B")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), welcome.Epoch)
	assert.Equal(t, []string{"A", "B"}, welcome.Members)

	b, err := FromWelcome(welcome, "B")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), b.Epoch())
	assert.Equal(t, []string{"A", "B"}, b.Members())
	assert.Equal(t, a.applicationSecret, b.applicationSecret)
}
