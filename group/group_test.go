package group

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DavidGershony/openChat/crypto"
)

func TestCreate(t *testing.T) {
	g, err := Create("Test", "alice")
	require.NoError(t, err)

	assert.Len(t, g.id, GroupIDSize)
	assert.Equal(t, "Test", g.name)
	assert.Equal(t, uint64(0), g.epoch)
	assert.Equal(t, []string{"alice"}, g.members)
	assert.Len(t, g.groupSecret, crypto.SecretSize)
	assert.Equal(t, crypto.DeriveApplicationSecret(g.groupSecret, 0), g.applicationSecret)
}

func TestCreateUniqueIdentifiers(t *testing.T) {
	a, err := Create("One", "alice")
	require.NoError(t, err)
	b, err := Create("Two", "alice")
	require.NoError(t, err)

	assert.NotEqual(t, a.id, b.id, "group IDs must be unique")
	assert.NotEqual(t, a.groupSecret, b.groupSecret, "group secrets must be unique")
}

func TestExportImportRoundTrip(t *testing.T) {
	g, err := Create("Persistent", "alice")
	require.NoError(t, err)
	_, err = g.AddMember("bob")
	require.NoError(t, err)

	data, err := g.ExportState()
	require.NoError(t, err)

	restored, err := ImportState(data)
	require.NoError(t, err)

	assert.Equal(t, g.id, restored.id)
	assert.Equal(t, g.name, restored.name)
	assert.Equal(t, g.epoch, restored.epoch)
	assert.Equal(t, g.members, restored.members)
	assert.Equal(t, g.groupSecret, restored.groupSecret)
	assert.Equal(t, g.applicationSecret, restored.applicationSecret)
}

func TestImportStateMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"not json", []byte("not json at all"), ErrSerialization},
		{"empty object", []byte("{}"), ErrInvalidState},
		{"truncated id", []byte(`{"group_id":"AAAA","group_secret":"AAAA"}`), ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportState(tt.data)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestFromWelcome(t *testing.T) {
	creator, err := Create("Test", "alice")
	require.NoError(t, err)
	welcome, err := creator.AddMember("bob")
	require.NoError(t, err)

	joined, err := FromWelcome(welcome, "bob")
	require.NoError(t, err)

	assert.Equal(t, creator.id, joined.id)
	assert.Equal(t, "Test", joined.name)
	assert.Equal(t, uint64(1), joined.epoch)
	assert.Equal(t, []string{"alice", "bob"}, joined.members)
	assert.Equal(t, creator.applicationSecret, joined.applicationSecret,
		"joiner must derive the same application secret as the issuer")
}

func TestFromWelcomeNotMember(t *testing.T) {
	creator, err := Create("Test", "alice")
	require.NoError(t, err)
	welcome, err := creator.AddMember("bob")
	require.NoError(t, err)

	_, err = FromWelcome(welcome, "mallory")
	assert.ErrorIs(t, err, ErrNotMember)
}

func TestFromWelcomeMissingSecret(t *testing.T) {
	creator, err := Create("Test", "alice")
	require.NoError(t, err)
	welcome, err := creator.AddMember("bob")
	require.NoError(t, err)

	welcome.GroupSecrets = nil
	_, err = FromWelcome(welcome, "bob")
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestFromWelcomeInvalidGroupID(t *testing.T) {
	creator, err := Create("Test", "alice")
	require.NoError(t, err)
	welcome, err := creator.AddMember("bob")
	require.NoError(t, err)

	tests := []struct {
		name string
		id   []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"truncated", welcome.GroupID[:8]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bad := *welcome
			bad.GroupID = tt.id
			_, err := FromWelcome(&bad, "bob")
			assert.ErrorIs(t, err, ErrInvalidState)
		})
	}
}

func TestFromWelcomeOmittedGroupIDOnWire(t *testing.T) {
	creator, err := Create("Test", "alice")
	require.NoError(t, err)
	welcome, err := creator.AddMember("bob")
	require.NoError(t, err)

	welcome.GroupID = nil
	data, err := welcome.Marshal()
	require.NoError(t, err)

	parsed, err := ParseWelcome(data)
	require.NoError(t, err)

	_, err = FromWelcome(parsed, "bob")
	assert.ErrorIs(t, err, ErrInvalidState,
		"a welcome without a group ID must be rejected, not adopted")
}

func TestImportStateMismatchedApplicationSecret(t *testing.T) {
	g, err := Create("Persistent", "alice")
	require.NoError(t, err)
	data, err := g.ExportState()
	require.NoError(t, err)

	var state groupState
	require.NoError(t, json.Unmarshal(data, &state))
	state.ApplicationSecret[0] ^= 0xff
	corrupted, err := json.Marshal(&state)
	require.NoError(t, err)

	_, err = ImportState(corrupted)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestWelcomeMarshalRoundTrip(t *testing.T) {
	creator, err := Create("Test", "alice")
	require.NoError(t, err)
	welcome, err := creator.AddMember("bob")
	require.NoError(t, err)

	data, err := welcome.Marshal()
	require.NoError(t, err)
	parsed, err := ParseWelcome(data)
	require.NoError(t, err)
	assert.Equal(t, welcome, parsed)

	_, err = ParseWelcome([]byte("garbage"))
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestGetInfoSnapshot(t *testing.T) {
	g, err := Create("Snapshot", "alice")
	require.NoError(t, err)

	info := g.GetInfo()
	assert.Equal(t, g.id, info.GroupID)
	assert.Equal(t, "Snapshot", info.Name)
	assert.Equal(t, uint64(0), info.Epoch)

	// Mutating the snapshot must not touch the group.
	info.Members[0] = "mallory"
	assert.Equal(t, []string{"alice"}, g.members)
}

func TestWipe(t *testing.T) {
	g, err := Create("Ephemeral", "alice")
	require.NoError(t, err)

	g.Wipe()
	for _, b := range g.groupSecret {
		assert.Zero(t, b, "group secret not wiped")
	}
	for _, b := range g.applicationSecret {
		assert.Zero(t, b, "application secret not wiped")
	}
}
