package profile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRejectsDuplicateUsername(t *testing.T) {
	s := NewStore(t.TempDir())

	created, err := s.Create(Profile{Username: "alice", IP: "127.0.0.1", Port: 10101, Limit: 5})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.Create(Profile{Username: "alice", IP: "10.0.0.1", Port: 9999, Limit: 1})
	require.NoError(t, err)
	assert.False(t, created, "duplicate username must not be created")

	profiles := s.GetProfiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, 10101, profiles[0].Port)
}

func TestSwitchIsExclusive(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Create(Profile{Username: "alice", IP: "127.0.0.1", Port: 10101, Limit: 5})
	require.NoError(t, err)
	_, err = s.Create(Profile{Username: "bob", IP: "127.0.0.1", Port: 10101, Limit: 5})
	require.NoError(t, err)

	switched, err := s.Switch("alice")
	require.NoError(t, err)
	assert.True(t, switched)

	switched, err = s.Switch("bob")
	require.NoError(t, err)
	assert.True(t, switched)

	current, ok := s.GetCurrent()
	require.True(t, ok)
	assert.Equal(t, "bob", current.Username)

	for _, p := range s.GetProfiles() {
		if p.Username == "alice" {
			assert.False(t, p.Selected)
		}
	}
}

func TestSwitchUnknownUserFails(t *testing.T) {
	s := NewStore(t.TempDir())
	switched, err := s.Switch("ghost")
	require.NoError(t, err)
	assert.False(t, switched)
}

func TestGetCurrentClampsLimit(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Create(Profile{Username: "alice", IP: "127.0.0.1", Port: 10101, Limit: 999, Selected: true})
	require.NoError(t, err)

	current, ok := s.GetCurrent()
	require.True(t, ok)
	assert.Equal(t, 24, current.Limit)
}

func TestRemoveDeletesLogDirectory(t *testing.T) {
	home := t.TempDir()
	s := NewStore(home)
	_, err := s.Create(Profile{Username: "alice", IP: "127.0.0.1", Port: 10101, Limit: 5})
	require.NoError(t, err)
	assert.DirExists(t, filepath.Join(home, "logs", "alice"))

	removed, err := s.Remove("alice")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Empty(t, s.GetProfiles())
	assert.NoDirExists(t, filepath.Join(home, "logs", "alice"))

	removed, err = s.Remove("alice")
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestRenameMovesLogDirectory(t *testing.T) {
	home := t.TempDir()
	s := NewStore(home)
	_, err := s.Create(Profile{Username: "alice", IP: "127.0.0.1", Port: 10101, Limit: 5})
	require.NoError(t, err)

	renamed, err := s.Rename("alice", "alicia")
	require.NoError(t, err)
	assert.True(t, renamed)

	profiles := s.GetProfiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, "alicia", profiles[0].Username)
	assert.NoDirExists(t, filepath.Join(home, "logs", "alice"))
	assert.DirExists(t, filepath.Join(home, "logs", "alicia"))
}

func TestUpdateOverwritesFields(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Create(Profile{Username: "alice", IP: "127.0.0.1", Port: 10101, Limit: 5})
	require.NoError(t, err)

	updated, err := s.Update("alice", "10.0.0.5", 8000, 3)
	require.NoError(t, err)
	assert.True(t, updated)

	profiles := s.GetProfiles()
	require.Len(t, profiles, 1)
	assert.Equal(t, "10.0.0.5", profiles[0].IP)
	assert.Equal(t, 8000, profiles[0].Port)
	assert.Equal(t, 3, profiles[0].Limit)
}

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("alice"))
	assert.NoError(t, ValidateUsername("a-b_c9"))
	assert.Error(t, ValidateUsername("ab"))
	assert.Error(t, ValidateUsername("seventeen-chars-x"))
	assert.Error(t, ValidateUsername("bad name"))
}

func TestGetProfilesOnMissingFileIsEmpty(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.Empty(t, s.GetProfiles())
	_, ok := s.GetCurrent()
	assert.False(t, ok)
}
