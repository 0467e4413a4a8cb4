package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskmaster/internal/storage"
)

func testKV(t *testing.T) *storage.KV {
	t.Helper()
	kv, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := OpenRegistry(testKV(t))
	require.NoError(t, err)
	return r
}

func TestRegisterValidation(t *testing.T) {
	r := testRegistry(t)

	var ve *ValidationError

	err := r.Register("al", "pass1", "blue")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "username", ve.Field)

	err = r.Register("alice", "pass", "blue")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "password", ve.Field)

	err = r.Register("alice", "pass1", "  ")
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "secret word", ve.Field)

	assert.False(t, r.Exists("alice"), "failed registration must not insert")
}

func TestRegisterAndAuthenticate(t *testing.T) {
	r := testRegistry(t)

	require.NoError(t, r.Register("alice", "pass1", "blue"))
	assert.True(t, r.Exists("alice"))
	assert.True(t, r.FirstLogin("alice"))

	assert.NoError(t, r.Authenticate("alice", "pass1"))
	assert.ErrorIs(t, r.Authenticate("alice", "wrong"), ErrWrongPassword)
	assert.ErrorIs(t, r.Authenticate("bob", "pass1"), ErrNotFound)
}

func TestRegisterDuplicate(t *testing.T) {
	r := testRegistry(t)

	require.NoError(t, r.Register("alice", "pass1", "blue"))
	assert.ErrorIs(t, r.Register("alice", "other", "red"), ErrAlreadyExists)

	// The original record survives the collision.
	assert.NoError(t, r.Authenticate("alice", "pass1"))
}

func TestResetPassword(t *testing.T) {
	r := testRegistry(t)
	require.NoError(t, r.Register("alice", "pass1", "blue"))

	err := r.ResetPassword("alice", "wrong-secret", "newpass1")
	assert.ErrorIs(t, err, ErrWrongSecret)
	assert.NoError(t, r.Authenticate("alice", "pass1"), "failed reset must not alter the password")

	var ve *ValidationError
	err = r.ResetPassword("alice", "blue", "np")
	require.ErrorAs(t, err, &ve)
	assert.NoError(t, r.Authenticate("alice", "pass1"))

	require.NoError(t, r.ResetPassword("alice", "blue", "newpass1"))
	assert.NoError(t, r.Authenticate("alice", "newpass1"))
	assert.ErrorIs(t, r.Authenticate("alice", "pass1"), ErrWrongPassword)

	assert.ErrorIs(t, r.ResetPassword("bob", "blue", "newpass1"), ErrNotFound)
}

func TestFirstLoginFlag(t *testing.T) {
	r := testRegistry(t)
	require.NoError(t, r.Register("alice", "pass1", "blue"))

	require.True(t, r.FirstLogin("alice"))
	require.NoError(t, r.ClearFirstLogin("alice"))
	assert.False(t, r.FirstLogin("alice"))

	// Idempotent, including for unknown users.
	assert.NoError(t, r.ClearFirstLogin("alice"))
	assert.NoError(t, r.ClearFirstLogin("nobody"))
	assert.False(t, r.FirstLogin("nobody"))
}

func TestRegistryPersistsAcrossReopen(t *testing.T) {
	kv := testKV(t)

	r, err := OpenRegistry(kv)
	require.NoError(t, err)
	require.NoError(t, r.Register("alice", "pass1", "blue"))
	require.NoError(t, r.ClearFirstLogin("alice"))

	r2, err := OpenRegistry(kv)
	require.NoError(t, err)
	assert.NoError(t, r2.Authenticate("alice", "pass1"))
	assert.False(t, r2.FirstLogin("alice"))
}

func TestSessionLifecycle(t *testing.T) {
	kv := testKV(t)

	s, err := LoadSession(kv)
	require.NoError(t, err)
	_, ok := s.Current()
	assert.False(t, ok)

	require.NoError(t, s.Login("alice"))
	user, ok := s.Current()
	require.True(t, ok)
	assert.Equal(t, "alice", user)

	// A fresh load sees the persisted session.
	s2, err := LoadSession(kv)
	require.NoError(t, err)
	user, ok = s2.Current()
	require.True(t, ok)
	assert.Equal(t, "alice", user)

	require.NoError(t, s.Logout())
	_, ok = s.Current()
	assert.False(t, ok)

	s3, err := LoadSession(kv)
	require.NoError(t, err)
	_, ok = s3.Current()
	assert.False(t, ok)
}
