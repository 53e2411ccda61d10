package credentials_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmesh/graphmesh/pkg/auth/credentials"
)

func TestInMemoryStoreAuthenticate(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewInMemoryStore(0)
	require.NoError(t, store.CreateUser("alice", "correct-horse", false))

	outcome, err := store.Authenticate(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, credentials.OutcomeSuccess, outcome)

	outcome, err = store.Authenticate(ctx, "alice", "wrong")
	require.NoError(t, err)
	assert.Equal(t, credentials.OutcomeFailure, outcome)

	// Unknown principals are indistinguishable from wrong passwords.
	outcome, err = store.Authenticate(ctx, "mallory", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, credentials.OutcomeFailure, outcome)
}

func TestInMemoryStorePasswordChangeRequired(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewInMemoryStore(0)
	require.NoError(t, store.CreateUser("alice", "initial-password", true))

	outcome, err := store.Authenticate(ctx, "alice", "initial-password")
	require.NoError(t, err)
	assert.Equal(t, credentials.OutcomePasswordChangeRequired, outcome)

	require.NoError(t, store.SetPassword(ctx, "alice", "brand-new-password", false))

	outcome, err = store.Authenticate(ctx, "alice", "brand-new-password")
	require.NoError(t, err)
	assert.Equal(t, credentials.OutcomeSuccess, outcome)

	// The old password no longer works.
	outcome, err = store.Authenticate(ctx, "alice", "initial-password")
	require.NoError(t, err)
	assert.Equal(t, credentials.OutcomeFailure, outcome)
}

func TestInMemoryStoreRequireChangeOnNextLogin(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewInMemoryStore(0)
	require.NoError(t, store.CreateUser("alice", "initial-password", false))

	require.NoError(t, store.SetPassword(ctx, "alice", "rotated-password", true))

	outcome, err := store.Authenticate(ctx, "alice", "rotated-password")
	require.NoError(t, err)
	assert.Equal(t, credentials.OutcomePasswordChangeRequired, outcome)
}

func TestInMemoryStorePasswordPolicy(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewInMemoryStore(10)
	require.NoError(t, store.CreateUser("alice", "long-enough-password", false))

	err := store.SetPassword(ctx, "alice", "short", false)
	assert.ErrorIs(t, err, credentials.ErrInvalidCredential)

	err = store.CreateUser("bob", "short", false)
	assert.ErrorIs(t, err, credentials.ErrInvalidCredential)
}

func TestInMemoryStoreUnknownUser(t *testing.T) {
	store := credentials.NewInMemoryStore(0)
	err := store.SetPassword(context.Background(), "ghost", "whatever-password", false)
	assert.Error(t, err)
}

func TestInMemoryStoreDuplicateUser(t *testing.T) {
	store := credentials.NewInMemoryStore(0)
	require.NoError(t, store.CreateUser("alice", "correct-horse", false))
	assert.Error(t, store.CreateUser("alice", "another-pass", false))
}

func TestInMemoryStoreDeleteUser(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewInMemoryStore(0)
	require.NoError(t, store.CreateUser("alice", "correct-horse", false))

	store.DeleteUser("alice")
	outcome, err := store.Authenticate(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, credentials.OutcomeFailure, outcome)
}
