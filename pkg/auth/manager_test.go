package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/graphmesh/graphmesh/pkg/auth"
	"github.com/graphmesh/graphmesh/pkg/auth/credentials"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSessionFactory struct {
	opened []string
}

func (f *fakeSessionFactory) Open(_ context.Context, principal string) (auth.Session, error) {
	f.opened = append(f.opened, principal)
	return &fakeSession{}, nil
}

func newTestManager(t *testing.T, store *credentials.InMemoryStore, limiter *auth.RateLimiter) *auth.Manager {
	t.Helper()
	manager, err := auth.NewManager(auth.ManagerConfig{
		Credentials: store,
		Roles:       editorDirectory(t),
		RateLimiter: limiter,
	})
	require.NoError(t, err)
	return manager
}

func TestManagerLoginSuccess(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewInMemoryStore(0)
	require.NoError(t, store.CreateUser("alice", "correct-horse", false))

	manager := newTestManager(t, store, nil)
	subject, err := manager.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)

	assert.Equal(t, auth.StateAuthenticated, subject.State())
	assert.Equal(t, "alice", subject.Username())
	assert.True(t, subject.AllowsReads(ctx))
}

func TestManagerLoginBadCredentials(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewInMemoryStore(0)
	require.NoError(t, store.CreateUser("alice", "correct-horse", false))

	manager := newTestManager(t, store, nil)

	for name, attempt := range map[string][2]string{
		"wrong password": {"alice", "wrong"},
		"unknown user":   {"mallory", "whatever"},
	} {
		t.Run(name, func(t *testing.T) {
			subject, err := manager.Login(ctx, attempt[0], attempt[1])
			require.NoError(t, err)
			assert.Equal(t, auth.StateDenied, subject.State())
			assert.False(t, subject.AllowsReads(ctx))
		})
	}
}

func TestManagerLoginPasswordChangeRequired(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewInMemoryStore(0)
	require.NoError(t, store.CreateUser("alice", "initial-password", true))

	manager := newTestManager(t, store, nil)
	subject, err := manager.Login(ctx, "alice", "initial-password")
	require.NoError(t, err)

	assert.Equal(t, auth.StateCredentialsExpired, subject.State())
	assert.False(t, subject.AllowsReads(ctx), "no privileges before the password change")

	require.NoError(t, subject.SetPassword(ctx, "brand-new-password", false))
	assert.Equal(t, auth.StateAuthenticated, subject.State())
	assert.True(t, subject.AllowsReads(ctx))

	// The next login goes straight to authenticated.
	again, err := manager.Login(ctx, "alice", "brand-new-password")
	require.NoError(t, err)
	assert.Equal(t, auth.StateAuthenticated, again.State())
}

func TestManagerLoginRateLimited(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewInMemoryStore(0)
	require.NoError(t, store.CreateUser("alice", "correct-horse", false))

	limiter, err := auth.NewRateLimiter(nil, nil, &auth.RateLimiterConfig{
		Enabled:       true,
		MaxAttempts:   2,
		WindowSize:    time.Minute,
		LockoutPeriod: time.Hour,
		MaxTracked:    16,
	})
	require.NoError(t, err)

	manager := newTestManager(t, store, limiter)

	for i := 0; i < 3; i++ {
		subject, err := manager.Login(ctx, "alice", "wrong")
		require.NoError(t, err)
		assert.Equal(t, auth.StateDenied, subject.State())
	}

	// Locked out now: even the correct password is denied.
	subject, err := manager.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, auth.StateDenied, subject.State())
}

func TestManagerOpensSession(t *testing.T) {
	ctx := context.Background()
	store := credentials.NewInMemoryStore(0)
	require.NoError(t, store.CreateUser("alice", "correct-horse", false))

	sessions := &fakeSessionFactory{}
	manager, err := auth.NewManager(auth.ManagerConfig{
		Credentials: store,
		Roles:       editorDirectory(t),
		Sessions:    sessions,
	})
	require.NoError(t, err)

	subject, err := manager.Login(ctx, "alice", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, sessions.opened)

	require.NoError(t, subject.Logout(ctx))
}

func TestManagerRequiresCollaborators(t *testing.T) {
	_, err := auth.NewManager(auth.ManagerConfig{})
	assert.Error(t, err)

	_, err = auth.NewManager(auth.ManagerConfig{Credentials: credentials.NewInMemoryStore(0)})
	assert.Error(t, err)
}
