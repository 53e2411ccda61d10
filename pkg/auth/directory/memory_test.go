package directory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphmesh/graphmesh/pkg/auth"
	"github.com/graphmesh/graphmesh/pkg/auth/directory"
)

func TestInMemoryDirectoryRoles(t *testing.T) {
	ctx := context.Background()
	dir := directory.NewInMemoryDirectory()

	require.NoError(t, dir.CreateRole("editor", auth.MustParsePermission("data:read,write")))
	require.NoError(t, dir.CreateRole("admin", auth.MustParsePermission("*")))
	require.NoError(t, dir.AssignRole("alice", "editor"))
	require.NoError(t, dir.AssignRole("alice", "admin"))

	roles, err := dir.RolesOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"admin", "editor"}, roles)

	perms, err := dir.PermissionsOf(ctx, "editor")
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, "data:read,write", perms[0].String())

	assert.Equal(t, []string{"admin", "editor"}, dir.Roles())
}

func TestInMemoryDirectoryUnknownRole(t *testing.T) {
	dir := directory.NewInMemoryDirectory()

	_, err := dir.PermissionsOf(context.Background(), "ghost")
	assert.ErrorIs(t, err, directory.ErrRoleNotFound)

	assert.ErrorIs(t, dir.GrantPermission("ghost", auth.MustParsePermission("data:read")), directory.ErrRoleNotFound)
	assert.ErrorIs(t, dir.AssignRole("alice", "ghost"), directory.ErrRoleNotFound)
	assert.ErrorIs(t, dir.DeleteRole("ghost"), directory.ErrRoleNotFound)
}

func TestInMemoryDirectoryUnknownPrincipal(t *testing.T) {
	dir := directory.NewInMemoryDirectory()

	roles, err := dir.RolesOf(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestInMemoryDirectoryGrantRevoke(t *testing.T) {
	ctx := context.Background()
	dir := directory.NewInMemoryDirectory()
	require.NoError(t, dir.CreateRole("editor"))

	readWrite := auth.MustParsePermission("data:read,write")
	require.NoError(t, dir.GrantPermission("editor", readWrite))
	// Granting the same permission twice is a no-op.
	require.NoError(t, dir.GrantPermission("editor", readWrite))

	perms, err := dir.PermissionsOf(ctx, "editor")
	require.NoError(t, err)
	assert.Len(t, perms, 1)

	require.NoError(t, dir.RevokePermission("editor", readWrite))
	perms, err = dir.PermissionsOf(ctx, "editor")
	require.NoError(t, err)
	assert.Empty(t, perms)
}

func TestInMemoryDirectoryDeleteRoleUnassignsMembers(t *testing.T) {
	ctx := context.Background()
	dir := directory.NewInMemoryDirectory()
	require.NoError(t, dir.CreateRole("editor", auth.MustParsePermission("data:read")))
	require.NoError(t, dir.AssignRole("alice", "editor"))

	require.NoError(t, dir.DeleteRole("editor"))

	roles, err := dir.RolesOf(ctx, "alice")
	require.NoError(t, err)
	assert.Empty(t, roles)
}

func TestInMemoryDirectoryDuplicateRole(t *testing.T) {
	dir := directory.NewInMemoryDirectory()
	require.NoError(t, dir.CreateRole("editor"))
	assert.Error(t, dir.CreateRole("editor"))
}

func TestInMemoryDirectoryResultIsolation(t *testing.T) {
	ctx := context.Background()
	dir := directory.NewInMemoryDirectory()
	require.NoError(t, dir.CreateRole("editor", auth.MustParsePermission("data:read")))
	require.NoError(t, dir.AssignRole("alice", "editor"))

	roles, err := dir.RolesOf(ctx, "alice")
	require.NoError(t, err)
	roles[0] = "tampered"

	fresh, err := dir.RolesOf(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"editor"}, fresh)
}
