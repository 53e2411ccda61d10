package directory

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/graphmesh/graphmesh/pkg/auth"
)

// InMemoryDirectory is a role directory held in process memory. Reads are
// concurrent; administrative writes take the exclusive lock and are visible
// to every session on its next check.
type InMemoryDirectory struct {
	mu          sync.RWMutex
	permissions map[string][]auth.Permission // role -> permissions
	members     map[string][]string          // principal -> roles
}

var _ auth.RoleResolver = (*InMemoryDirectory)(nil)

// NewInMemoryDirectory creates an empty directory.
func NewInMemoryDirectory() *InMemoryDirectory {
	return &InMemoryDirectory{
		permissions: make(map[string][]auth.Permission),
		members:     make(map[string][]string),
	}
}

// RolesOf returns the roles currently assigned to the principal.
func (d *InMemoryDirectory) RolesOf(_ context.Context, principal string) ([]string, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	roles := d.members[principal]
	out := make([]string, len(roles))
	copy(out, roles)
	return out, nil
}

// PermissionsOf returns the permissions currently granted to the role.
func (d *InMemoryDirectory) PermissionsOf(_ context.Context, role string) ([]auth.Permission, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	perms, ok := d.permissions[role]
	if !ok {
		return nil, errors.Wrapf(ErrRoleNotFound, "role %q", role)
	}
	out := make([]auth.Permission, len(perms))
	copy(out, perms)
	return out, nil
}

// CreateRole registers a role with an initial permission set.
func (d *InMemoryDirectory) CreateRole(role string, perms ...auth.Permission) error {
	if role == "" {
		return errors.New("role name must not be empty")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.permissions[role]; exists {
		return errors.Errorf("role %q already exists", role)
	}
	d.permissions[role] = append([]auth.Permission(nil), perms...)
	return nil
}

// DeleteRole removes a role and unassigns it from every principal.
func (d *InMemoryDirectory) DeleteRole(role string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.permissions[role]; !exists {
		return errors.Wrapf(ErrRoleNotFound, "role %q", role)
	}
	delete(d.permissions, role)
	for principal, roles := range d.members {
		d.members[principal] = removeString(roles, role)
	}
	return nil
}

// GrantPermission adds a permission to a role.
func (d *InMemoryDirectory) GrantPermission(role string, perm auth.Permission) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	perms, ok := d.permissions[role]
	if !ok {
		return errors.Wrapf(ErrRoleNotFound, "role %q", role)
	}
	for _, existing := range perms {
		if existing.Equal(perm) {
			return nil
		}
	}
	d.permissions[role] = append(perms, perm)
	return nil
}

// RevokePermission removes a permission from a role. Revocation takes
// effect on each session's next check.
func (d *InMemoryDirectory) RevokePermission(role string, perm auth.Permission) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	perms, ok := d.permissions[role]
	if !ok {
		return errors.Wrapf(ErrRoleNotFound, "role %q", role)
	}
	kept := perms[:0]
	for _, existing := range perms {
		if !existing.Equal(perm) {
			kept = append(kept, existing)
		}
	}
	d.permissions[role] = kept
	return nil
}

// AssignRole adds the principal to the role's membership.
func (d *InMemoryDirectory) AssignRole(principal, role string) error {
	if principal == "" {
		return errors.New("principal must not be empty")
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.permissions[role]; !ok {
		return errors.Wrapf(ErrRoleNotFound, "role %q", role)
	}
	for _, existing := range d.members[principal] {
		if existing == role {
			return nil
		}
	}
	d.members[principal] = append(d.members[principal], role)
	sort.Strings(d.members[principal])
	return nil
}

// UnassignRole removes the principal from the role's membership.
func (d *InMemoryDirectory) UnassignRole(principal, role string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.members[principal] = removeString(d.members[principal], role)
	return nil
}

// Roles lists all defined role names.
func (d *InMemoryDirectory) Roles() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.permissions))
	for name := range d.permissions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func removeString(values []string, target string) []string {
	kept := values[:0]
	for _, v := range values {
		if v != target {
			kept = append(kept, v)
		}
	}
	return kept
}
