// Package directory provides role-resolution backends for the
// authorization subsystem: the administrative role store mapping principals
// to roles and roles to permissions.
//
// Implementations satisfy auth.RoleResolver. The subsystem reads through
// that contract on every check, so mutations made here are visible to all
// active sessions immediately.
package directory

import (
	"errors"
	"fmt"

	"github.com/graphmesh/graphmesh/pkg/auth"
)

// ErrUnavailable reports that the directory backend could not be reached.
// It propagates to the caller unchanged; whether to deny or fail open on a
// directory outage is the surrounding system's policy.
var ErrUnavailable = errors.New("role directory unavailable")

// ErrRoleNotFound reports a lookup of a role the directory does not hold.
var ErrRoleNotFound = auth.ErrRoleNotFound

// unavailable wraps a backend failure in ErrUnavailable while preserving
// the cause for logs.
func unavailable(op string, cause error) error {
	return fmt.Errorf("%w: %s: %v", ErrUnavailable, op, cause)
}
