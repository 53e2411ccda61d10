package directory

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"github.com/graphmesh/graphmesh/pkg/auth"
)

const (
	rolesOfQuery = `
		SELECT role_name FROM user_roles
		WHERE principal = $1
		ORDER BY role_name
	`
	permissionsOfQuery = `
		SELECT permission FROM role_permissions
		WHERE role_name = $1
		ORDER BY permission
	`
	roleExistsQuery = `SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1)`
)

// SQLDirectory resolves roles and permissions from a SQL database. Backend
// failures surface as ErrUnavailable; a circuit breaker fails fast while
// the database is down so request threads are not held up on a dead
// backend. Permission strings are parsed as they leave the database, which
// keeps malformed rows out of request-time checks.
type SQLDirectory struct {
	db      *sqlx.DB
	breaker *gobreaker.CircuitBreaker
}

var _ auth.RoleResolver = (*SQLDirectory)(nil)

// NewSQLDirectory creates a directory over an open database handle.
func NewSQLDirectory(db *sqlx.DB) *SQLDirectory {
	return &SQLDirectory{
		db: db,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "role-directory",
			Timeout: 10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
	}
}

// RolesOf returns the roles assigned to the principal.
func (d *SQLDirectory) RolesOf(ctx context.Context, principal string) ([]string, error) {
	result, err := d.breaker.Execute(func() (interface{}, error) {
		var roles []string
		if err := d.db.SelectContext(ctx, &roles, rolesOfQuery, principal); err != nil {
			return nil, err
		}
		return roles, nil
	})
	if err != nil {
		return nil, unavailable("querying roles", err)
	}
	return result.([]string), nil
}

// PermissionsOf returns the permissions granted to the role.
func (d *SQLDirectory) PermissionsOf(ctx context.Context, role string) ([]auth.Permission, error) {
	result, err := d.breaker.Execute(func() (interface{}, error) {
		exists, err := d.roleExists(ctx, role)
		if err != nil {
			return nil, err
		}
		if !exists {
			// Not a backend failure; don't trip the breaker on it.
			return nil, nil
		}

		var raw []string
		if err := d.db.SelectContext(ctx, &raw, permissionsOfQuery, role); err != nil {
			return nil, err
		}
		return raw, nil
	})
	if err != nil {
		return nil, unavailable("querying permissions", err)
	}
	if result == nil {
		return nil, errors.Wrapf(ErrRoleNotFound, "role %q", role)
	}

	raw := result.([]string)
	perms := make([]auth.Permission, 0, len(raw))
	for _, s := range raw {
		p, err := auth.ParsePermission(s)
		if err != nil {
			return nil, errors.Wrapf(err, "stored permission for role %q", role)
		}
		perms = append(perms, p)
	}
	return perms, nil
}

func (d *SQLDirectory) roleExists(ctx context.Context, role string) (bool, error) {
	var exists bool
	err := d.db.GetContext(ctx, &exists, roleExistsQuery, role)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return exists, err
}
