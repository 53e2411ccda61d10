package auth

import (
	"errors"
	"fmt"
)

// ErrTooManyAuthAttempts is returned by the rate limiter when an identifier
// has exceeded the configured number of failed login attempts.
var ErrTooManyAuthAttempts = errors.New("too many failed authentication attempts")

// ErrNoPrincipal is returned by operations that require a bound principal
// when the subject has none.
var ErrNoPrincipal = errors.New("no principal bound to subject")

// ErrRoleNotFound reports a lookup of a role the resolver does not hold.
// Resolvers wrap it so a stale role assignment can be told apart from a
// backend outage.
var ErrRoleNotFound = errors.New("role not found")

// AuthorizationViolationError reports a denied operation for a subject
// whose credentials are in good standing: the subject simply lacks the
// required permission.
type AuthorizationViolationError struct {
	Message string
}

func (e *AuthorizationViolationError) Error() string {
	return e.Message
}

// CredentialsExpiredError reports a denied operation for a subject that
// must change its password. Callers should prompt for a password change
// rather than treat this as a permanent denial.
type CredentialsExpiredError struct {
	Message string
}

func (e *CredentialsExpiredError) Error() string {
	return fmt.Sprintf("%s (password change required)", e.Message)
}

// InvalidRoleQueryError reports that role resolution itself failed during a
// procedure authorization check, as opposed to no matching role being held.
type InvalidRoleQueryError struct {
	cause error
}

func (e *InvalidRoleQueryError) Error() string {
	return fmt.Sprintf("role query failed: %v", e.cause)
}

func (e *InvalidRoleQueryError) Unwrap() error {
	return e.cause
}
