// Package credentials defines the credential store consumed by the
// authorization subsystem, plus an in-memory reference implementation.
package credentials

import (
	"context"
	"errors"
	"fmt"
)

// Outcome is the result of verifying a principal's credentials.
type Outcome int

const (
	// OutcomeFailure means the credentials were wrong or the principal
	// is unknown. The two are deliberately indistinguishable.
	OutcomeFailure Outcome = iota
	// OutcomeSuccess means the credentials are valid.
	OutcomeSuccess
	// OutcomePasswordChangeRequired means the credentials are valid but
	// the principal must change its password before gaining privileges.
	OutcomePasswordChangeRequired
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomePasswordChangeRequired:
		return "password_change_required"
	default:
		return "failure"
	}
}

// ErrInvalidCredential is returned when a new password is rejected by
// policy. It is user-correctable.
var ErrInvalidCredential = errors.New("invalid credential")

// StoreError reports an I/O failure in the credential backend. It is
// surfaced to the caller unchanged; retry policy belongs to the backend.
type StoreError struct {
	Op    string
	Cause error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("credential store: %s: %v", e.Op, e.Cause)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// Store is the credential backend contract.
type Store interface {
	// Authenticate verifies a principal's password.
	Authenticate(ctx context.Context, principal, password string) (Outcome, error)

	// SetPassword replaces the principal's password. A policy-rejected
	// password yields ErrInvalidCredential; backend I/O failures yield a
	// StoreError.
	SetPassword(ctx context.Context, principal, newPassword string, requireChangeOnNextLogin bool) error
}
