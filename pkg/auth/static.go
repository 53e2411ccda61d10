package auth

import "context"

// DisabledAuthSubject returns the subject used when authentication is
// switched off: every check succeeds unconditionally. It satisfies the same
// Subject contract as StandardSubject; callers cannot tell the difference.
func DisabledAuthSubject() Subject {
	return disabledAuthSubject{}
}

// AnonymousSubject returns an unauthenticated subject that is denied
// everything. Useful as the placeholder before login completes.
func AnonymousSubject() Subject {
	return anonymousSubject{}
}

type disabledAuthSubject struct{}

func (disabledAuthSubject) AllowsReads(context.Context) bool        { return true }
func (disabledAuthSubject) AllowsWrites(context.Context) bool       { return true }
func (disabledAuthSubject) AllowsSchemaWrites(context.Context) bool { return true }
func (disabledAuthSubject) IsAdmin(context.Context) bool            { return true }

func (disabledAuthSubject) AllowsProcedureWith(context.Context, ...string) (bool, error) {
	return true, nil
}

func (disabledAuthSubject) Username() string              { return "" }
func (disabledAuthSubject) DisplayName() string           { return DisplayNameMissingPrincipal }
func (disabledAuthSubject) DoesUsernameMatch(string) bool { return false }

func (disabledAuthSubject) State() AuthenticationState { return StateAuthenticated }

func (disabledAuthSubject) SetPassword(context.Context, string, bool) error {
	return ErrNoPrincipal
}

func (disabledAuthSubject) Logout(context.Context) error { return nil }

func (disabledAuthSubject) OnViolation(msg string) error {
	return &AuthorizationViolationError{Message: msg}
}

type anonymousSubject struct{}

func (anonymousSubject) AllowsReads(context.Context) bool        { return false }
func (anonymousSubject) AllowsWrites(context.Context) bool       { return false }
func (anonymousSubject) AllowsSchemaWrites(context.Context) bool { return false }
func (anonymousSubject) IsAdmin(context.Context) bool            { return false }

func (anonymousSubject) AllowsProcedureWith(context.Context, ...string) (bool, error) {
	return false, nil
}

func (anonymousSubject) Username() string              { return "" }
func (anonymousSubject) DisplayName() string           { return DisplayNameMissingPrincipal }
func (anonymousSubject) DoesUsernameMatch(string) bool { return false }

func (anonymousSubject) State() AuthenticationState { return StateUnauthenticated }

func (anonymousSubject) SetPassword(context.Context, string, bool) error {
	return ErrNoPrincipal
}

func (anonymousSubject) Logout(context.Context) error { return nil }

func (anonymousSubject) OnViolation(msg string) error {
	return &AuthorizationViolationError{Message: msg}
}
