package auth

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/graphmesh/graphmesh/pkg/observability"
)

// Well-known permission strings consulted by the decision methods.
const (
	PermissionRead            = "data:read"
	PermissionReadWrite       = "data:read,write"
	PermissionSchemaReadWrite = "schema:read,write"
	PermissionAdmin           = "*"
)

// DisplayNameMissingPrincipal is the sentinel returned by DisplayName when
// no principal is bound. It is for diagnostics only and must never be used
// in identity comparisons.
const DisplayNameMissingPrincipal = "<missing_principal>"

var (
	permRead            = MustParsePermission(PermissionRead)
	permReadWrite       = MustParsePermission(PermissionReadWrite)
	permSchemaReadWrite = MustParsePermission(PermissionSchemaReadWrite)
	permAdmin           = MustParsePermission(PermissionAdmin)
)

// RoleResolver resolves a principal's current roles and each role's
// permissions. Implementations are shared across sessions and must support
// concurrent reads. The subject calls it on every check rather than
// caching, so a role change is visible on the very next check.
type RoleResolver interface {
	RolesOf(ctx context.Context, principal string) ([]string, error)
	PermissionsOf(ctx context.Context, role string) ([]Permission, error)
}

// PasswordChanger is the slice of the credential store the subject needs
// for its password-change workflow.
type PasswordChanger interface {
	SetPassword(ctx context.Context, principal, newPassword string, requireChangeOnNextLogin bool) error
}

// Session is the handle the subject uses to tear down its owning session
// on logout.
type Session interface {
	Invalidate(ctx context.Context) error
}

// Subject is the capability contract every per-session authorization
// subject satisfies. Callers hold a Subject and never need to know which
// implementation is behind it; there is no downcasting anywhere in the
// kernel.
type Subject interface {
	AllowsReads(ctx context.Context) bool
	AllowsWrites(ctx context.Context) bool
	AllowsSchemaWrites(ctx context.Context) bool
	IsAdmin(ctx context.Context) bool

	// AllowsProcedureWith reports whether the subject holds at least one
	// of the given roles. Procedures are authorized by declared role
	// membership, not by permission strings.
	AllowsProcedureWith(ctx context.Context, allowedRoles ...string) (bool, error)

	// Username returns the bound principal, or "" when none is bound.
	// The empty string is reserved and never a valid username.
	Username() string
	// DisplayName returns Username, or a sentinel when no principal is
	// bound. Diagnostics only.
	DisplayName() string
	// DoesUsernameMatch reports whether a principal is bound and equals
	// candidate exactly.
	DoesUsernameMatch(candidate string) bool

	// State returns the subject's current authentication state.
	State() AuthenticationState

	// SetPassword changes the bound principal's password. A successful
	// change on a credentials-expired subject transitions it to
	// authenticated.
	SetPassword(ctx context.Context, newPassword string, requireChangeOnNextLogin bool) error

	// Logout invalidates the owning session. The subject must not be
	// used afterward; doing so is a programming error.
	Logout(ctx context.Context) error

	// OnViolation translates a denied check into the error the caller
	// must surface: a CredentialsExpiredError when the subject is
	// pending a password change, an AuthorizationViolationError
	// otherwise. Every denial reported by the kernel goes through here.
	OnViolation(msg string) error
}

// SubjectConfig configures NewSubject. Roles is required; Logger, Audit and
// Metrics default to no-op implementations.
type SubjectConfig struct {
	// Principal is the authenticated identity. Empty means no principal
	// is bound.
	Principal string
	// State is the initial authentication state supplied by the session
	// layer at login.
	State AuthenticationState
	// Roles resolves the principal's roles and permissions on every
	// check.
	Roles RoleResolver
	// Passwords backs the SetPassword workflow. Optional for subjects
	// that never change credentials.
	Passwords PasswordChanger
	// Session is invalidated on Logout. Optional for embedded use.
	Session Session

	Logger  observability.Logger
	Audit   *AuditLogger
	Metrics *MetricsCollector
}

// StandardSubject is the regular per-session subject: it derives every
// decision from the authentication state plus a fresh role-resolution
// lookup. It is owned by exactly one session; the only mutable field is the
// authentication state, updated with a single compare-and-swap.
type StandardSubject struct {
	principal string
	sessionID uuid.UUID

	state     atomic.Int32
	loggedOut atomic.Bool

	roles     RoleResolver
	passwords PasswordChanger
	session   Session

	logger  observability.Logger
	audit   *AuditLogger
	metrics *MetricsCollector
}

var _ Subject = (*StandardSubject)(nil)

// NewSubject creates the per-session subject for a freshly established
// session.
func NewSubject(cfg SubjectConfig) (*StandardSubject, error) {
	if cfg.Roles == nil {
		return nil, errors.New("role resolver is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.NewNoopLogger()
	}
	if cfg.Audit == nil {
		cfg.Audit = NewAuditLogger(cfg.Logger)
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewMetricsCollector(observability.NewNoopMetricsClient())
	}

	s := &StandardSubject{
		principal: cfg.Principal,
		sessionID: uuid.New(),
		roles:     cfg.Roles,
		passwords: cfg.Passwords,
		session:   cfg.Session,
		logger:    cfg.Logger,
		audit:     cfg.Audit,
		metrics:   cfg.Metrics,
	}
	s.state.Store(int32(cfg.State))
	return s, nil
}

// SessionID identifies the subject's session in audit events.
func (s *StandardSubject) SessionID() uuid.UUID {
	return s.sessionID
}

// State returns the current authentication state.
func (s *StandardSubject) State() AuthenticationState {
	return AuthenticationState(s.state.Load())
}

// AllowsReads reports whether the subject may read data.
func (s *StandardSubject) AllowsReads(ctx context.Context) bool {
	return s.allows(ctx, "read", permRead)
}

// AllowsWrites reports whether the subject may write data.
func (s *StandardSubject) AllowsWrites(ctx context.Context) bool {
	return s.allows(ctx, "write", permReadWrite)
}

// AllowsSchemaWrites reports whether the subject may mutate the schema.
func (s *StandardSubject) AllowsSchemaWrites(ctx context.Context) bool {
	return s.allows(ctx, "schema_write", permSchemaReadWrite)
}

// IsAdmin reports whether the subject holds the full wildcard permission.
func (s *StandardSubject) IsAdmin(ctx context.Context) bool {
	return s.allows(ctx, "admin", permAdmin)
}

func (s *StandardSubject) allows(ctx context.Context, operation string, required Permission) bool {
	s.checkUsable()

	if s.State() != StateAuthenticated {
		s.metrics.RecordDecision(operation, false)
		return false
	}

	permitted, err := s.isPermitted(ctx, required)
	if err != nil {
		// Fail closed: an unreachable directory denies rather than
		// grants.
		s.logger.Warn("role resolution failed during permission check", map[string]interface{}{
			"principal": s.principal,
			"operation": operation,
			"error":     err.Error(),
		})
		s.metrics.RecordDecision(operation, false)
		return false
	}

	s.metrics.RecordDecision(operation, permitted)
	return permitted
}

// isPermitted reports whether required is granted by the union of
// permissions over the subject's current roles. The union is recomputed on
// every call: a role or permission revoked by an administrator is observed
// on the next check, with no staleness window.
func (s *StandardSubject) isPermitted(ctx context.Context, required Permission) (bool, error) {
	roles, err := s.roles.RolesOf(ctx, s.principal)
	if err != nil {
		return false, errors.Wrap(err, "resolving roles")
	}
	for _, role := range roles {
		perms, err := s.roles.PermissionsOf(ctx, role)
		if err != nil {
			// A role assignment can outlive the role itself. The
			// dangling assignment grants nothing but must not veto
			// the subject's remaining roles.
			if errors.Is(err, ErrRoleNotFound) {
				continue
			}
			return false, errors.Wrapf(err, "resolving permissions of role %q", role)
		}
		for _, p := range perms {
			if p.Grants(required) {
				return true, nil
			}
		}
	}
	return false, nil
}

// AllowsProcedureWith reports whether the subject holds any of the allowed
// roles. The result never reveals which allowed roles the subject is
// missing.
func (s *StandardSubject) AllowsProcedureWith(ctx context.Context, allowedRoles ...string) (bool, error) {
	s.checkUsable()

	held, err := s.roles.RolesOf(ctx, s.principal)
	if err != nil {
		return false, &InvalidRoleQueryError{cause: err}
	}

	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}
	for _, r := range held {
		if _, ok := allowed[r]; ok {
			return true, nil
		}
	}
	return false, nil
}

// Username returns the bound principal, or "" if none is bound.
func (s *StandardSubject) Username() string {
	return s.principal
}

// DisplayName returns the principal for diagnostics, substituting a
// sentinel when no principal is bound.
func (s *StandardSubject) DisplayName() string {
	if s.principal == "" {
		return DisplayNameMissingPrincipal
	}
	return s.principal
}

// DoesUsernameMatch reports whether a principal is bound and candidate
// equals it exactly. An unbound subject matches nothing, including "".
func (s *StandardSubject) DoesUsernameMatch(candidate string) bool {
	return s.principal != "" && candidate == s.principal
}

// SetPassword changes the bound principal's password through the credential
// store. On success, a credentials-expired subject becomes authenticated;
// this is the subject's only in-place state transition and it is applied
// with a compare-and-swap, so concurrent or repeated application is
// harmless. On failure the state is untouched.
func (s *StandardSubject) SetPassword(ctx context.Context, newPassword string, requireChangeOnNextLogin bool) error {
	s.checkUsable()

	if s.principal == "" {
		return ErrNoPrincipal
	}
	if s.passwords == nil {
		return errors.New("no credential store attached to subject")
	}

	if err := s.passwords.SetPassword(ctx, s.principal, newPassword, requireChangeOnNextLogin); err != nil {
		s.audit.LogPasswordChange(ctx, s.principal, s.sessionID, false, err)
		return err
	}

	s.state.CompareAndSwap(int32(StateCredentialsExpired), int32(StateAuthenticated))
	s.audit.LogPasswordChange(ctx, s.principal, s.sessionID, true, nil)
	return nil
}

// Logout invalidates the owning session. Any use of the subject afterward
// panics.
func (s *StandardSubject) Logout(ctx context.Context) error {
	s.checkUsable()

	if s.session != nil {
		if err := s.session.Invalidate(ctx); err != nil {
			return errors.Wrap(err, "invalidating session")
		}
	}
	s.loggedOut.Store(true)
	s.audit.LogLogout(ctx, s.principal, s.sessionID)
	return nil
}

// OnViolation maps a denied check to the error the caller must report,
// according to the current authentication state.
func (s *StandardSubject) OnViolation(msg string) error {
	s.checkUsable()

	if s.State() == StateCredentialsExpired {
		s.metrics.RecordViolation("credentials_expired")
		s.audit.LogViolation(context.Background(), s.principal, s.sessionID, msg, true)
		return &CredentialsExpiredError{Message: msg}
	}
	s.metrics.RecordViolation("forbidden")
	s.audit.LogViolation(context.Background(), s.principal, s.sessionID, msg, false)
	return &AuthorizationViolationError{Message: msg}
}

func (s *StandardSubject) checkUsable() {
	if s.loggedOut.Load() {
		panic("auth: use of subject after logout")
	}
}
