package auth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/graphmesh/graphmesh/pkg/auth/credentials"
	"github.com/graphmesh/graphmesh/pkg/observability"
)

// SessionFactory is implemented by the session layer. The manager asks it
// for a session handle at login so the subject can tear the session down on
// logout.
type SessionFactory interface {
	Open(ctx context.Context, principal string) (Session, error)
}

// ManagerConfig configures NewManager. Credentials and Roles are required.
type ManagerConfig struct {
	Credentials credentials.Store
	Roles       RoleResolver
	// Sessions is optional; without it subjects carry no session handle.
	Sessions SessionFactory
	// RateLimiter is optional; without it login attempts are not
	// throttled.
	RateLimiter *RateLimiter

	Logger  observability.Logger
	Metrics observability.MetricsClient
	Tracer  observability.StartSpanFunc
}

// Manager authenticates principals and builds the per-session subject that
// every subsequent authorization decision flows through.
type Manager struct {
	credentials credentials.Store
	roles       RoleResolver
	sessions    SessionFactory
	limiter     *RateLimiter

	logger  observability.Logger
	audit   *AuditLogger
	metrics *MetricsCollector
	tracer  observability.StartSpanFunc
}

// NewManager creates an authentication manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if cfg.Credentials == nil {
		return nil, errors.New("credential store is required")
	}
	if cfg.Roles == nil {
		return nil, errors.New("role resolver is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = observability.NewNoopLogger()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = observability.NewNoopMetricsClient()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = observability.NoopStartSpan
	}

	return &Manager{
		credentials: cfg.Credentials,
		roles:       cfg.Roles,
		sessions:    cfg.Sessions,
		limiter:     cfg.RateLimiter,
		logger:      cfg.Logger,
		audit:       NewAuditLogger(cfg.Logger),
		metrics:     NewMetricsCollector(cfg.Metrics),
		tracer:      cfg.Tracer,
	}, nil
}

// Login verifies the principal's credentials and returns the subject for
// the new session. Bad credentials and rate-limited attempts both yield a
// subject in the denied state rather than an error; errors are reserved for
// credential store I/O failures.
func (m *Manager) Login(ctx context.Context, username, password string) (Subject, error) {
	ctx, span := m.tracer(ctx, "auth.login", attribute.String("auth.principal", username))
	defer span.End()
	started := time.Now()

	if m.limiter != nil {
		if err := m.limiter.CheckLimit(ctx, username); err != nil {
			m.audit.LogRateLimitExceeded(ctx, username)
			m.metrics.RecordRateLimitExceeded()
			return m.newSubject(ctx, username, StateDenied)
		}
	}

	outcome, err := m.credentials.Authenticate(ctx, username, password)
	if err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "verifying credentials")
	}

	if m.limiter != nil {
		m.limiter.RecordAttempt(ctx, username, outcome != credentials.OutcomeFailure)
	}

	state := StateDenied
	switch outcome {
	case credentials.OutcomeSuccess:
		state = StateAuthenticated
	case credentials.OutcomePasswordChangeRequired:
		state = StateCredentialsExpired
	}

	m.audit.LogLogin(ctx, username, state)
	m.metrics.RecordLogin(state, time.Since(started))

	return m.newSubject(ctx, username, state)
}

func (m *Manager) newSubject(ctx context.Context, principal string, state AuthenticationState) (Subject, error) {
	var session Session
	if m.sessions != nil && state != StateDenied {
		var err error
		session, err = m.sessions.Open(ctx, principal)
		if err != nil {
			return nil, errors.Wrap(err, "opening session")
		}
	}

	return NewSubject(SubjectConfig{
		Principal: principal,
		State:     state,
		Roles:     m.roles,
		Passwords: m.credentials,
		Session:   session,
		Logger:    m.logger,
		Audit:     m.audit,
		Metrics:   m.metrics,
	})
}
