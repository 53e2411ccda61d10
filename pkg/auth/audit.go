package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/graphmesh/graphmesh/pkg/observability"
)

// AuditEvent is a structured record of a security-relevant event.
type AuditEvent struct {
	EventID   string                 `json:"event_id"`
	Timestamp time.Time              `json:"timestamp"`
	EventType string                 `json:"event_type"`
	Principal string                 `json:"principal,omitempty"`
	SessionID string                 `json:"session_id,omitempty"`
	Success   bool                   `json:"success"`
	Error     string                 `json:"error,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// AuditLogger emits authentication and authorization audit events through
// the structured logger.
type AuditLogger struct {
	logger observability.Logger
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(logger observability.Logger) *AuditLogger {
	if logger == nil {
		logger = observability.NewNoopLogger()
	}
	return &AuditLogger{logger: logger}
}

// LogLogin records a login attempt and its resulting state. Rate-limited
// attempts are recorded separately by LogRateLimitExceeded.
func (al *AuditLogger) LogLogin(ctx context.Context, principal string, state AuthenticationState) {
	al.emit(ctx, AuditEvent{
		EventType: "login",
		Principal: principal,
		Success:   state == StateAuthenticated || state == StateCredentialsExpired,
		Metadata: map[string]interface{}{
			"state": state.String(),
		},
	})
}

// LogPasswordChange records a password change attempt.
func (al *AuditLogger) LogPasswordChange(ctx context.Context, principal string, sessionID uuid.UUID, success bool, err error) {
	event := AuditEvent{
		EventType: "password_change",
		Principal: principal,
		SessionID: sessionID.String(),
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}
	al.emit(ctx, event)
}

// LogLogout records a session teardown.
func (al *AuditLogger) LogLogout(ctx context.Context, principal string, sessionID uuid.UUID) {
	al.emit(ctx, AuditEvent{
		EventType: "logout",
		Principal: principal,
		SessionID: sessionID.String(),
		Success:   true,
	})
}

// LogViolation records a denied operation as reported through OnViolation.
func (al *AuditLogger) LogViolation(ctx context.Context, principal string, sessionID uuid.UUID, msg string, credentialsExpired bool) {
	al.emit(ctx, AuditEvent{
		EventType: "authorization_denied",
		Principal: principal,
		SessionID: sessionID.String(),
		Success:   false,
		Metadata: map[string]interface{}{
			"message":             msg,
			"credentials_expired": credentialsExpired,
		},
	})
}

// LogRateLimitExceeded records a login attempt rejected by the rate
// limiter.
func (al *AuditLogger) LogRateLimitExceeded(ctx context.Context, principal string) {
	al.emit(ctx, AuditEvent{
		EventType: "rate_limit_exceeded",
		Principal: principal,
		Success:   false,
	})
}

func (al *AuditLogger) emit(_ context.Context, event AuditEvent) {
	event.EventID = uuid.NewString()
	event.Timestamp = time.Now().UTC()

	data, _ := json.Marshal(event)
	al.logger.Info("AUDIT: "+event.EventType, map[string]interface{}{
		"audit_event": string(data),
		"event_type":  event.EventType,
		"principal":   event.Principal,
		"success":     event.Success,
	})
}
