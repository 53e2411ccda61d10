package auth

// AuthenticationState is a subject's current authentication standing.
// DENIED covers both bad-credential and rate-limited login attempts; finer
// distinctions belong to the session layer.
type AuthenticationState int32

const (
	// StateUnauthenticated means no authentication has taken place.
	StateUnauthenticated AuthenticationState = iota
	// StateAuthenticated means the subject holds valid credentials.
	StateAuthenticated
	// StateCredentialsExpired means the subject authenticated but must
	// change its password before gaining any privileges.
	StateCredentialsExpired
	// StateDenied means the login attempt was rejected.
	StateDenied
)

func (s AuthenticationState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateCredentialsExpired:
		return "credentials_expired"
	case StateDenied:
		return "denied"
	default:
		return "unknown"
	}
}
