package credentials

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// DefaultMinPasswordLength is applied when no explicit policy is set.
const DefaultMinPasswordLength = 8

type userRecord struct {
	passwordHash           []byte
	passwordChangeRequired bool
}

// InMemoryStore is a Store backed by process memory, with bcrypt password
// hashing. It backs embedded deployments and tests.
type InMemoryStore struct {
	mu                sync.RWMutex
	users             map[string]*userRecord
	minPasswordLength int
	bcryptCost        int
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty in-memory credential store.
// minPasswordLength <= 0 selects the default policy.
func NewInMemoryStore(minPasswordLength int) *InMemoryStore {
	if minPasswordLength <= 0 {
		minPasswordLength = DefaultMinPasswordLength
	}
	return &InMemoryStore{
		users:             make(map[string]*userRecord),
		minPasswordLength: minPasswordLength,
		bcryptCost:        bcrypt.DefaultCost,
	}
}

// CreateUser registers a principal with an initial password. When
// requireChangeOnFirstLogin is set, the first login yields
// OutcomePasswordChangeRequired until the password is changed.
func (s *InMemoryStore) CreateUser(principal, password string, requireChangeOnFirstLogin bool) error {
	if principal == "" {
		return errors.Wrap(ErrInvalidCredential, "principal must not be empty")
	}
	if err := s.checkPolicy(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return &StoreError{Op: "hash password", Cause: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[principal]; exists {
		return errors.Errorf("user %q already exists", principal)
	}
	s.users[principal] = &userRecord{
		passwordHash:           hash,
		passwordChangeRequired: requireChangeOnFirstLogin,
	}
	return nil
}

// DeleteUser removes a principal. Deleting an unknown principal is a no-op.
func (s *InMemoryStore) DeleteUser(principal string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, principal)
}

// Authenticate verifies the principal's password. Unknown principals and
// wrong passwords both yield OutcomeFailure.
func (s *InMemoryStore) Authenticate(_ context.Context, principal, password string) (Outcome, error) {
	s.mu.RLock()
	user, ok := s.users[principal]
	s.mu.RUnlock()
	if !ok {
		return OutcomeFailure, nil
	}

	if bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)) != nil {
		return OutcomeFailure, nil
	}
	if user.passwordChangeRequired {
		return OutcomePasswordChangeRequired, nil
	}
	return OutcomeSuccess, nil
}

// SetPassword replaces the principal's password and records whether the
// next login must trigger another change.
func (s *InMemoryStore) SetPassword(_ context.Context, principal, newPassword string, requireChangeOnNextLogin bool) error {
	if err := s.checkPolicy(newPassword); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return &StoreError{Op: "hash password", Cause: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[principal]
	if !ok {
		return errors.Errorf("user %q does not exist", principal)
	}
	user.passwordHash = hash
	user.passwordChangeRequired = requireChangeOnNextLogin
	return nil
}

func (s *InMemoryStore) checkPolicy(password string) error {
	if len(password) < s.minPasswordLength {
		return errors.Wrapf(ErrInvalidCredential, "password must be at least %d characters", s.minPasswordLength)
	}
	return nil
}
