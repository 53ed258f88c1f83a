package basic

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("basic: invalid username or password")

// CredentialValidator checks a username and password and returns the
// principal placed in the ticket.
type CredentialValidator interface {
	ValidateCredentials(ctx context.Context, username, password string) (any, error)
}

// CredentialValidatorFunc adapts a function to CredentialValidator.
type CredentialValidatorFunc func(ctx context.Context, username, password string) (any, error)

func (f CredentialValidatorFunc) ValidateCredentials(ctx context.Context, username, password string) (any, error) {
	return f(ctx, username, password)
}

// User is the principal produced by BcryptStore.
type User struct {
	Name string
}

// BcryptStore validates passwords against bcrypt hashes held in memory. It
// is safe for concurrent use.
type BcryptStore struct {
	mu     sync.RWMutex
	hashes map[string][]byte

	// dummy is compared against for unknown users so both paths cost a
	// bcrypt comparison.
	dummy []byte
}

// NewBcryptStore returns a store seeded with username to bcrypt hash pairs.
func NewBcryptStore(hashes map[string]string) *BcryptStore {
	s := &BcryptStore{hashes: make(map[string][]byte, len(hashes))}
	for user, hash := range hashes {
		s.hashes[user] = []byte(hash)
	}
	s.dummy, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.MinCost)
	return s
}

// SetPassword hashes password with cost and stores it for username.
func (s *BcryptStore) SetPassword(username, password string, cost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.hashes[username] = hash
	s.mu.Unlock()
	return nil
}

// Delete removes username from the store.
func (s *BcryptStore) Delete(username string) {
	s.mu.Lock()
	delete(s.hashes, username)
	s.mu.Unlock()
}

func (s *BcryptStore) ValidateCredentials(_ context.Context, username, password string) (any, error) {
	s.mu.RLock()
	hash, ok := s.hashes[username]
	s.mu.RUnlock()

	if !ok {
		_ = bcrypt.CompareHashAndPassword(s.dummy, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &User{Name: username}, nil
}
