package keycloak

import (
	"context"
	"sync"

	"github.com/google/uuid"
	identityapp "github.com/mealportal/backend/internal/application/identity"
)

// Ensure StubProvider implements IdentityProvider
var _ identityapp.IdentityProvider = (*StubProvider)(nil)

// StubProvider is an in-memory identity provider for development and
// tests. Accounts live only for the process lifetime.
type StubProvider struct {
	mu       sync.Mutex
	accounts map[string]string // provider id -> username
}

// NewStubProvider creates a new StubProvider
func NewStubProvider() *StubProvider {
	return &StubProvider{accounts: make(map[string]string)}
}

// CreateUser records the account and returns a generated id.
func (s *StubProvider) CreateUser(ctx context.Context, username, email, firstName, lastName, password string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.accounts[id] = username
	return id, nil
}

// SetPassword is a no-op for accounts the stub knows about.
func (s *StubProvider) SetPassword(ctx context.Context, providerUserID, password string) error {
	return nil
}

// DeleteUser drops the account. Unknown ids succeed, matching the real
// client's tolerant delete.
func (s *StubProvider) DeleteUser(ctx context.Context, providerUserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.accounts, providerUserID)
	return nil
}
