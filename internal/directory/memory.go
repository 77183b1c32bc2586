// Package directory provides in-memory implementations of the user and
// membership directories the lifecycle core depends on. Production deploys
// an adapter onto the real account service; these implementations back tests
// and single-node development.
package directory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/awd2211/lnkday-privacy/internal/request/service"
	"github.com/awd2211/lnkday-privacy/internal/sentinel"
)

// Error Contract:
// All directory methods follow this error pattern:
// - Return sentinel.ErrNotFound when the requested user does not exist
// - Return nil for successful operations

// InMemoryUserDirectory stores users in memory.
type InMemoryUserDirectory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*service.User
}

// NewUserDirectory constructs an empty in-memory user directory.
func NewUserDirectory() *InMemoryUserDirectory {
	return &InMemoryUserDirectory{users: make(map[uuid.UUID]*service.User)}
}

// Put adds or replaces a user. Seeding helper for main and tests.
func (d *InMemoryUserDirectory) Put(user *service.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	copyUser := *user
	d.users[user.ID] = &copyUser
}

func (d *InMemoryUserDirectory) Find(_ context.Context, userID uuid.UUID) (*service.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	user, ok := d.users[userID]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	copyUser := *user
	return &copyUser, nil
}

func (d *InMemoryUserDirectory) Anonymize(_ context.Context, userID uuid.UUID, fields service.AnonymizeFields) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	user, ok := d.users[userID]
	if !ok {
		return fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	user.Email = fields.Email
	user.DisplayName = fields.DisplayName
	user.PasswordHash = ""
	return nil
}

func (d *InMemoryUserDirectory) Remove(_ context.Context, userID uuid.UUID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[userID]; !ok {
		return fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	delete(d.users, userID)
	return nil
}

// InMemoryMembershipDirectory stores team memberships in memory.
type InMemoryMembershipDirectory struct {
	mu          sync.RWMutex
	memberships map[uuid.UUID][]service.Membership
}

// NewMembershipDirectory constructs an empty in-memory membership directory.
func NewMembershipDirectory() *InMemoryMembershipDirectory {
	return &InMemoryMembershipDirectory{memberships: make(map[uuid.UUID][]service.Membership)}
}

// Put replaces a user's memberships. Seeding helper.
func (d *InMemoryMembershipDirectory) Put(userID uuid.UUID, memberships []service.Membership) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.memberships[userID] = append([]service.Membership(nil), memberships...)
}

// ListMemberships returns the user's memberships. A user with none gets an
// empty slice, never an error.
func (d *InMemoryMembershipDirectory) ListMemberships(_ context.Context, userID uuid.UUID) ([]service.Membership, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]service.Membership(nil), d.memberships[userID]...), nil
}
