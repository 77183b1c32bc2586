package seeder

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	consentmodels "github.com/awd2211/lnkday-privacy/internal/consent/models"
	"github.com/awd2211/lnkday-privacy/internal/directory"
	"github.com/awd2211/lnkday-privacy/internal/request/service"
)

// ConsentRegistry defines the consent operations the seeder needs.
type ConsentRegistry interface {
	BulkUpsert(ctx context.Context, userID uuid.UUID, decisions []consentmodels.Decision, ipAddress, userAgent string) ([]*consentmodels.Record, error)
}

// Seeder populates the in-memory directories and consent registry with demo
// data so a development server has exportable users out of the box.
type Seeder struct {
	users       *directory.InMemoryUserDirectory
	memberships *directory.InMemoryMembershipDirectory
	consents    ConsentRegistry
	logger      *slog.Logger
}

// New creates a new seeder.
func New(users *directory.InMemoryUserDirectory, memberships *directory.InMemoryMembershipDirectory, consents ConsentRegistry, logger *slog.Logger) *Seeder {
	return &Seeder{
		users:       users,
		memberships: memberships,
		consents:    consents,
		logger:      logger,
	}
}

// Demo user IDs are fixed so API clients and e2e suites can reference them.
var (
	DemoUserAlice = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	DemoUserBob   = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	DemoUserCarol = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

// SeedAll populates directories and consents with demo data.
func (s *Seeder) SeedAll(ctx context.Context) error {
	s.logger.Info("seeding demo data...")

	users := s.seedUsers()
	s.seedMemberships()

	if err := s.seedConsents(ctx, users); err != nil {
		return fmt.Errorf("failed to seed consents: %w", err)
	}

	s.logger.Info("demo data seeded successfully",
		"users", len(users),
	)

	return nil
}

func (s *Seeder) seedUsers() []uuid.UUID {
	demoUsers := []*service.User{
		{ID: DemoUserAlice, Email: "alice@example.com", DisplayName: "Alice Anderson"},
		{ID: DemoUserBob, Email: "bob@example.com", DisplayName: "Bob Brown"},
		{ID: DemoUserCarol, Email: "carol@example.com", DisplayName: "Carol Chen"},
	}

	ids := make([]uuid.UUID, 0, len(demoUsers))
	for _, user := range demoUsers {
		s.users.Put(user)
		ids = append(ids, user.ID)
	}
	return ids
}

func (s *Seeder) seedMemberships() {
	engineering := uuid.MustParse("eeee0000-0000-0000-0000-000000000001")
	design := uuid.MustParse("eeee0000-0000-0000-0000-000000000002")

	s.memberships.Put(DemoUserAlice, []service.Membership{
		{TeamID: engineering, TeamName: "Engineering", Role: "owner"},
		{TeamID: design, TeamName: "Design", Role: "member"},
	})
	s.memberships.Put(DemoUserBob, []service.Membership{
		{TeamID: engineering, TeamName: "Engineering", Role: "member"},
	})
}

func (s *Seeder) seedConsents(ctx context.Context, users []uuid.UUID) error {
	baseline := []consentmodels.Decision{
		{Type: consentmodels.TypeTermsOfService, Granted: true},
		{Type: consentmodels.TypePrivacyPolicy, Granted: true},
		{Type: consentmodels.TypeMarketingEmails, Granted: false},
	}

	for _, userID := range users {
		if _, err := s.consents.BulkUpsert(ctx, userID, baseline, "127.0.0.1", "seeder"); err != nil {
			return err
		}
	}
	return nil
}
