package seeder

import (
	"context"
	"fmt"
	"strings"

	"github.com/Luismorlan/chirp/model"
)

type verifiedProfile struct {
	Username    string
	Email       string
	DisplayName string
	Bio         string
}

// VerifiedProfiles are the fixed accounts every development database starts
// with.
var VerifiedProfiles = []verifiedProfile{
	{
		Username:    "john_doe",
		Email:       "john@example.com",
		DisplayName: "John Doe",
		Bio:         "Software Engineer at Tech Corp",
	},
	{
		Username:    "jane_smith",
		Email:       "jane@example.com",
		DisplayName: "Jane Smith",
		Bio:         "Product Manager & Tech Enthusiast",
	},
	{
		Username:    "tech_guru",
		Email:       "guru@example.com",
		DisplayName: "Tech Guru",
		Bio:         "Sharing daily tech insights",
	},
}

const (
	TestUserEmail    = "test@example.com"
	TestUserUsername = "testuser"
	userProgressStep = 10
)

func stringPtr(s string) *string {
	return &s
}

// createUser writes user and reports it, errors are returned as is.
func (s *Seeder) createUser(ctx context.Context, user *model.User) error {
	if err := throttle(ctx, s.limiter); err != nil {
		return err
	}
	if err := s.Store.CreateUser(ctx, user); err != nil {
		return err
	}
	s.Metrics.Created(EntityUser)
	return nil
}

// CreateVerifiedUsers creates VerifiedProfiles one by one and returns them in
// the same order. The first failing insert aborts the rest.
func (s *Seeder) CreateVerifiedUsers(ctx context.Context) ([]*model.User, error) {
	users := make([]*model.User, 0, len(VerifiedProfiles))
	for _, p := range VerifiedProfiles {
		user := &model.User{
			PublicId:    s.Gen.PublicID(),
			Email:       p.Email,
			Username:    p.Username,
			DisplayName: p.DisplayName,
			Bio:         stringPtr(p.Bio),
			Avatar:      stringPtr(s.Gen.Avatar()),
			Verified:    true,
		}
		if err := s.createUser(ctx, user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

// CreateRegularUsers creates REGULAR_USERS_COUNT randomly generated users.
// Usernames are suffixed with the user index, so generator collisions never
// reach the unique index.
func (s *Seeder) CreateRegularUsers(ctx context.Context) ([]*model.User, error) {
	s.Log.Info("👤 Creating regular users...")

	total := s.Config.REGULAR_USERS_COUNT
	users := make([]*model.User, 0, total)
	for i := 0; i < total; i++ {
		base := strings.ToLower(s.Gen.Username())
		user := &model.User{
			PublicId:    s.Gen.PublicID(),
			Email:       strings.ToLower(s.Gen.Email()),
			Username:    fmt.Sprintf("%s_%d", base, i),
			DisplayName: s.Gen.Name(),
		}
		if s.Gen.Bool(s.Config.BIO_PROBABILITY) {
			user.Bio = stringPtr(s.Gen.Sentence(3, 15))
		}
		user.Avatar = stringPtr(s.Gen.Avatar())
		user.Verified = s.Gen.Bool(s.Config.VERIFICATION_PROBABILITY)

		if err := s.createUser(ctx, user); err != nil {
			return nil, err
		}
		users = append(users, user)

		if (i+1)%userProgressStep == 0 {
			s.Log.Progress(i+1, total, "regular users")
		}
	}
	return users, nil
}

// CreateTestUser creates the single fixed user of test databases.
func (s *Seeder) CreateTestUser(ctx context.Context) (*model.User, error) {
	user := &model.User{
		PublicId:    s.Gen.PublicID(),
		Email:       TestUserEmail,
		Username:    TestUserUsername,
		DisplayName: "Test User",
		Bio:         stringPtr("Test user for integration testing"),
		Verified:    false,
	}
	if err := s.createUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// CreateStagingUsers creates STAGING_USERS_COUNT users derived from their
// index, only the first one is verified.
func (s *Seeder) CreateStagingUsers(ctx context.Context) ([]*model.User, error) {
	total := s.Config.STAGING_USERS_COUNT
	users := make([]*model.User, 0, total)
	for i := 0; i < total; i++ {
		user := &model.User{
			PublicId:    s.Gen.PublicID(),
			Email:       fmt.Sprintf("staging%d@example.com", i),
			Username:    fmt.Sprintf("staging_user_%d", i),
			DisplayName: fmt.Sprintf("Staging User %d", i),
			Bio:         stringPtr("Staging environment user"),
			Verified:    i == 0,
		}
		if err := s.createUser(ctx, user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}
