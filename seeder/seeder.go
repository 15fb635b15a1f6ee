// Package seeder populates a chirp database with reproducible synthetic data.
// What gets written depends only on the runtime environment, the seeding
// config and the generator seed.
package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Luismorlan/chirp/app_config"
	"github.com/Luismorlan/chirp/generator"
	"github.com/Luismorlan/chirp/model"
	"github.com/Luismorlan/chirp/store"
	"github.com/Luismorlan/chirp/utils"
	"golang.org/x/time/rate"
)

type Seeder struct {
	Store   store.Store
	Gen     *generator.Generator
	Config  app_config.SeedingAppConfig
	Log     *Logger
	Metrics *Metrics

	limiter *rate.Limiter
}

// NewSeeder builds a seeder with a fresh generator seeded from
// config.FAKER_SEED. log and metrics may be nil.
func NewSeeder(st store.Store, config app_config.SeedingAppConfig, log *Logger, metrics *Metrics) *Seeder {
	if log == nil {
		log = NewLogger(nil)
	}
	return &Seeder{
		Store:   st,
		Gen:     generator.New(config.FAKER_SEED),
		Config:  config,
		Log:     log,
		Metrics: metrics,
		limiter: newWriteLimiter(config.WRITES_PER_SECOND),
	}
}

type seedingPlan func(ctx context.Context) error

func (s *Seeder) plans() map[utils.Environment]seedingPlan {
	return map[utils.Environment]seedingPlan{
		utils.TestEnv:        s.SeedMinimalTestData,
		utils.DevelopmentEnv: s.SeedDevelopmentData,
		utils.StagingEnv:     s.SeedStagingData,
	}
}

// Run seeds the database according to env. Environments without a plan,
// production included, are left untouched. A failing step is logged once and
// its error is returned as is. A panicking step is logged the same way and the
// panic continues with its original value.
func (s *Seeder) Run(ctx context.Context, env utils.Environment) error {
	s.Log.Info(fmt.Sprintf("Starting database seeding for: %s", env))

	plan, ok := s.plans()[env]
	if !ok {
		s.Log.Info("No seeding for production environment")
		return nil
	}

	start := time.Now()
	defer func() {
		s.Metrics.RunDuration(env.String(), time.Since(start))
		if r := recover(); r != nil {
			s.Log.Error("Seeding failed: " + FormatError(r))
			panic(r)
		}
	}()

	if err := plan(ctx); err != nil {
		s.Log.Error("Seeding failed: " + FormatError(err))
		return err
	}
	return nil
}

// FormatError renders anything a step may fail with. Errors give their
// message, strings are used verbatim and every other value is JSON encoded.
func FormatError(v interface{}) string {
	switch e := v.(type) {
	case error:
		return e.Error()
	case string:
		return e
	}
	bytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(bytes)
}

func (s *Seeder) SeedMinimalTestData(ctx context.Context) error {
	s.Log.Info("Seeding minimal test data...")

	user, err := s.CreateTestUser(ctx)
	if err != nil {
		return err
	}
	s.Log.Success(fmt.Sprintf("Created test user: %s (ID: %d)", user.Username, user.Id))
	return nil
}

func (s *Seeder) SeedDevelopmentData(ctx context.Context) error {
	s.Log.Info("Seeding comprehensive development data...")

	verifiedUsers, err := s.CreateVerifiedUsers(ctx)
	if err != nil {
		return err
	}
	s.Log.Success(fmt.Sprintf("Created %d verified users", len(verifiedUsers)))

	regularUsers, err := s.CreateRegularUsers(ctx)
	if err != nil {
		return err
	}
	s.Log.Success(fmt.Sprintf("Created %d regular users", len(regularUsers)))

	allUsers := make([]*model.User, 0, len(verifiedUsers)+len(regularUsers))
	allUsers = append(allUsers, verifiedUsers...)
	allUsers = append(allUsers, regularUsers...)

	if err = s.CreateFollowRelationships(ctx, allUsers); err != nil {
		return err
	}
	s.Log.Success("Created follow relationships")

	allTweets, err := s.CreateTweets(ctx, allUsers)
	if err != nil {
		return err
	}
	s.Log.Success(fmt.Sprintf("Created %d tweets", len(allTweets)))

	if _, err = s.CreateReplyThreads(ctx, allUsers, allTweets); err != nil {
		return err
	}
	s.Log.Success("Created reply threads")

	if err = s.CreateLikes(ctx, allUsers, allTweets); err != nil {
		return err
	}
	s.Log.Success("Created likes")

	if _, err = s.DisplayStats(ctx); err != nil {
		return err
	}
	if s.Config.VERIFY_COUNTERS {
		if _, err = s.CheckCounters(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (s *Seeder) SeedStagingData(ctx context.Context) error {
	s.Log.Info("Seeding staging data...")

	users, err := s.CreateStagingUsers(ctx)
	if err != nil {
		return err
	}
	s.Log.Success(fmt.Sprintf("Created %d staging users", len(users)))

	if _, err = s.CreateStagingTweets(ctx, users); err != nil {
		return err
	}
	s.Log.Success("Created staging tweets")

	_, err = s.DisplayStats(ctx)
	return err
}
