package app_config

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// IntRange is an inclusive [MIN, MAX] range.
type IntRange struct {
	MIN int `yaml:"MIN"`
	MAX int `yaml:"MAX"`
}

// This is the seeding config shared by every seeding step. Keys that are not
// present in the yaml file keep their value from DefaultSeedingAppConfig.
type SeedingAppConfig struct {
	// Number of randomly generated users on top of the verified ones.
	REGULAR_USERS_COUNT int `yaml:"REGULAR_USERS_COUNT"`
	// Number of top level tweets in development seeding, replies not included.
	TWEETS_COUNT        int `yaml:"TWEETS_COUNT"`
	STAGING_USERS_COUNT int `yaml:"STAGING_USERS_COUNT"`
	STAGING_TWEETS_COUNT int `yaml:"STAGING_TWEETS_COUNT"`
	// Tweets are created batch by batch, a batch only starts once the previous
	// one fully resolved.
	BATCH_SIZE int `yaml:"BATCH_SIZE"`
	// Number of users each user follows.
	FOLLOW_RANGE IntRange `yaml:"FOLLOW_RANGE"`
	// Number of tweets each user likes.
	LIKE_RANGE IntRange `yaml:"LIKE_RANGE"`
	// Number of replies each selected parent tweet receives.
	REPLY_RANGE IntRange `yaml:"REPLY_RANGE"`
	// Probability that a tweet carries one media URL.
	MEDIA_PROBABILITY float64 `yaml:"MEDIA_PROBABILITY"`
	// Fraction of tweets that receive a reply thread.
	REPLY_PROBABILITY float64 `yaml:"REPLY_PROBABILITY"`
	// Probability that a regular user is verified.
	VERIFICATION_PROBABILITY float64 `yaml:"VERIFICATION_PROBABILITY"`
	// Probability that a regular user has a bio.
	BIO_PROBABILITY float64 `yaml:"BIO_PROBABILITY"`

	// Seed of the fake data generator. Same seed and same starting database
	// yield the same data.
	FAKER_SEED uint64 `yaml:"FAKER_SEED"`
	// Max number of in-flight writes for follows, likes and replies.
	MAX_CONCURRENCY int `yaml:"MAX_CONCURRENCY"`
	// Max number of writes per second across all steps, 0 means unlimited.
	WRITES_PER_SECOND float64 `yaml:"WRITES_PER_SECOND"`
	// Insert child rows and bump the parent counter in one transaction.
	// Setting this to false issues two independent writes, a failure in between
	// leaves the counter behind the real number of child rows.
	ATOMIC_COUNTERS bool `yaml:"ATOMIC_COUNTERS"`
	// Treat every error of a follow or like insert as a duplicate and skip it,
	// instead of only unique constraint violations.
	LENIENT_DUPLICATES bool `yaml:"LENIENT_DUPLICATES"`
	// Recompute counters after development seeding and warn about drift.
	VERIFY_COUNTERS bool `yaml:"VERIFY_COUNTERS"`
}

func DefaultSeedingAppConfig() SeedingAppConfig {
	return SeedingAppConfig{
		REGULAR_USERS_COUNT:      47,
		TWEETS_COUNT:             300,
		STAGING_USERS_COUNT:      5,
		STAGING_TWEETS_COUNT:     20,
		BATCH_SIZE:               50,
		FOLLOW_RANGE:             IntRange{MIN: 3, MAX: 15},
		LIKE_RANGE:               IntRange{MIN: 10, MAX: 50},
		REPLY_RANGE:              IntRange{MIN: 1, MAX: 5},
		MEDIA_PROBABILITY:        0.15,
		REPLY_PROBABILITY:        0.3,
		VERIFICATION_PROBABILITY: 0.05,
		BIO_PROBABILITY:          0.7,
		FAKER_SEED:               123,
		MAX_CONCURRENCY:          20,
		WRITES_PER_SECOND:        0,
		ATOMIC_COUNTERS:          true,
		LENIENT_DUPLICATES:       false,
		VERIFY_COUNTERS:          true,
	}
}

// ParseSeedingAppConfig reads the yaml file at path on top of the defaults.
// An empty path returns the defaults.
func ParseSeedingAppConfig(path string) (SeedingAppConfig, error) {
	c := DefaultSeedingAppConfig()
	if path == "" {
		return c, nil
	}
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "cannot read seeding config")
	}
	if err = yaml.UnmarshalStrict(yamlFile, &c); err != nil {
		return c, errors.Wrap(err, "cannot parse seeding config "+path)
	}
	if err = c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func (c SeedingAppConfig) Validate() error {
	counts := map[string]int{
		"REGULAR_USERS_COUNT":  c.REGULAR_USERS_COUNT,
		"TWEETS_COUNT":         c.TWEETS_COUNT,
		"STAGING_USERS_COUNT":  c.STAGING_USERS_COUNT,
		"STAGING_TWEETS_COUNT": c.STAGING_TWEETS_COUNT,
	}
	for name, v := range counts {
		if v < 0 {
			return fmt.Errorf("%s should be >= 0, got %d", name, v)
		}
	}
	if c.BATCH_SIZE <= 0 {
		return fmt.Errorf("BATCH_SIZE should be > 0, got %d", c.BATCH_SIZE)
	}
	if c.MAX_CONCURRENCY <= 0 {
		return fmt.Errorf("MAX_CONCURRENCY should be > 0, got %d", c.MAX_CONCURRENCY)
	}
	if c.WRITES_PER_SECOND < 0 {
		return fmt.Errorf("WRITES_PER_SECOND should be >= 0, got %v", c.WRITES_PER_SECOND)
	}
	ranges := map[string]IntRange{
		"FOLLOW_RANGE": c.FOLLOW_RANGE,
		"LIKE_RANGE":   c.LIKE_RANGE,
		"REPLY_RANGE":  c.REPLY_RANGE,
	}
	for name, r := range ranges {
		if r.MIN < 0 || r.MIN > r.MAX {
			return fmt.Errorf("%s should satisfy 0 <= MIN <= MAX, got [%d, %d]", name, r.MIN, r.MAX)
		}
	}
	probabilities := map[string]float64{
		"MEDIA_PROBABILITY":        c.MEDIA_PROBABILITY,
		"REPLY_PROBABILITY":        c.REPLY_PROBABILITY,
		"VERIFICATION_PROBABILITY": c.VERIFICATION_PROBABILITY,
		"BIO_PROBABILITY":          c.BIO_PROBABILITY,
	}
	for name, p := range probabilities {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s should be within [0, 1], got %v", name, p)
		}
	}
	return nil
}
