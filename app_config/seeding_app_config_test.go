package app_config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seeding.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultSeedingAppConfigIsValid(t *testing.T) {
	c := DefaultSeedingAppConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, 47, c.REGULAR_USERS_COUNT)
	assert.Equal(t, 300, c.TWEETS_COUNT)
	assert.Equal(t, IntRange{MIN: 3, MAX: 15}, c.FOLLOW_RANGE)
	assert.Equal(t, IntRange{MIN: 10, MAX: 50}, c.LIKE_RANGE)
	assert.Equal(t, uint64(123), c.FAKER_SEED)
	assert.True(t, c.ATOMIC_COUNTERS)
	assert.False(t, c.LENIENT_DUPLICATES)
}

func TestParseEmptyPathReturnsDefaults(t *testing.T) {
	c, err := ParseSeedingAppConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultSeedingAppConfig(), c)
}

func TestParseKeepsDefaultsForMissingKeys(t *testing.T) {
	path := writeConfig(t, `
TWEETS_COUNT: 10
BATCH_SIZE: 4
LIKE_RANGE:
  MIN: 1
  MAX: 2
ATOMIC_COUNTERS: false
`)
	c, err := ParseSeedingAppConfig(path)
	require.NoError(t, err)

	expected := DefaultSeedingAppConfig()
	expected.TWEETS_COUNT = 10
	expected.BATCH_SIZE = 4
	expected.LIKE_RANGE = IntRange{MIN: 1, MAX: 2}
	expected.ATOMIC_COUNTERS = false
	assert.Equal(t, expected, c)
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "TWEET_COUNT: 10\n")
	_, err := ParseSeedingAppConfig(path)
	assert.Error(t, err)
}

func TestParseMissingFile(t *testing.T) {
	_, err := ParseSeedingAppConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *SeedingAppConfig)
		errMsg string
	}{
		{"negative count", func(c *SeedingAppConfig) { c.TWEETS_COUNT = -1 }, "TWEETS_COUNT"},
		{"zero batch", func(c *SeedingAppConfig) { c.BATCH_SIZE = 0 }, "BATCH_SIZE"},
		{"zero concurrency", func(c *SeedingAppConfig) { c.MAX_CONCURRENCY = 0 }, "MAX_CONCURRENCY"},
		{"negative rate", func(c *SeedingAppConfig) { c.WRITES_PER_SECOND = -2 }, "WRITES_PER_SECOND"},
		{"inverted range", func(c *SeedingAppConfig) { c.FOLLOW_RANGE = IntRange{MIN: 5, MAX: 1} }, "FOLLOW_RANGE"},
		{"negative range", func(c *SeedingAppConfig) { c.REPLY_RANGE = IntRange{MIN: -1, MAX: 1} }, "REPLY_RANGE"},
		{"probability above one", func(c *SeedingAppConfig) { c.MEDIA_PROBABILITY = 1.5 }, "MEDIA_PROBABILITY"},
		{"negative probability", func(c *SeedingAppConfig) { c.BIO_PROBABILITY = -0.1 }, "BIO_PROBABILITY"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultSeedingAppConfig()
			tc.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}
