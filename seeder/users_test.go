package seeder

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Luismorlan/chirp/generator"
	"github.com/Luismorlan/chirp/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateVerifiedUsers(t *testing.T) {
	s, _, _ := newTestSeeder(t, smallConfig())
	users, err := s.CreateVerifiedUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, len(VerifiedProfiles))
	for i, p := range VerifiedProfiles {
		assert.Equal(t, p.Username, users[i].Username)
		assert.Equal(t, p.Email, users[i].Email)
		assert.Equal(t, p.Bio, *users[i].Bio)
		assert.True(t, users[i].Verified)
		require.NotNil(t, users[i].Avatar)
		assert.NotEmpty(t, *users[i].Avatar)
	}
}

func TestCreateVerifiedUsersFailsOnDuplicate(t *testing.T) {
	s, st, _ := newTestSeeder(t, smallConfig())
	_, err := s.CreateVerifiedUsers(context.Background())
	require.NoError(t, err)

	users, err := s.CreateVerifiedUsers(context.Background())
	assert.Nil(t, users)
	assert.True(t, store.IsDuplicate(err))
	assert.Len(t, st.Users(), len(VerifiedProfiles))
}

func TestCreateRegularUsersUsernames(t *testing.T) {
	c := smallConfig()
	c.REGULAR_USERS_COUNT = 25
	// Without probabilistic fields the draw order below is the complete one.
	c.BIO_PROBABILITY = 0
	c.VERIFICATION_PROBABILITY = 0
	s, _, hook := newTestSeeder(t, c)

	users, err := s.CreateRegularUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 25)

	replay := generator.New(c.FAKER_SEED)
	for i, u := range users {
		base := strings.ToLower(replay.Username())
		replay.PublicID()
		replay.Email()
		replay.Name()
		replay.Avatar()

		assert.Equal(t, fmt.Sprintf("%s_%d", base, i), u.Username)
		assert.Nil(t, u.Bio)
		assert.False(t, u.Verified)
		assert.Equal(t, strings.ToLower(u.Email), u.Email)
	}

	assert.Contains(t, messages(hook), "📊 Created 10/25 regular users")
	assert.Contains(t, messages(hook), "📊 Created 20/25 regular users")
	assert.NotContains(t, messages(hook), "📊 Created 25/25 regular users")
}

func TestCreateRegularUsersSuffixGuardsCollisions(t *testing.T) {
	c := smallConfig()
	c.REGULAR_USERS_COUNT = 30
	s, _, _ := newTestSeeder(t, c)
	users, err := s.CreateRegularUsers(context.Background())
	require.NoError(t, err)

	seen := map[string]bool{}
	for i, u := range users {
		assert.True(t, strings.HasSuffix(u.Username, fmt.Sprintf("_%d", i)), u.Username)
		assert.False(t, seen[u.Username])
		seen[u.Username] = true
	}
}

func TestCreateStagingUsers(t *testing.T) {
	s, _, _ := newTestSeeder(t, smallConfig())
	users, err := s.CreateStagingUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 5)
	for i, u := range users {
		assert.Equal(t, fmt.Sprintf("staging%d@example.com", i), u.Email)
		assert.Equal(t, fmt.Sprintf("staging_user_%d", i), u.Username)
		assert.Equal(t, fmt.Sprintf("Staging User %d", i), u.DisplayName)
		assert.Equal(t, i == 0, u.Verified)
	}
}
