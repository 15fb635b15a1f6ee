package seeder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/Luismorlan/chirp/app_config"
	"github.com/Luismorlan/chirp/model"
	"github.com/Luismorlan/chirp/store"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFollowRelationships(t *testing.T) {
	s, st, hook := newTestSeeder(t, smallConfig())
	users := createUsers(t, s)
	require.NoError(t, s.CreateFollowRelationships(context.Background(), users))

	perFollower := map[uint]int{}
	for _, f := range st.Follows() {
		assert.NotEqual(t, f.FollowerID, f.FollowingID)
		perFollower[f.FollowerID]++
	}
	for _, u := range users {
		assert.GreaterOrEqual(t, perFollower[u.Id], 1)
		assert.LessOrEqual(t, perFollower[u.Id], 3)
	}
	assert.Empty(t, messagesWith(hook, logrus.WarnLevel))
}

func TestFollowRangeIsClampedToOtherUsers(t *testing.T) {
	c := smallConfig()
	c.FOLLOW_RANGE = app_config.IntRange{MIN: 10, MAX: 10}
	s, st, _ := newTestSeeder(t, c)
	users := createUsers(t, s)
	require.NoError(t, s.CreateFollowRelationships(context.Background(), users))
	// Everybody follows everybody else, nobody follows themselves.
	assert.Len(t, st.Follows(), len(users)*(len(users)-1))
}

func TestDuplicateFollowsAreSkipped(t *testing.T) {
	c := smallConfig()
	c.FOLLOW_RANGE = app_config.IntRange{MIN: 1, MAX: 1}
	s, st, hook := newTestSeeder(t, c)
	users := createUsers(t, s)[:2]

	require.NoError(t, s.CreateFollowRelationships(context.Background(), users))
	require.Len(t, st.Follows(), 2)
	// The only candidate of each user is the other one, so the second pass
	// only produces duplicates.
	require.NoError(t, s.CreateFollowRelationships(context.Background(), users))
	assert.Len(t, st.Follows(), 2)

	assert.ElementsMatch(t, []string{
		"⚠️ Duplicate follow skipped: staging_user_0 -> staging_user_1",
		"⚠️ Duplicate follow skipped: staging_user_1 -> staging_user_0",
	}, messagesWith(hook, logrus.WarnLevel))
}

func TestDuplicateLikesAreSkipped(t *testing.T) {
	for _, atomic := range []bool{true, false} {
		t.Run(fmt.Sprintf("atomic=%v", atomic), func(t *testing.T) {
			c := smallConfig()
			c.ATOMIC_COUNTERS = atomic
			c.LIKE_RANGE = app_config.IntRange{MIN: 1, MAX: 1}
			s, st, hook := newTestSeeder(t, c)
			users := createUsers(t, s)
			tweet := &model.Tweet{PublicId: "only-tweet", Content: "hi", AuthorID: users[0].Id}
			require.NoError(t, st.CreateTweet(context.Background(), tweet))
			tweets := []*model.Tweet{tweet}

			require.NoError(t, s.CreateLikes(context.Background(), users, tweets))
			require.NoError(t, s.CreateLikes(context.Background(), users, tweets))

			assert.Len(t, st.Likes(), len(users))
			stored, err := st.FindTweet(context.Background(), tweet.Id)
			require.NoError(t, err)
			assert.Equal(t, len(users), stored.LikesCount)

			warnings := messagesWith(hook, logrus.WarnLevel)
			assert.Len(t, warnings, len(users))
			for _, w := range warnings {
				assert.True(t, strings.HasPrefix(w, "⚠️ Duplicate like skipped: staging_user_"), w)
				assert.True(t, strings.HasSuffix(w, fmt.Sprintf(" on tweet ID %d", tweet.Id)), w)
			}
		})
	}
}

func TestCreateLikesKeepsCountersConsistent(t *testing.T) {
	s, st, _ := newTestSeeder(t, smallConfig())
	users := createUsers(t, s)
	tweets, err := s.CreateTweets(context.Background(), users)
	require.NoError(t, err)
	require.NoError(t, s.CreateLikes(context.Background(), users, tweets))

	perUser := map[uint]int{}
	for _, like := range st.Likes() {
		perUser[like.UserID]++
	}
	for _, u := range users {
		assert.GreaterOrEqual(t, perUser[u.Id], 2)
		assert.LessOrEqual(t, perUser[u.Id], 5)
	}
	assertCountersConsistent(t, st)
}

func TestEdgeErrorsPropagateUnlessLenient(t *testing.T) {
	reset := errors.New("connection reset")
	failEdges := func(op string, record interface{}) error {
		if op == store.OpCreateFollow || op == store.OpCreateLike {
			return reset
		}
		return nil
	}

	t.Run("strict", func(t *testing.T) {
		s, st, hook := newTestSeeder(t, smallConfig())
		users := createUsers(t, s)
		tweets, err := s.CreateTweets(context.Background(), users)
		require.NoError(t, err)

		st.FailOn = failEdges
		assert.Equal(t, reset, s.CreateFollowRelationships(context.Background(), users))
		assert.Equal(t, reset, s.CreateLikes(context.Background(), users, tweets))
		assert.Empty(t, messagesWith(hook, logrus.WarnLevel))
	})

	t.Run("lenient", func(t *testing.T) {
		c := smallConfig()
		c.LENIENT_DUPLICATES = true
		s, st, hook := newTestSeeder(t, c)
		users := createUsers(t, s)
		tweets, err := s.CreateTweets(context.Background(), users)
		require.NoError(t, err)

		st.FailOn = failEdges
		require.NoError(t, s.CreateFollowRelationships(context.Background(), users))
		require.NoError(t, s.CreateLikes(context.Background(), users, tweets))
		assert.Empty(t, st.Follows())
		assert.Empty(t, st.Likes())
		assert.NotEmpty(t, messagesWith(hook, logrus.WarnLevel))
	})
}

func TestFailedEdgeDoesNotCancelSiblings(t *testing.T) {
	s, st, _ := newTestSeeder(t, smallConfig())
	users := createUsers(t, s)

	attempts := 0
	reset := errors.New("connection reset")
	st.FailOn = func(op string, record interface{}) error {
		if op != store.OpCreateFollow {
			return nil
		}
		attempts++
		if attempts == 1 {
			return reset
		}
		return nil
	}
	assert.Equal(t, reset, s.CreateFollowRelationships(context.Background(), users))
	assert.Len(t, st.Follows(), attempts-1)
}
