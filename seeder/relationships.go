package seeder

import (
	"context"
	"fmt"

	"github.com/Luismorlan/chirp/generator"
	"github.com/Luismorlan/chirp/model"
	"github.com/Luismorlan/chirp/store"
)

// isSkippable decides whether a failed edge insert is logged and skipped
// instead of failing the step.
func (s *Seeder) isSkippable(err error) bool {
	return s.Config.LENIENT_DUPLICATES || store.IsDuplicate(err)
}

type plannedFollow struct {
	follower, following *model.User
}

// CreateFollowRelationships makes every user follow a random number of other
// users within FOLLOW_RANGE. Users never follow themselves. A duplicate edge
// is logged and skipped, the first other error is returned after every
// in-flight insert finished.
func (s *Seeder) CreateFollowRelationships(ctx context.Context, users []*model.User) error {
	s.Log.Info("🤝 Creating follow relationships...")

	plan := []plannedFollow{}
	for _, user := range users {
		n := s.Gen.IntRange(s.Config.FOLLOW_RANGE.MIN, s.Config.FOLLOW_RANGE.MAX)
		candidates := make([]*model.User, 0, len(users))
		for _, u := range users {
			if u.Id != user.Id {
				candidates = append(candidates, u)
			}
		}
		for _, target := range generator.PickMany(s.Gen, candidates, n) {
			plan = append(plan, plannedFollow{follower: user, following: target})
		}
	}

	group := newTaskGroup(ctx, s.Config.MAX_CONCURRENCY, s.limiter)
	for _, p := range plan {
		p := p
		group.Go(func(ctx context.Context) error {
			return s.createFollow(ctx, p.follower, p.following)
		})
	}
	return group.Wait()
}

func (s *Seeder) createFollow(ctx context.Context, follower, following *model.User) error {
	err := s.Store.CreateFollow(ctx, &model.Follow{FollowerID: follower.Id, FollowingID: following.Id})
	switch {
	case err == nil:
		s.Metrics.Created(EntityFollow)
		return nil
	case s.isSkippable(err):
		s.Log.Warn(fmt.Sprintf("⚠️ Duplicate follow skipped: %s -> %s", follower.Username, following.Username))
		s.Metrics.Skipped(EntityFollow)
		return nil
	default:
		return err
	}
}

type plannedLike struct {
	user  *model.User
	tweet *model.Tweet
}

// CreateLikes makes every user like a random number of distinct tweets within
// LIKE_RANGE, bumping the LikesCount of each liked tweet. A duplicate like is
// logged and skipped, and its counter is left untouched.
func (s *Seeder) CreateLikes(ctx context.Context, users []*model.User, tweets []*model.Tweet) error {
	s.Log.Info("❤️ Creating likes...")

	plan := []plannedLike{}
	for _, user := range users {
		n := s.Gen.IntRange(s.Config.LIKE_RANGE.MIN, s.Config.LIKE_RANGE.MAX)
		for _, tweet := range generator.PickMany(s.Gen, tweets, n) {
			plan = append(plan, plannedLike{user: user, tweet: tweet})
		}
	}

	group := newTaskGroup(ctx, s.Config.MAX_CONCURRENCY, s.limiter)
	for _, p := range plan {
		p := p
		group.Go(func(ctx context.Context) error {
			return s.createLike(ctx, p.user, p.tweet)
		})
	}
	return group.Wait()
}

func (s *Seeder) createLike(ctx context.Context, user *model.User, tweet *model.Tweet) error {
	err := s.writeLike(ctx, &model.Like{UserID: user.Id, TweetID: tweet.Id})
	switch {
	case err == nil:
		s.Metrics.Created(EntityLike)
		return nil
	case s.isSkippable(err):
		s.Log.Warn(fmt.Sprintf("⚠️ Duplicate like skipped: %s on tweet ID %d", user.Username, tweet.Id))
		s.Metrics.Skipped(EntityLike)
		return nil
	default:
		return err
	}
}

// writeLike inserts like and increments the tweet counter. Without
// ATOMIC_COUNTERS the increment is a second write which only runs once the
// insert succeeded.
func (s *Seeder) writeLike(ctx context.Context, like *model.Like) error {
	if s.Config.ATOMIC_COUNTERS {
		return s.Store.CreateLikeAndCount(ctx, like)
	}
	if err := s.Store.CreateLike(ctx, like); err != nil {
		return err
	}
	if err := throttle(ctx, s.limiter); err != nil {
		return err
	}
	return s.Store.IncrementLikesCount(ctx, like.TweetID)
}
