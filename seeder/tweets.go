package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/Luismorlan/chirp/generator"
	"github.com/Luismorlan/chirp/model"
	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

const (
	mediaWidth  = 600
	mediaHeight = 400
)

// ErrNoUsers is returned when a step has to pick authors from an empty list.
var ErrNoUsers = errors.New("no users to pick authors from")

// newTweet draws every random field of one top level tweet.
func (s *Seeder) newTweet(users []*model.User) (*model.Tweet, error) {
	author := generator.PickOne(s.Gen, users)
	tweet := &model.Tweet{
		PublicId: s.Gen.PublicID(),
		Content:  s.Gen.TweetContent(),
		AuthorID: author.Id,
	}
	if s.Gen.Bool(s.Config.MEDIA_PROBABILITY) {
		media, err := json.Marshal([]string{s.Gen.ImageURL(mediaWidth, mediaHeight)})
		if err != nil {
			return nil, err
		}
		tweet.Media = datatypes.JSON(media)
	}
	return tweet, nil
}

func (s *Seeder) createTweet(ctx context.Context, tweet *model.Tweet) error {
	if err := s.Store.CreateTweet(ctx, tweet); err != nil {
		return err
	}
	s.Metrics.Created(EntityTweet)
	return nil
}

// CreateTweets creates TWEETS_COUNT top level tweets in batches of BATCH_SIZE.
// A batch starts only after every tweet of the previous batch is written, the
// tweets of one batch are written concurrently. Tweets are returned in the
// order they were planned, which doesn't depend on write scheduling.
func (s *Seeder) CreateTweets(ctx context.Context, users []*model.User) ([]*model.Tweet, error) {
	s.Log.Info("🐦 Creating tweets...")

	total, batchSize := s.Config.TWEETS_COUNT, s.Config.BATCH_SIZE
	if total > 0 && len(users) == 0 {
		return nil, ErrNoUsers
	}
	tweets := make([]*model.Tweet, 0, total)
	for start := 0; start < total; start += batchSize {
		end := start + batchSize
		if end > total {
			end = total
		}

		// Draw the whole batch before any write goes out.
		batch := make([]*model.Tweet, 0, end-start)
		for i := start; i < end; i++ {
			tweet, err := s.newTweet(users)
			if err != nil {
				return nil, err
			}
			batch = append(batch, tweet)
		}

		group := newTaskGroup(ctx, s.Config.MAX_CONCURRENCY, s.limiter)
		for _, tweet := range batch {
			tweet := tweet
			group.Go(func(ctx context.Context) error {
				return s.createTweet(ctx, tweet)
			})
		}
		if err := group.Wait(); err != nil {
			return nil, err
		}
		tweets = append(tweets, batch...)

		s.Log.Progress(end, total, "tweets")
	}
	return tweets, nil
}

// CreateReplyThreads picks floor(len(tweets) * REPLY_PROBABILITY) distinct
// parents and gives each of them a random number of replies within
// REPLY_RANGE. Every reply bumps the RepliesCount of its parent.
func (s *Seeder) CreateReplyThreads(ctx context.Context, users []*model.User, tweets []*model.Tweet) ([]*model.Tweet, error) {
	s.Log.Info("💬 Creating reply threads...")

	count := int(math.Floor(float64(len(tweets)) * s.Config.REPLY_PROBABILITY))
	parents := generator.PickMany(s.Gen, tweets, count)
	if len(parents) > 0 && len(users) == 0 {
		return nil, ErrNoUsers
	}

	replies := []*model.Tweet{}
	for _, parent := range parents {
		n := s.Gen.IntRange(s.Config.REPLY_RANGE.MIN, s.Config.REPLY_RANGE.MAX)
		for i := 0; i < n; i++ {
			replier := generator.PickOne(s.Gen, users)
			parentID := parent.Id
			replies = append(replies, &model.Tweet{
				PublicId: s.Gen.PublicID(),
				Content:  generator.ClampTweet(s.Gen.Sentence(3, 20)),
				AuthorID: replier.Id,
				ParentID: &parentID,
			})
		}
	}

	group := newTaskGroup(ctx, s.Config.MAX_CONCURRENCY, s.limiter)
	for _, reply := range replies {
		reply := reply
		group.Go(func(ctx context.Context) error {
			return s.createReply(ctx, reply)
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return replies, nil
}

// createReply writes reply and increments the parent counter. Without
// ATOMIC_COUNTERS these are two separate writes and a failed increment leaves
// the reply in place with the counter one behind.
func (s *Seeder) createReply(ctx context.Context, reply *model.Tweet) error {
	if s.Config.ATOMIC_COUNTERS {
		if err := s.Store.CreateReply(ctx, reply); err != nil {
			return err
		}
		s.Metrics.Created(EntityReply)
		return nil
	}

	if err := s.Store.CreateTweet(ctx, reply); err != nil {
		return err
	}
	s.Metrics.Created(EntityReply)
	if err := throttle(ctx, s.limiter); err != nil {
		return err
	}
	return s.Store.IncrementRepliesCount(ctx, *reply.ParentID)
}

// CreateStagingTweets creates STAGING_TWEETS_COUNT numbered tweets from random
// authors, one after the other.
func (s *Seeder) CreateStagingTweets(ctx context.Context, users []*model.User) ([]*model.Tweet, error) {
	total := s.Config.STAGING_TWEETS_COUNT
	if total > 0 && len(users) == 0 {
		return nil, ErrNoUsers
	}
	tweets := make([]*model.Tweet, 0, total)
	for i := 0; i < total; i++ {
		author := generator.PickOne(s.Gen, users)
		tweet := &model.Tweet{
			PublicId: s.Gen.PublicID(),
			Content:  generator.ClampTweet(fmt.Sprintf("Staging tweet %d: %s", i+1, s.Gen.Sentence(3, 10))),
			AuthorID: author.Id,
		}
		if err := throttle(ctx, s.limiter); err != nil {
			return nil, err
		}
		if err := s.createTweet(ctx, tweet); err != nil {
			return nil, err
		}
		tweets = append(tweets, tweet)
	}
	return tweets, nil
}
