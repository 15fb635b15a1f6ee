package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Luismorlan/chirp/model"
)

// Operation names passed to FakeStore.FailOn.
const (
	OpCreateUser            = "CreateUser"
	OpCreateTweet           = "CreateTweet"
	OpCreateFollow          = "CreateFollow"
	OpCreateLike            = "CreateLike"
	OpIncrementRepliesCount = "IncrementRepliesCount"
	OpIncrementLikesCount   = "IncrementLikesCount"
)

type followKey struct{ follower, following uint }
type likeKey struct{ user, tweet uint }

// FakeStore is an in-memory Store enforcing the same unique and foreign key
// constraints as the database schema. Used by unit tests.
type FakeStore struct {
	mu sync.Mutex

	// FailOn, when set, is consulted before every write. A non-nil result is
	// returned instead of performing the write. The transactional methods
	// consult it once per step, a failing step leaves no row behind.
	FailOn func(op string, record interface{}) error

	nextUserID  uint
	nextTweetID uint

	users   map[uint]*model.User
	tweets  map[uint]*model.Tweet
	follows map[followKey]*model.Follow
	likes   map[likeKey]*model.Like

	emails    map[string]uint
	usernames map[string]uint
	publicIds map[string]struct{}

	writes int
}

func NewFakeStore() *FakeStore {
	s := &FakeStore{}
	s.reset()
	return s
}

var _ Store = (*FakeStore)(nil)

func (s *FakeStore) reset() {
	s.nextUserID = 1
	s.nextTweetID = 1
	s.users = map[uint]*model.User{}
	s.tweets = map[uint]*model.Tweet{}
	s.follows = map[followKey]*model.Follow{}
	s.likes = map[likeKey]*model.Like{}
	s.emails = map[string]uint{}
	s.usernames = map[string]uint{}
	s.publicIds = map[string]struct{}{}
	s.writes = 0
}

func (s *FakeStore) fail(op string, record interface{}) error {
	if s.FailOn == nil {
		return nil
	}
	return s.FailOn(op, record)
}

func (s *FakeStore) CreateUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpCreateUser, user); err != nil {
		return err
	}
	if _, ok := s.emails[user.Email]; ok {
		return fmt.Errorf("create user %s: email %s: %w", user.Username, user.Email, ErrDuplicate)
	}
	if _, ok := s.usernames[user.Username]; ok {
		return fmt.Errorf("create user %s: username: %w", user.Username, ErrDuplicate)
	}
	if _, ok := s.publicIds[user.PublicId]; ok {
		return fmt.Errorf("create user %s: public id %s: %w", user.Username, user.PublicId, ErrDuplicate)
	}
	now := time.Now()
	user.Id = s.nextUserID
	user.CreatedAt, user.UpdatedAt = now, now
	s.nextUserID++

	stored := *user
	stored.Tweets = nil
	s.users[user.Id] = &stored
	s.emails[user.Email] = user.Id
	s.usernames[user.Username] = user.Id
	s.publicIds[user.PublicId] = struct{}{}
	s.writes++
	return nil
}

func (s *FakeStore) CreateTweet(ctx context.Context, tweet *model.Tweet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createTweetLocked(tweet)
}

func (s *FakeStore) createTweetLocked(tweet *model.Tweet) error {
	if err := s.fail(OpCreateTweet, tweet); err != nil {
		return err
	}
	if _, ok := s.users[tweet.AuthorID]; !ok {
		return fmt.Errorf("create tweet: author %d: %w", tweet.AuthorID, ErrForeignKey)
	}
	if tweet.ParentID != nil {
		if _, ok := s.tweets[*tweet.ParentID]; !ok {
			return fmt.Errorf("create tweet: parent %d: %w", *tweet.ParentID, ErrForeignKey)
		}
	}
	if _, ok := s.publicIds[tweet.PublicId]; ok {
		return fmt.Errorf("create tweet: public id %s: %w", tweet.PublicId, ErrDuplicate)
	}
	now := time.Now()
	tweet.Id = s.nextTweetID
	tweet.CreatedAt, tweet.UpdatedAt = now, now
	s.nextTweetID++

	stored := *tweet
	stored.Author, stored.Parent = nil, nil
	s.tweets[tweet.Id] = &stored
	s.publicIds[tweet.PublicId] = struct{}{}
	s.writes++
	return nil
}

func (s *FakeStore) CreateFollow(ctx context.Context, follow *model.Follow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpCreateFollow, follow); err != nil {
		return err
	}
	if _, ok := s.users[follow.FollowerID]; !ok {
		return fmt.Errorf("create follow: follower %d: %w", follow.FollowerID, ErrForeignKey)
	}
	if _, ok := s.users[follow.FollowingID]; !ok {
		return fmt.Errorf("create follow: following %d: %w", follow.FollowingID, ErrForeignKey)
	}
	key := followKey{follow.FollowerID, follow.FollowingID}
	if _, ok := s.follows[key]; ok {
		return fmt.Errorf("create follow %d -> %d: %w", key.follower, key.following, ErrDuplicate)
	}
	follow.CreatedAt = time.Now()
	stored := *follow
	stored.Follower, stored.Following = nil, nil
	s.follows[key] = &stored
	s.writes++
	return nil
}

func (s *FakeStore) CreateLike(ctx context.Context, like *model.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLikeLocked(like)
}

func (s *FakeStore) createLikeLocked(like *model.Like) error {
	if err := s.fail(OpCreateLike, like); err != nil {
		return err
	}
	if _, ok := s.users[like.UserID]; !ok {
		return fmt.Errorf("create like: user %d: %w", like.UserID, ErrForeignKey)
	}
	if _, ok := s.tweets[like.TweetID]; !ok {
		return fmt.Errorf("create like: tweet %d: %w", like.TweetID, ErrForeignKey)
	}
	key := likeKey{like.UserID, like.TweetID}
	if _, ok := s.likes[key]; ok {
		return fmt.Errorf("create like %d on %d: %w", key.user, key.tweet, ErrDuplicate)
	}
	like.CreatedAt = time.Now()
	stored := *like
	stored.User, stored.Tweet = nil, nil
	s.likes[key] = &stored
	s.writes++
	return nil
}

func (s *FakeStore) IncrementRepliesCount(ctx context.Context, tweetID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpIncrementRepliesCount, tweetID); err != nil {
		return err
	}
	return s.incrementLocked(tweetID, func(t *model.Tweet) { t.RepliesCount++ })
}

func (s *FakeStore) IncrementLikesCount(ctx context.Context, tweetID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpIncrementLikesCount, tweetID); err != nil {
		return err
	}
	return s.incrementLocked(tweetID, func(t *model.Tweet) { t.LikesCount++ })
}

func (s *FakeStore) incrementLocked(tweetID uint, bump func(t *model.Tweet)) error {
	t, ok := s.tweets[tweetID]
	if !ok {
		return fmt.Errorf("increment tweet %d: %w", tweetID, ErrNotFound)
	}
	bump(t)
	t.UpdatedAt = time.Now()
	s.writes++
	return nil
}

func (s *FakeStore) CreateReply(ctx context.Context, reply *model.Tweet) error {
	if reply.ParentID == nil {
		return fmt.Errorf("create reply: tweet has no parent")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// Both steps are checked before anything is written, which gives the same
	// all or nothing outcome as a transaction.
	if err := s.fail(OpIncrementRepliesCount, *reply.ParentID); err != nil {
		return err
	}
	if err := s.createTweetLocked(reply); err != nil {
		return err
	}
	return s.incrementLocked(*reply.ParentID, func(t *model.Tweet) { t.RepliesCount++ })
}

func (s *FakeStore) CreateLikeAndCount(ctx context.Context, like *model.Like) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpIncrementLikesCount, like.TweetID); err != nil {
		return err
	}
	if err := s.createLikeLocked(like); err != nil {
		return err
	}
	return s.incrementLocked(like.TweetID, func(t *model.Tweet) { t.LikesCount++ })
}

func (s *FakeStore) CountUsers(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.users)), nil
}

func (s *FakeStore) CountTweets(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.tweets)), nil
}

func (s *FakeStore) CountFollows(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.follows)), nil
}

func (s *FakeStore) CountLikes(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.likes)), nil
}

func (s *FakeStore) FindUser(ctx context.Context, id uint) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("find user %d: %w", id, ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *FakeStore) FindTweet(ctx context.Context, id uint) (*model.Tweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tweets[id]
	if !ok {
		return nil, fmt.Errorf("find tweet %d: %w", id, ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (s *FakeStore) ListReplies(ctx context.Context, parentID uint) ([]*model.Tweet, error) {
	replies := []*model.Tweet{}
	for _, t := range s.Tweets() {
		if t.ParentID != nil && *t.ParentID == parentID {
			replies = append(replies, t)
		}
	}
	return replies, nil
}

func (s *FakeStore) ListFollows(ctx context.Context) ([]*model.Follow, error) {
	return s.Follows(), nil
}

func (s *FakeStore) CounterDrift(ctx context.Context) ([]model.CounterDrift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	replies := map[uint]int64{}
	for _, t := range s.tweets {
		if t.ParentID != nil {
			replies[*t.ParentID]++
		}
	}
	likes := map[uint]int64{}
	for key := range s.likes {
		likes[key.tweet]++
	}

	drifts := []model.CounterDrift{}
	for _, id := range s.sortedTweetIDsLocked() {
		t := s.tweets[id]
		if int64(t.RepliesCount) != replies[id] {
			drifts = append(drifts, model.CounterDrift{TweetID: id, Column: model.RepliesCountColumn, Stored: int64(t.RepliesCount), Actual: replies[id]})
		}
		if int64(t.LikesCount) != likes[id] {
			drifts = append(drifts, model.CounterDrift{TweetID: id, Column: model.LikesCountColumn, Stored: int64(t.LikesCount), Actual: likes[id]})
		}
	}
	return drifts, nil
}

func (s *FakeStore) Truncate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

func (s *FakeStore) Close() error {
	return nil
}

func (s *FakeStore) sortedTweetIDsLocked() []uint {
	ids := make([]uint, 0, len(s.tweets))
	for id := range s.tweets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Writes returns the number of successful writes since creation or the last
// Truncate.
func (s *FakeStore) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Users returns a copy of every stored user ordered by id.
func (s *FakeStore) Users() []*model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]*model.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Id < users[j].Id })
	return users
}

// Tweets returns a copy of every stored tweet ordered by id.
func (s *FakeStore) Tweets() []*model.Tweet {
	s.mu.Lock()
	defer s.mu.Unlock()
	tweets := make([]*model.Tweet, 0, len(s.tweets))
	for _, id := range s.sortedTweetIDsLocked() {
		cp := *s.tweets[id]
		tweets = append(tweets, &cp)
	}
	return tweets
}

// Follows returns a copy of every stored follow ordered by (follower, following).
func (s *FakeStore) Follows() []*model.Follow {
	s.mu.Lock()
	defer s.mu.Unlock()
	follows := make([]*model.Follow, 0, len(s.follows))
	for _, f := range s.follows {
		cp := *f
		follows = append(follows, &cp)
	}
	sort.Slice(follows, func(i, j int) bool {
		if follows[i].FollowerID != follows[j].FollowerID {
			return follows[i].FollowerID < follows[j].FollowerID
		}
		return follows[i].FollowingID < follows[j].FollowingID
	})
	return follows
}

// Likes returns a copy of every stored like ordered by (user, tweet).
func (s *FakeStore) Likes() []*model.Like {
	s.mu.Lock()
	defer s.mu.Unlock()
	likes := make([]*model.Like, 0, len(s.likes))
	for _, l := range s.likes {
		cp := *l
		likes = append(likes, &cp)
	}
	sort.Slice(likes, func(i, j int) bool {
		if likes[i].UserID != likes[j].UserID {
			return likes[i].UserID < likes[j].UserID
		}
		return likes[i].TweetID < likes[j].TweetID
	})
	return likes
}
