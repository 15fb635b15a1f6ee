// Package store is the persistence handle used by the seeding pipeline. It
// covers the four chirp tables and nothing else, all consistency rules
// (uniqueness, foreign keys) are enforced by the database itself.
package store

import (
	"context"
	"errors"

	"github.com/Luismorlan/chirp/model"
)

var (
	// ErrDuplicate is returned when a write violates a unique constraint.
	ErrDuplicate = errors.New("unique constraint violation")
	// ErrForeignKey is returned when a write references a missing row.
	ErrForeignKey = errors.New("foreign key violation")
	// ErrNotFound is returned by the Find methods when nothing matches.
	ErrNotFound = errors.New("record not found")
)

// Store exposes the operations the seeder needs. Create methods fill in the
// generated fields (Id, timestamps) of the passed record.
type Store interface {
	CreateUser(ctx context.Context, user *model.User) error
	CreateTweet(ctx context.Context, tweet *model.Tweet) error
	CreateFollow(ctx context.Context, follow *model.Follow) error
	CreateLike(ctx context.Context, like *model.Like) error

	// Atomic "col = col + 1" updates, concurrent increments never get lost.
	IncrementRepliesCount(ctx context.Context, tweetID uint) error
	IncrementLikesCount(ctx context.Context, tweetID uint) error

	// CreateReply inserts reply and increments its parent's RepliesCount in a
	// single transaction.
	CreateReply(ctx context.Context, reply *model.Tweet) error
	// CreateLikeAndCount inserts like and increments the tweet's LikesCount in
	// a single transaction.
	CreateLikeAndCount(ctx context.Context, like *model.Like) error

	CountUsers(ctx context.Context) (int64, error)
	CountTweets(ctx context.Context) (int64, error)
	CountFollows(ctx context.Context) (int64, error)
	CountLikes(ctx context.Context) (int64, error)

	FindUser(ctx context.Context, id uint) (*model.User, error)
	FindTweet(ctx context.Context, id uint) (*model.Tweet, error)
	ListReplies(ctx context.Context, parentID uint) ([]*model.Tweet, error)
	ListFollows(ctx context.Context) ([]*model.Follow, error)

	// CounterDrift returns every tweet whose RepliesCount or LikesCount differs
	// from the number of rows it mirrors.
	CounterDrift(ctx context.Context) ([]model.CounterDrift, error)

	// Truncate deletes every row of the four tables. Only meant for test
	// cleanup.
	Truncate(ctx context.Context) error

	Close() error
}

// IsDuplicate returns true iff err is, or wraps, a unique constraint violation.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicate)
}
