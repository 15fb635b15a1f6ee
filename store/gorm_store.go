package store

import (
	"context"
	stderrors "errors"

	"github.com/Luismorlan/chirp/model"
	"github.com/Luismorlan/chirp/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore is the Store backed by a gorm connection. The connection must be
// opened with TranslateError enabled, see utils.GetDBConnection.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

var _ Store = (*GormStore)(nil)

// classify maps gorm errors onto the store sentinels and adds op as context.
func classify(err error, op string) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Wrapf(ErrDuplicate, "%s: %v", op, err)
	case stderrors.Is(err, gorm.ErrForeignKeyViolated):
		return errors.Wrapf(ErrForeignKey, "%s: %v", op, err)
	case stderrors.Is(err, gorm.ErrRecordNotFound):
		return errors.Wrap(ErrNotFound, op)
	default:
		return errors.Wrap(err, op)
	}
}

func (s *GormStore) db(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx)
}

// Associations are never upserted, every relation is written explicitly by id.
func (s *GormStore) CreateUser(ctx context.Context, user *model.User) error {
	return classify(s.db(ctx).Omit(clause.Associations).Create(user).Error, "create user "+user.Username)
}

func (s *GormStore) CreateTweet(ctx context.Context, tweet *model.Tweet) error {
	return classify(createTweet(s.db(ctx), tweet), "create tweet")
}

func (s *GormStore) CreateFollow(ctx context.Context, follow *model.Follow) error {
	return classify(s.db(ctx).Omit(clause.Associations).Create(follow).Error, "create follow")
}

func (s *GormStore) CreateLike(ctx context.Context, like *model.Like) error {
	return classify(s.db(ctx).Omit(clause.Associations).Create(like).Error, "create like")
}

func (s *GormStore) IncrementRepliesCount(ctx context.Context, tweetID uint) error {
	return classify(increment(s.db(ctx), tweetID, model.RepliesCountColumn), "increment replies count")
}

func (s *GormStore) IncrementLikesCount(ctx context.Context, tweetID uint) error {
	return classify(increment(s.db(ctx), tweetID, model.LikesCountColumn), "increment likes count")
}

func (s *GormStore) CreateReply(ctx context.Context, reply *model.Tweet) error {
	if reply.ParentID == nil {
		return errors.New("create reply: tweet has no parent")
	}
	var tx utils.GormTransaction = func(tx *gorm.DB) error {
		if err := createTweet(tx, reply); err != nil {
			return err
		}
		return increment(tx, *reply.ParentID, model.RepliesCountColumn)
	}
	return classify(s.db(ctx).Transaction(tx), "create reply")
}

func (s *GormStore) CreateLikeAndCount(ctx context.Context, like *model.Like) error {
	var tx utils.GormTransaction = func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(like).Error; err != nil {
			return err
		}
		return increment(tx, like.TweetID, model.LikesCountColumn)
	}
	return classify(s.db(ctx).Transaction(tx), "create like")
}

func createTweet(db *gorm.DB, tweet *model.Tweet) error {
	return db.Omit(clause.Associations).Create(tweet).Error
}

func increment(db *gorm.DB, tweetID uint, column string) error {
	res := db.Model(&model.Tweet{}).
		Where("id = ?", tweetID).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *GormStore) count(ctx context.Context, value interface{}, table string) (int64, error) {
	var n int64
	err := s.db(ctx).Model(value).Count(&n).Error
	return n, classify(err, "count "+table)
}

func (s *GormStore) CountUsers(ctx context.Context) (int64, error) {
	return s.count(ctx, &model.User{}, "users")
}

func (s *GormStore) CountTweets(ctx context.Context) (int64, error) {
	return s.count(ctx, &model.Tweet{}, "tweets")
}

func (s *GormStore) CountFollows(ctx context.Context) (int64, error) {
	return s.count(ctx, &model.Follow{}, "follows")
}

func (s *GormStore) CountLikes(ctx context.Context) (int64, error) {
	return s.count(ctx, &model.Like{}, "likes")
}

func (s *GormStore) FindUser(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db(ctx).First(&user, id).Error; err != nil {
		return nil, classify(err, "find user")
	}
	return &user, nil
}

func (s *GormStore) FindTweet(ctx context.Context, id uint) (*model.Tweet, error) {
	var tweet model.Tweet
	if err := s.db(ctx).First(&tweet, id).Error; err != nil {
		return nil, classify(err, "find tweet")
	}
	return &tweet, nil
}

func (s *GormStore) ListReplies(ctx context.Context, parentID uint) ([]*model.Tweet, error) {
	replies := []*model.Tweet{}
	err := s.db(ctx).Where("parent_id = ?", parentID).Order("id").Find(&replies).Error
	return replies, classify(err, "list replies")
}

func (s *GormStore) ListFollows(ctx context.Context) ([]*model.Follow, error) {
	follows := []*model.Follow{}
	err := s.db(ctx).Order("follower_id, following_id").Find(&follows).Error
	return follows, classify(err, "list follows")
}

const counterDriftQuery = `
SELECT t.id AS tweet_id, 'replies_count' AS "column", t.replies_count AS stored, COUNT(r.id) AS actual
FROM tweets t
LEFT JOIN tweets r ON r.parent_id = t.id AND r.deleted_at IS NULL
WHERE t.deleted_at IS NULL
GROUP BY t.id
HAVING t.replies_count <> COUNT(r.id)
UNION ALL
SELECT t.id AS tweet_id, 'likes_count' AS "column", t.likes_count AS stored, COUNT(l.tweet_id) AS actual
FROM tweets t
LEFT JOIN likes l ON l.tweet_id = t.id
WHERE t.deleted_at IS NULL
GROUP BY t.id
HAVING t.likes_count <> COUNT(l.tweet_id)
ORDER BY 1, 2`

func (s *GormStore) CounterDrift(ctx context.Context) ([]model.CounterDrift, error) {
	drifts := []model.CounterDrift{}
	err := s.db(ctx).Raw(counterDriftQuery).Scan(&drifts).Error
	return drifts, classify(err, "counter drift")
}

func (s *GormStore) Truncate(ctx context.Context) error {
	err := s.db(ctx).Exec("TRUNCATE TABLE likes, follows, tweets, users RESTART IDENTITY CASCADE").Error
	return classify(err, "truncate")
}

func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
