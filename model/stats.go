package model

// SeedingStats holds the row count of each seeded table.
type SeedingStats struct {
	Users   int64 `json:"users"`
	Tweets  int64 `json:"tweets"`
	Follows int64 `json:"follows"`
	Likes   int64 `json:"likes"`
}

const (
	RepliesCountColumn = "replies_count"
	LikesCountColumn   = "likes_count"
)

// CounterDrift describes a denormalized tweet counter that disagrees with the
// aggregate it mirrors.
type CounterDrift struct {
	TweetID uint   `json:"tweetId"`
	Column  string `json:"column"`
	Stored  int64  `json:"stored"`
	Actual  int64  `json:"actual"`
}
