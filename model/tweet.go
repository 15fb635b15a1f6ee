package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MaxTweetLength is the size bound of Tweet.Content, counted in characters.
const MaxTweetLength = 280

/*

Tweet is a short post written by a user, either top level or a reply

Id: primary key, auto-increment numeric identity
PublicId: opaque identifier exposed to clients, unique
CreatedAt: time when entity is created
UpdatedAt: time when entity is updated
DeletedAt: time when entity is soft deleted

Content: tweet text, at most MaxTweetLength characters
AuthorID:
Author: user who wrote the tweet, "belongs-to" relation, required
ParentID:
Parent: tweet this one replies to, nil for top level tweets. Self referencing
		"belongs-to" relation which forms reply threads.
Media: ordered list of media URLs stored as a JSON array, null when absent

LikesCount: denormalized number of Like rows referencing this tweet
RepliesCount: denormalized number of tweets whose ParentID is this tweet
RetweetsCount: denormalized number of retweets

Both LikesCount and RepliesCount are maintained incrementally by the writer
of the child row, they are never recomputed on read.

*/

type Tweet struct {
	Id            uint   `gorm:"primaryKey"`
	PublicId      string `gorm:"uniqueIndex;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     gorm.DeletedAt `gorm:"index"`
	Content       string         `gorm:"size:280;not null"`
	AuthorID      uint           `gorm:"not null;index"`
	Author        *User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ParentID      *uint          `gorm:"index"`
	Parent        *Tweet         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Media         datatypes.JSON
	LikesCount    int `gorm:"not null;default:0"`
	RepliesCount  int `gorm:"not null;default:0"`
	RetweetsCount int `gorm:"not null;default:0"`
}

// IsReply returns true iff the tweet belongs to a reply thread.
func (t Tweet) IsReply() bool {
	return t.ParentID != nil
}
