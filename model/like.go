package model

import (
	"time"
)

/*

Like is a "many-to-many" relation of a user liking a tweet

UserID: user id, part of the composite primary key
TweetID: tweet id, part of the composite primary key
CreatedAt: time when relation is created

*/

type Like struct {
	UserID    uint   `gorm:"primaryKey"`
	TweetID   uint   `gorm:"primaryKey;index"`
	User      *User  `gorm:"constraint:OnDelete:CASCADE;"`
	Tweet     *Tweet `gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt time.Time
}
