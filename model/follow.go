package model

import (
	"time"
)

/*

Follow is a directed edge between two users, FollowerID follows FollowingID

FollowerID: user who follows, part of the composite primary key
FollowingID: user being followed, part of the composite primary key
CreatedAt: time when relation is created

The composite key makes every (follower, following) pair unique. Nothing in
the schema forbids FollowerID == FollowingID, writers have to filter that.

*/

type Follow struct {
	FollowerID  uint  `gorm:"primaryKey"`
	FollowingID uint  `gorm:"primaryKey;index"`
	Follower    *User `gorm:"constraint:OnDelete:CASCADE;"`
	Following   *User `gorm:"constraint:OnDelete:CASCADE;"`
	CreatedAt   time.Time
}
