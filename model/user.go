package model

import (
	"time"

	"gorm.io/gorm"
)

/*

User is a data model for a chirp account

Id: primary key, auto-increment numeric identity
PublicId: opaque identifier exposed to clients, unique
CreatedAt: time when entity is created
UpdatedAt: time when entity is updated
DeletedAt: time when entity is soft deleted

Email: login email, globally unique
Username: handle shown as @username, globally unique
DisplayName: free form name, doesn't need to be unique
Bio: optional profile text
Avatar: optional avatar URL
Verified: whether the account carries the verified badge
Tweets: tweets authored by this user, "has-many" relation

*/

type User struct {
	Id          uint   `gorm:"primaryKey"`
	PublicId    string `gorm:"uniqueIndex;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
	Email       string         `gorm:"uniqueIndex;not null"`
	Username    string         `gorm:"uniqueIndex;not null"`
	DisplayName string
	Bio         *string
	Avatar      *string
	Verified    bool     `gorm:"not null;default:false"`
	Tweets      []*Tweet `json:"tweets" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
}
