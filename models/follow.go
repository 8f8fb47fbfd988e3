package models

import "time"

// Follow is a single directed edge in the social graph. Both the
// Followers and Following views on User resolve through this table, so
// the two sides can never disagree.
type Follow struct {
	FollowerUserID  uint      `gorm:"primaryKey;autoIncrement:false" json:"followerUserId"`
	FollowingUserID uint      `gorm:"primaryKey;autoIncrement:false" json:"followingUserId"`
	CreatedAt       time.Time `json:"created_at"`
}
