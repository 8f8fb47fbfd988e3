package models

import "time"

// FollowRequest is consumed on accept or cancel, never transitioned:
// Status stays "pending" for the whole life of the row.
type FollowRequest struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	RequesterID uint      `gorm:"not null;uniqueIndex:idx_follow_request_pair" json:"-"`
	TargetID    uint      `gorm:"not null;uniqueIndex:idx_follow_request_pair" json:"-"`
	Status      string    `gorm:"not null;default:'pending'" json:"status"`

	Requester User `json:"-" gorm:"foreignKey:RequesterID;constraint:OnDelete:CASCADE"`
	Target    User `json:"-" gorm:"foreignKey:TargetID;constraint:OnDelete:CASCADE"`
}
