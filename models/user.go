package models

import "time"

// User rows are removed for real on account teardown (no soft delete):
// the email column is unique and a deleted account must leave no residue.
type User struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Name            string    `json:"name"`
	Email           string    `gorm:"unique;not null" json:"email"`
	ProfileImageURL string    `json:"profileImageUrl"`

	// Two views over the single follows edge table. A row
	// (follower_user_id, following_user_id) appears as one entry in the
	// follower's Following and one in the followed user's Followers.
	Followers []User `json:"-" gorm:"many2many:follows;foreignKey:ID;joinForeignKey:FollowingUserID;References:ID;joinReferences:FollowerUserID"`
	Following []User `json:"-" gorm:"many2many:follows;foreignKey:ID;joinForeignKey:FollowerUserID;References:ID;joinReferences:FollowingUserID"`

	SentFollowRequests     []FollowRequest `json:"-" gorm:"foreignKey:RequesterID"`
	ReceivedFollowRequests []FollowRequest `json:"-" gorm:"foreignKey:TargetID"`
}

func (u *User) FollowerEmails() []string {
	emails := make([]string, 0, len(u.Followers))
	for _, f := range u.Followers {
		emails = append(emails, f.Email)
	}
	return emails
}

func (u *User) FollowingEmails() []string {
	emails := make([]string, 0, len(u.Following))
	for _, f := range u.Following {
		emails = append(emails, f.Email)
	}
	return emails
}
