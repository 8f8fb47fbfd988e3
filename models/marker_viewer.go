package models

import "time"

// MarkerViewer grants one user visibility of one marker regardless of
// the marker's public flag or the follow graph.
type MarkerViewer struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	MarkerID  uint      `gorm:"not null;uniqueIndex:idx_marker_viewer_pair" json:"markerId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_marker_viewer_pair" json:"userId"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}
