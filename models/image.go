package models

import "time"

type Image struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	URL       string    `gorm:"size:1000;uniqueIndex;not null" json:"url"`
	MarkerID  uint      `gorm:"not null;index" json:"markerId"`
}
