package models

import "time"

const MaxImagesPerMarker = 4

type Marker struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Latitude    float64        `json:"latitude" gorm:"not null;type:decimal(10,8)"`
	Longitude   float64        `json:"longitude" gorm:"not null;type:decimal(11,8)"`
	Title       string         `json:"title" gorm:"size:100"`
	Description string         `json:"description" gorm:"size:500"`
	Category    string         `json:"category" gorm:"size:50"`
	IsPublic    *bool          `json:"isPublic" gorm:"default:true"`
	UserID      uint           `json:"userId" gorm:"not null;index"`

	User        User           `json:"-" gorm:"foreignKey:UserID"`
	Images      []Image        `json:"images" gorm:"foreignKey:MarkerID;constraint:OnDelete:CASCADE"`
	Viewers     []MarkerViewer `json:"viewers" gorm:"foreignKey:MarkerID;constraint:OnDelete:CASCADE"`
	WeatherInfo *WeatherInfo   `json:"weatherInfo,omitempty" gorm:"foreignKey:MarkerID;constraint:OnDelete:CASCADE"`
}

// Public reports the effective visibility flag. IsPublic is a pointer so
// an omitted JSON field keeps the column default (true) instead of
// forcing false on create.
func (m *Marker) Public() bool {
	return m.IsPublic == nil || *m.IsPublic
}
