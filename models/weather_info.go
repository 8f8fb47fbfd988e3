package models

// WeatherInfo is an optional snapshot taken when the marker was placed.
// At most one per marker; deleted with it.
type WeatherInfo struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Temp        float64 `json:"temp"`
	Dt          int64   `json:"dt"`
	Location    string  `json:"location"`
	Icon        string  `json:"icon"`
	Country     string  `json:"country"`
	Description string  `json:"description"`
	MarkerID    uint    `gorm:"index" json:"-"`
}
