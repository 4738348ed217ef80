package entity

import "time"

// Place is a geocoded listing owned by exactly one user. Latitude and
// longitude are resolved from Address at creation time and never
// user-supplied; Address and coordinates are immutable afterwards.
type Place struct {
	ID          string
	Title       string
	Description string
	Address     string
	Latitude    float64
	Longitude   float64
	ImageURL    string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
