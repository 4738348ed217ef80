package entity

import (
	"time"
)

// User is the aggregate root for the identity domain.
// Passwords are stored as bcrypt hashes in Password field.
// PlaceIDs mirrors the user_places membership rows and is only
// mutated by the place lifecycle service inside its transaction.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	AvatarURL string
	PlaceIDs  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}
