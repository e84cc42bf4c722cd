package domain

import "time"

// User represents a registered (or guest) account that owns contacts and tasks.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Profile *UserProfile `json:"profile,omitempty"`
}

// UserProfile is the 1:1 companion record created together with its User.
type UserProfile struct {
	UserID    string    `json:"user_id"`
	IsGuest   bool      `json:"is_guest"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) IsGuest() bool {
	return u != nil && u.Profile != nil && u.Profile.IsGuest
}
