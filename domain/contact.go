package domain

import (
	"strings"
	"time"
)

// DefaultContactColor is assigned when a contact is created without a color.
const DefaultContactColor = "#6e6ee5"

// Contact belongs to exactly one user and can be assigned to that user's tasks.
type Contact struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Initials derives display initials from the contact's name: first letter of
// the first and last whitespace-separated tokens, uppercased. A single token
// yields one letter, an empty name an empty string.
func (c *Contact) Initials() string {
	if c == nil {
		return ""
	}
	parts := strings.Fields(c.Name)
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return firstLetter(parts[0])
	default:
		return firstLetter(parts[0]) + firstLetter(parts[len(parts)-1])
	}
}

func firstLetter(s string) string {
	for _, r := range s {
		return strings.ToUpper(string(r))
	}
	return ""
}
