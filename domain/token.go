package domain

import "time"

// AuthToken is an opaque credential bound 1:1 to a user. It is minted on the
// first successful authentication and reused on every login after that.
type AuthToken struct {
	UserID    string    `json:"user_id"`
	Key       string    `json:"key"`
	CreatedAt time.Time `json:"created_at"`
}
