package domain

import "time"

// Token represents issued access token metadata.
type Token struct {
	ID        string
	UserID    string
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}
