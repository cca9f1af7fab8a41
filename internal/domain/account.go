package domain

import "time"

// Account is the domain model for registered users who can own tickets.
type Account struct {
	ID        int64
	Username  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
