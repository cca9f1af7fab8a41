package dto

import "time"

// CreateAccountRequest payload for new accounts.
type CreateAccountRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateAccountRequest payload. Pointer fields distinguish "absent" from
// "supplied as empty".
type UpdateAccountRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// AccountResponse representation of a persisted account.
type AccountResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
