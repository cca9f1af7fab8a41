package dto

import (
	"time"

	"github.com/taskdesk/ticket-management/internal/domain"
)

// CreateTicketRequest payload. Status may be omitted and defaults to PENDING.
type CreateTicketRequest struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
}

// UpdateTicketRequest payload. Pointer fields distinguish "absent" from
// "supplied as empty". Ownership cannot be changed through updates.
type UpdateTicketRequest struct {
	Title       *string              `json:"title"`
	Description *string              `json:"description"`
	Status      *domain.TicketStatus `json:"status"`
}

// TicketResponse representation of a persisted ticket.
type TicketResponse struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	OwnerID     *int64              `json:"owner_id"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// AssignedResponse is the composite result of a successful assignment.
type AssignedResponse struct {
	AccountID int64          `json:"account_id"`
	Username  string         `json:"username"`
	Email     string         `json:"email"`
	Ticket    TicketResponse `json:"ticket"`
}
