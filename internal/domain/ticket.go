package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPending TicketStatus = "PENDING"
	TicketStatusDone    TicketStatus = "DONE"
	TicketStatusCancel  TicketStatus = "CANCEL"
)

// Valid reports whether the status is one of the known states.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusDone, TicketStatusCancel:
		return true
	}
	return false
}

// Ticket is the aggregate for units of work.
type Ticket struct {
	ID          int64
	Title       string
	Description string
	Status      TicketStatus
	// OwnerID references the owning account; nil means unassigned.
	OwnerID   *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Assigned reports whether the ticket currently has an owner.
func (t *Ticket) Assigned() bool {
	return t.OwnerID != nil
}
