package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taskdesk/ticket-management/internal/cache"
	"github.com/taskdesk/ticket-management/internal/domain"
	"github.com/taskdesk/ticket-management/internal/events"
	"github.com/taskdesk/ticket-management/internal/repository"
	apperrors "github.com/taskdesk/ticket-management/pkg/util"
)

// TicketService enforces the ticket lifecycle and the one-shot assignment
// protocol, and orchestrates ticket CRUD.
type TicketService struct {
	tickets    repository.TicketRepository
	accounts   repository.AccountRepository
	cache      *cache.EntityCache
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	AccountRepo repository.AccountRepository
	Cache       *cache.EntityCache
	Dispatcher  events.Dispatcher
}

// TicketCreateInput describes ticket creation payload. An empty Status
// defaults to PENDING.
type TicketCreateInput struct {
	Title       string
	Description string
	Status      domain.TicketStatus
}

// TicketUpdateInput describes a partial ticket update. Nil fields are left
// untouched. Ownership is never altered through updates.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Status      *domain.TicketStatus
}

// AssignedResult is the composite outcome of a successful assignment.
type AssignedResult struct {
	AccountID int64
	Username  string
	Email     string
	Ticket    *domain.Ticket
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		accounts:   deps.AccountRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket persists a new, unassigned ticket.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	status := input.Status
	if status == "" {
		status = domain.TicketStatusPending
	}
	if !status.Valid() {
		return nil, apperrors.NewValidationError("unknown ticket status", map[string]any{"status": status})
	}

	ticket := &domain.Ticket{
		Title:       input.Title,
		Description: input.Description,
		Status:      status,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type: events.EventTicketCreated,
		Payload: events.TicketCreatedPayload{
			TicketID: ticket.ID,
			Title:    ticket.Title,
			Status:   ticket.Status,
		},
	})
	return ticket, nil
}

// ListTickets returns all tickets in store order.
func (s *TicketService) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// GetTicket fetches a single ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.Ticket, error) {
	var cached domain.Ticket
	if s.cache.Get(ctx, s.cache.TicketKey(id), &cached) {
		return &cached, nil
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", id)
		}
		return nil, apperrors.MapError(err)
	}
	s.cache.Set(ctx, s.cache.TicketKey(id), ticket)
	return ticket, nil
}

// UpdateTicket applies a partial update to title, description and status.
// Absent fields and fields equal to the current value are untouched.
func (s *TicketService) UpdateTicket(ctx context.Context, id int64, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", id)
		}
		return nil, apperrors.MapError(err)
	}

	oldStatus := ticket.Status
	changed := false
	if input.Title != nil && *input.Title != ticket.Title {
		ticket.Title = *input.Title
		changed = true
	}
	if input.Description != nil && *input.Description != ticket.Description {
		ticket.Description = *input.Description
		changed = true
	}
	if input.Status != nil && *input.Status != ticket.Status {
		if !input.Status.Valid() {
			return nil, apperrors.NewValidationError("unknown ticket status", map[string]any{"status": *input.Status})
		}
		ticket.Status = *input.Status
		changed = true
	}

	if !changed {
		return ticket, nil
	}
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx, s.cache.TicketKey(id))

	if oldStatus != ticket.Status {
		s.publishEvent(ctx, events.Event{
			Type: events.EventTicketUpdated,
			Payload: events.TicketUpdatedPayload{
				TicketID:  ticket.ID,
				OldStatus: oldStatus,
				NewStatus: ticket.Status,
			},
		})
	}
	return ticket, nil
}

// DeleteTicket removes the ticket.
func (s *TicketService) DeleteTicket(ctx context.Context, id int64) error {
	if _, err := s.tickets.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", id)
		}
		return apperrors.MapError(err)
	}
	if err := s.tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("ticket", id)
		}
		return apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx, s.cache.TicketKey(id))

	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketDeleted,
		Payload: events.TicketDeletedPayload{TicketID: id},
	})
	return nil
}

// AssignTicket sets the ticket's owner to the account. The account is looked
// up before the ticket, so assigning to a missing account reports the
// account error even when the ticket is missing too. A ticket that already
// has an owner is a conflict regardless of who owns it.
func (s *TicketService) AssignTicket(ctx context.Context, ticketID, accountID int64) (*AssignedResult, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", accountID)
		}
		return nil, apperrors.MapError(err)
	}

	ticket, err := s.tickets.AssignOwner(ctx, ticketID, accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", ticketID)
		}
		if errors.Is(err, repository.ErrAlreadyAssigned) {
			return nil, apperrors.NewAssignmentConflict(ticketID)
		}
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx, s.cache.TicketKey(ticketID))

	s.publishEvent(ctx, events.Event{
		Type: events.EventTicketAssigned,
		Payload: events.TicketAssignedPayload{
			TicketID:  ticket.ID,
			AccountID: account.ID,
			Username:  account.Username,
		},
	})

	return &AssignedResult{
		AccountID: account.ID,
		Username:  account.Username,
		Email:     account.Email,
		Ticket:    ticket,
	}, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
