package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/taskdesk/ticket-management/internal/cache"
	"github.com/taskdesk/ticket-management/internal/domain"
	"github.com/taskdesk/ticket-management/internal/events"
	"github.com/taskdesk/ticket-management/internal/repository"
	apperrors "github.com/taskdesk/ticket-management/pkg/util"
)

var validate = validator.New()

// AccountService enforces account uniqueness invariants and orchestrates
// account CRUD.
type AccountService struct {
	accounts   repository.AccountRepository
	tickets    repository.TicketRepository
	cache      *cache.EntityCache
	dispatcher events.Dispatcher
}

// AccountDependencies bundles collaborators for the account service.
type AccountDependencies struct {
	AccountRepo repository.AccountRepository
	TicketRepo  repository.TicketRepository
	Cache       *cache.EntityCache
	Dispatcher  events.Dispatcher
}

// AccountCreateInput describes account creation payload.
type AccountCreateInput struct {
	Username string
	Email    string
}

// AccountUpdateInput describes a partial account update. Nil fields are
// left untouched, which keeps "not supplied" distinct from "supplied empty".
type AccountUpdateInput struct {
	Username *string
	Email    *string
}

// NewAccountService constructs the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	return &AccountService{
		accounts:   deps.AccountRepo,
		tickets:    deps.TicketRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
	}
}

// CreateAccount validates and persists a new account. The username checks run
// before the email checks, so a payload violating both reports the username
// conflict.
func (s *AccountService) CreateAccount(ctx context.Context, input AccountCreateInput) (*domain.Account, error) {
	if strings.TrimSpace(input.Username) == "" {
		return nil, apperrors.NewValidationError("username is required", nil)
	}
	if err := s.checkUsernameFree(ctx, input.Username); err != nil {
		return nil, err
	}
	if err := validate.Var(input.Email, "required,email"); err != nil {
		return nil, apperrors.NewValidationError("email must be a valid address", map[string]any{"email": input.Email})
	}
	if err := s.checkEmailFree(ctx, input.Email); err != nil {
		return nil, err
	}

	account := &domain.Account{
		Username: input.Username,
		Email:    input.Email,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type: events.EventAccountCreated,
		Payload: events.AccountCreatedPayload{
			AccountID: account.ID,
			Username:  account.Username,
			Email:     account.Email,
		},
	})
	return account, nil
}

// GetAccount fetches a single account by id.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (*domain.Account, error) {
	var cached domain.Account
	if s.cache.Get(ctx, s.cache.AccountKey(id), &cached) {
		return &cached, nil
	}

	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", id)
		}
		return nil, apperrors.MapError(err)
	}
	s.cache.Set(ctx, s.cache.AccountKey(id), account)
	return account, nil
}

// ListAccounts returns all accounts in store order.
func (s *AccountService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// ListTicketsForAccount returns all tickets owned by the account.
func (s *AccountService) ListTicketsForAccount(ctx context.Context, id int64) ([]domain.Ticket, error) {
	if err := s.verifyAccount(ctx, id); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.ListByOwner(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if tickets == nil {
		tickets = []domain.Ticket{}
	}
	return tickets, nil
}

// UpdateAccount applies a partial update. Fields that are absent or equal to
// the current value are untouched; a changed username or email is re-checked
// for uniqueness before being applied.
func (s *AccountService) UpdateAccount(ctx context.Context, id int64, input AccountUpdateInput) (*domain.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("account", id)
		}
		return nil, apperrors.MapError(err)
	}

	changed := false
	if input.Username != nil && *input.Username != account.Username {
		if strings.TrimSpace(*input.Username) == "" {
			return nil, apperrors.NewValidationError("username is required", nil)
		}
		if err := s.checkUsernameFree(ctx, *input.Username); err != nil {
			return nil, err
		}
		account.Username = *input.Username
		changed = true
	}
	if input.Email != nil && *input.Email != account.Email {
		if err := validate.Var(*input.Email, "required,email"); err != nil {
			return nil, apperrors.NewValidationError("email must be a valid address", map[string]any{"email": *input.Email})
		}
		if err := s.checkEmailFree(ctx, *input.Email); err != nil {
			return nil, err
		}
		account.Email = *input.Email
		changed = true
	}

	if !changed {
		return account, nil
	}
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.Invalidate(ctx, s.cache.AccountKey(id))
	return account, nil
}

// DeleteAccount removes the account. Owned tickets are released back to the
// unassigned pool by the store (owner reference nulled, not cascade-deleted).
func (s *AccountService) DeleteAccount(ctx context.Context, id int64) error {
	if err := s.verifyAccount(ctx, id); err != nil {
		return err
	}

	// cached copies of owned tickets go stale once the store nulls the owner
	owned, err := s.tickets.ListByOwner(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}

	if err := s.accounts.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("account", id)
		}
		return apperrors.MapError(err)
	}

	keys := []string{s.cache.AccountKey(id)}
	for _, ticket := range owned {
		keys = append(keys, s.cache.TicketKey(ticket.ID))
	}
	s.cache.Invalidate(ctx, keys...)

	s.publishEvent(ctx, events.Event{
		Type:    events.EventAccountDeleted,
		Payload: events.AccountDeletedPayload{AccountID: id},
	})
	return nil
}

func (s *AccountService) verifyAccount(ctx context.Context, id int64) error {
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("account", id)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AccountService) checkUsernameFree(ctx context.Context, username string) error {
	exists, err := s.accounts.ExistsByUsername(ctx, username)
	if err != nil {
		return apperrors.MapError(err)
	}
	if exists {
		return apperrors.NewUsernameConflict(username)
	}
	return nil
}

func (s *AccountService) checkEmailFree(ctx context.Context, email string) error {
	exists, err := s.accounts.ExistsByEmail(ctx, email)
	if err != nil {
		return apperrors.MapError(err)
	}
	if exists {
		return apperrors.NewEmailConflict(email)
	}
	return nil
}

func (s *AccountService) publishEvent(ctx context.Context, event events.Event) {
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
