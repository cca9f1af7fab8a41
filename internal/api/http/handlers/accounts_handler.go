package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/taskdesk/ticket-management/internal/api/dto"
	"github.com/taskdesk/ticket-management/internal/domain"
	"github.com/taskdesk/ticket-management/internal/service"
	apperrors "github.com/taskdesk/ticket-management/pkg/util"
)

// AccountsHandler manages account endpoints.
type AccountsHandler struct {
	service *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accountService *service.AccountService) *AccountsHandler {
	return &AccountsHandler{service: accountService}
}

// CreateAccount POST /accounts.
func (h *AccountsHandler) CreateAccount(c *fiber.Ctx) error {
	var req dto.CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.service.CreateAccount(c.UserContext(), service.AccountCreateInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(accountResponse(account))
}

// ListAccounts GET /accounts.
func (h *AccountsHandler) ListAccounts(c *fiber.Ctx) error {
	accounts, err := h.service.ListAccounts(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, accountResponse(&accounts[i]))
	}
	return c.JSON(items)
}

// GetAccount GET /accounts/:id.
func (h *AccountsHandler) GetAccount(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	account, err := h.service.GetAccount(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(accountResponse(account))
}

// ListAccountTickets GET /accounts/:id/tickets.
func (h *AccountsHandler) ListAccountTickets(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	tickets, err := h.service.ListTicketsForAccount(c.UserContext(), id)
	if err != nil {
		return err
	}
	items := make([]dto.TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, ticketResponse(&tickets[i]))
	}
	return c.JSON(items)
}

// UpdateAccount PUT /accounts/:id.
func (h *AccountsHandler) UpdateAccount(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	account, err := h.service.UpdateAccount(c.UserContext(), id, service.AccountUpdateInput{
		Username: req.Username,
		Email:    req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(accountResponse(account))
}

// DeleteAccount DELETE /accounts/:id.
func (h *AccountsHandler) DeleteAccount(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteAccount(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func parseID(c *fiber.Ctx, param string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{param: c.Params(param)})
	}
	return id, nil
}

func accountResponse(account *domain.Account) dto.AccountResponse {
	return dto.AccountResponse{
		ID:        account.ID,
		Username:  account.Username,
		Email:     account.Email,
		CreatedAt: account.CreatedAt,
		UpdatedAt: account.UpdatedAt,
	}
}
