package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/taskdesk/ticket-management/pkg/util"
)

func TestAccountService_CreateAccount(t *testing.T) {
	fx := newServiceFixtures()
	ctx := context.Background()

	account, err := fx.accounts.CreateAccount(ctx, AccountCreateInput{
		Username: "alice",
		Email:    "alice@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), account.ID)
	assert.Equal(t, "alice", account.Username)
	assert.Equal(t, "alice@example.com", account.Email)
}

func TestAccountService_CreateAccount_BlankUsername(t *testing.T) {
	fx := newServiceFixtures()

	_, err := fx.accounts.CreateAccount(context.Background(), AccountCreateInput{
		Username: "   ",
		Email:    "alice@example.com",
	})

	requireDomainError(t, err, "VALIDATION_FAILED", 400)
}

func TestAccountService_CreateAccount_MalformedEmail(t *testing.T) {
	fx := newServiceFixtures()

	_, err := fx.accounts.CreateAccount(context.Background(), AccountCreateInput{
		Username: "alice",
		Email:    "not-an-email",
	})

	requireDomainError(t, err, "VALIDATION_FAILED", 400)
}

func TestAccountService_CreateAccount_UsernameConflict(t *testing.T) {
	fx := newServiceFixtures()
	ctx := context.Background()

	_, err := fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "alice", Email: "other@example.com"})
	requireDomainError(t, err, "USERNAME_CONFLICT", 409)

	// the existing record is untouched
	existing, err := fx.accounts.GetAccount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", existing.Email)
}

func TestAccountService_CreateAccount_EmailConflict(t *testing.T) {
	fx := newServiceFixtures()
	ctx := context.Background()

	_, err := fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	_, err = fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "bob", Email: "alice@example.com"})
	requireDomainError(t, err, "EMAIL_CONFLICT", 409)
}

func TestAccountService_CreateAccount_UsernameCheckedBeforeEmail(t *testing.T) {
	fx := newServiceFixtures()
	ctx := context.Background()

	_, err := fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	// both fields collide; the username conflict wins
	_, err = fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "alice", Email: "alice@example.com"})
	requireDomainError(t, err, "USERNAME_CONFLICT", 409)

	// a taken username is reported even when the email would not validate
	_, err = fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "alice", Email: "not-an-email"})
	requireDomainError(t, err, "USERNAME_CONFLICT", 409)
}

func TestAccountService_GetAccount_NotFound(t *testing.T) {
	fx := newServiceFixtures()

	_, err := fx.accounts.GetAccount(context.Background(), 999)
	requireDomainError(t, err, "NOT_FOUND", 404)
}

func TestAccountService_GetAccount_ReadIsIdempotent(t *testing.T) {
	fx := newServiceFixtures()
	ctx := context.Background()

	created, err := fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	first, err := fx.accounts.GetAccount(ctx, created.ID)
	require.NoError(t, err)
	second, err := fx.accounts.GetAccount(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAccountService_ListAccounts_EmptyStore(t *testing.T) {
	fx := newServiceFixtures()

	accounts, err := fx.accounts.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Empty(t, accounts)
}

func TestAccountService_ListAccounts_InsertionOrder(t *testing.T) {
	fx := newServiceFixtures()
	ctx := context.Background()

	for _, in := range []AccountCreateInput{
		{Username: "alice", Email: "alice@example.com"},
		{Username: "bob", Email: "bob@example.com"},
	} {
		_, err := fx.accounts.CreateAccount(ctx, in)
		require.NoError(t, err)
	}

	accounts, err := fx.accounts.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "alice", accounts[0].Username)
	assert.Equal(t, "bob", accounts[1].Username)
}

func TestAccountService_ListTicketsForAccount(t *testing.T) {
	fx := newServiceFixtures()
	ctx := context.Background()

	account, err := fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	tickets, err := fx.accounts.ListTicketsForAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.NotNil(t, tickets)
	assert.Empty(t, tickets)

	ticket, err := fx.tickets.CreateTicket(ctx, TicketCreateInput{Title: "Fix bug"})
	require.NoError(t, err)
	_, err = fx.tickets.AssignTicket(ctx, ticket.ID, account.ID)
	require.NoError(t, err)

	tickets, err = fx.accounts.ListTicketsForAccount(ctx, account.ID)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, ticket.ID, tickets[0].ID)
}

func TestAccountService_ListTicketsForAccount_NotFound(t *testing.T) {
	fx := newServiceFixtures()

	_, err := fx.accounts.ListTicketsForAccount(context.Background(), 42)
	requireDomainError(t, err, "NOT_FOUND", 404)
}

func TestAccountService_UpdateAccount_EmptyPatchIsNoop(t *testing.T) {
	fx := newServiceFixtures()
	ctx := context.Background()

	created, err := fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	updated, err := fx.accounts.UpdateAccount(ctx, created.ID, AccountUpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, created.Username, updated.Username)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.UpdatedAt, updated.UpdatedAt)
}

func TestAccountService_UpdateAccount_SameValueSkipsUniquenessCheck(t *testing.T) {
	fx := newServiceFixtures()
	ctx := context.Background()

	created, err := fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	checksAfterCreate := fx.accountRepo.usernameChecks

	_, err = fx.accounts.UpdateAccount(ctx, created.ID, AccountUpdateInput{Username: strPtr("alice")})
	require.NoError(t, err)
	assert.Equal(t, checksAfterCreate, fx.accountRepo.usernameChecks)
}

func TestAccountService_UpdateAccount_ChangedFieldsRevalidated(t *testing.T) {
	fx := newServiceFixtures()
	ctx := context.Background()

	_, err := fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)
	bob, err := fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "bob", Email: "bob@example.com"})
	require.NoError(t, err)

	_, err = fx.accounts.UpdateAccount(ctx, bob.ID, AccountUpdateInput{Username: strPtr("alice")})
	requireDomainError(t, err, "USERNAME_CONFLICT", 409)

	_, err = fx.accounts.UpdateAccount(ctx, bob.ID, AccountUpdateInput{Email: strPtr("alice@example.com")})
	requireDomainError(t, err, "EMAIL_CONFLICT", 409)

	updated, err := fx.accounts.UpdateAccount(ctx, bob.ID, AccountUpdateInput{
		Username: strPtr("robert"),
		Email:    strPtr("robert@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, "robert", updated.Username)
	assert.Equal(t, "robert@example.com", updated.Email)
}

func TestAccountService_UpdateAccount_NotFound(t *testing.T) {
	fx := newServiceFixtures()

	_, err := fx.accounts.UpdateAccount(context.Background(), 7, AccountUpdateInput{Username: strPtr("x")})
	requireDomainError(t, err, "NOT_FOUND", 404)
}

func TestAccountService_DeleteAccount(t *testing.T) {
	fx := newServiceFixtures()
	ctx := context.Background()

	created, err := fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	require.NoError(t, fx.accounts.DeleteAccount(ctx, created.ID))

	_, err = fx.accounts.GetAccount(ctx, created.ID)
	requireDomainError(t, err, "NOT_FOUND", 404)
}

func TestAccountService_DeleteAccount_MissingLeavesStoreUntouched(t *testing.T) {
	fx := newServiceFixtures()
	ctx := context.Background()

	_, err := fx.accounts.CreateAccount(ctx, AccountCreateInput{Username: "alice", Email: "alice@example.com"})
	require.NoError(t, err)

	err = fx.accounts.DeleteAccount(ctx, 999)
	requireDomainError(t, err, "NOT_FOUND", 404)

	accounts, err := fx.accounts.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}

func requireDomainError(t *testing.T, err error, code string, status int) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, code, domainErr.Code)
	assert.Equal(t, status, domainErr.HTTPStatus)
}

func requireNotFound(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()
	domainErr := apperrors.ToDomainError(err)
	require.Equal(t, "NOT_FOUND", domainErr.Code)
	return domainErr
}
