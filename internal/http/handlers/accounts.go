package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orionjupiterai/finbrain-api/internal/domain/account"
	"github.com/orionjupiterai/finbrain-api/internal/http/middlewares"
	"github.com/orionjupiterai/finbrain-api/internal/store"
)

type AccountsHandler struct {
	accounts store.Accounts
}

func NewAccountsHandler(accounts store.Accounts) *AccountsHandler {
	return &AccountsHandler{accounts: accounts}
}

func (h *AccountsHandler) Create(ctx *gin.Context) {
	email, ok := requireEmail(ctx)
	if !ok {
		return
	}

	var req account.CreateAccountRequest
	if !BindJSON(ctx, &req) {
		return
	}

	a := account.NewFromCreateRequest(email, req)

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := h.accounts.Create(cctx, a); err != nil {
		RespondInternal(ctx, "Could not create account")
		return
	}

	ctx.JSON(http.StatusCreated, a)
}

// List returns the caller's accounts as a bare array, oldest first.
func (h *AccountsHandler) List(ctx *gin.Context) {
	email, ok := requireEmail(ctx)
	if !ok {
		return
	}

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	accounts, err := h.accounts.ListByOwner(cctx, email)
	if err != nil {
		RespondInternal(ctx, "Could not list accounts")
		return
	}

	ctx.JSON(http.StatusOK, accounts)
}

func (h *AccountsHandler) Get(ctx *gin.Context) {
	a, ok := h.ownedAccount(ctx)
	if !ok {
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, a)
}

func (h *AccountsHandler) Update(ctx *gin.Context) {
	a, ok := h.ownedAccount(ctx)
	if !ok {
		return
	}

	var req account.UpdateAccountRequest
	if !BindJSON(ctx, &req) {
		return
	}

	a.ApplyUpdate(req)

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := h.accounts.Update(cctx, a); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			RespondNotFound(ctx, "Account not found")
			return
		}
		RespondInternal(ctx, "Could not update account")
		return
	}

	ctx.JSON(http.StatusOK, a)
}

func (h *AccountsHandler) Delete(ctx *gin.Context) {
	a, ok := h.ownedAccount(ctx)
	if !ok {
		return
	}

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := h.accounts.Delete(cctx, a.ID); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			RespondNotFound(ctx, "Account not found")
			return
		}
		RespondInternal(ctx, "Could not delete account")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (h *AccountsHandler) Summary(ctx *gin.Context) {
	email, ok := requireEmail(ctx)
	if !ok {
		return
	}

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	accounts, err := h.accounts.ListByOwner(cctx, email)
	if err != nil {
		RespondInternal(ctx, "Could not build summary")
		return
	}

	ctx.JSON(http.StatusOK, account.Summarize(accounts))
}

// ownedAccount loads the account in the id param and enforces ownership:
// unknown ids are 404, foreign accounts are 403. A wrong owner is never
// told 404, so existence of an id is observable but its contents are not.
func (h *AccountsHandler) ownedAccount(ctx *gin.Context) (account.Account, bool) {
	email, ok := requireEmail(ctx)
	if !ok {
		return account.Account{}, false
	}

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	a, err := h.accounts.GetByID(cctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			RespondNotFound(ctx, "Account not found")
			return account.Account{}, false
		}
		RespondInternal(ctx, "Could not fetch account")
		return account.Account{}, false
	}

	if a.UserEmail != email {
		RespondForbidden(ctx, "Not authorized to access this account")
		return account.Account{}, false
	}

	return a, true
}

func requireEmail(ctx *gin.Context) (string, bool) {
	email, ok := middlewares.UserEmailFromContext(ctx)
	if !ok {
		RespondUnAuthorized(ctx, "not_authenticated", "Not authenticated")
		return "", false
	}
	return email, true
}
