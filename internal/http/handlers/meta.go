package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orionjupiterai/finbrain-api/internal/store"
)

const apiVersion = "v1"

// MetaHandler serves the banner and status endpoints that describe the
// deployment itself.
type MetaHandler struct {
	users    store.Users
	sessions store.Sessions
	accounts store.Accounts
}

func NewMetaHandler(users store.Users, sessions store.Sessions, accounts store.Accounts) *MetaHandler {
	return &MetaHandler{users: users, sessions: sessions, accounts: accounts}
}

func (h *MetaHandler) Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message":   "Welcome to FinBrain API",
		"status":    "operational",
		"timestamp": time.Now().UTC(),
		"endpoints": gin.H{
			"health":   "/health",
			"status":   "/api/v1/status",
			"register": "/api/v1/auth/register",
			"login":    "/api/v1/auth/login",
			"me":       "/api/v1/users/me",
			"accounts": "/api/v1/accounts",
		},
	})
}

// Test exists for smoke checks after a deploy; it proves routing without
// touching any store.
func (h *MetaHandler) Test(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"message": "Server is working!",
		"time":    time.Now().UTC(),
	})
}

// APIStatus reports live counts from all three stores.
func (h *MetaHandler) APIStatus(ctx *gin.Context) {
	cctx, cancel := storeCtx(ctx)
	defer cancel()

	users, err := h.users.Count(cctx)
	if err != nil {
		RespondInternal(ctx, "Could not read status")
		return
	}

	sessions, err := h.sessions.Count(cctx)
	if err != nil {
		RespondInternal(ctx, "Could not read status")
		return
	}

	accounts, err := h.accounts.Count(cctx)
	if err != nil {
		RespondInternal(ctx, "Could not read status")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"api_version":      apiVersion,
		"status":           "active",
		"registered_users": users,
		"active_sessions":  sessions,
		"total_accounts":   accounts,
	})
}
