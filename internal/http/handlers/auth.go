package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orionjupiterai/finbrain-api/internal/auth"
	"github.com/orionjupiterai/finbrain-api/internal/domain/session"
	"github.com/orionjupiterai/finbrain-api/internal/domain/user"
	"github.com/orionjupiterai/finbrain-api/internal/notifications"
	"github.com/orionjupiterai/finbrain-api/internal/security"
	"github.com/orionjupiterai/finbrain-api/internal/store"
)

type AuthHandler struct {
	users    store.Users
	sessions store.Sessions
	tokens   auth.TokenSource
	notifier notifications.Notifier
}

// NewAuthHandler builds the handler. notifier may be nil, in which case no
// welcome notification is sent.
func NewAuthHandler(users store.Users, sessions store.Sessions, tokens auth.TokenSource, notifier notifications.Notifier) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions, tokens: tokens, notifier: notifier}
}

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FullName  string `json:"full_name"`
	IsOfficer bool   `json:"is_officer"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(ctx *gin.Context) {
	var req RegisterRequest
	if !BindJSON(ctx, &req) {
		return
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	u := user.New(req.Email, hash, req.FullName, req.IsOfficer)

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	if err := h.users.Create(cctx, u); err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			RespondError(ctx, http.StatusBadRequest, "email_taken", "Email already registered", nil)
			return
		}
		RespondInternal(ctx, "Could not create user")
		return
	}

	if h.notifier != nil {
		go h.sendWelcome(u)
	}

	ctx.JSON(http.StatusCreated, u)
}

// sendWelcome runs off the request goroutine; the request context is about
// to die, so it gets its own deadline.
func (h *AuthHandler) sendWelcome(u user.User) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	in := notifications.WelcomeInput{Email: u.Email, Name: u.FullName}
	if err := h.notifier.SendWelcome(ctx, in); err != nil {
		slog.WarnContext(ctx, "welcome notification failed",
			slog.String("email", u.Email),
			slog.String("error", err.Error()),
		)
	}
}

// Login trades credentials for an opaque bearer token. Unknown email and
// wrong password answer identically so the response never reveals which
// half failed.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	u, err := h.users.GetByEmail(cctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnAuthorized(ctx, "invalid_credentials", "Incorrect email or password")
			return
		}
		RespondInternal(ctx, "Could not log in")
		return
	}

	if err := security.CheckPassword(u.PasswordHash, req.Password); err != nil {
		RespondUnAuthorized(ctx, "invalid_credentials", "Incorrect email or password")
		return
	}

	token, err := h.tokens.NewToken()
	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	if err := h.sessions.Create(cctx, session.Session{Token: token, UserEmail: u.Email}); err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
		"user":         u,
	})
}

func (h *AuthHandler) Me(ctx *gin.Context) {
	email, ok := requireEmail(ctx)
	if !ok {
		return
	}

	cctx, cancel := storeCtx(ctx)
	defer cancel()

	u, err := h.users.GetByEmail(cctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// session points at a user the store no longer has
			RespondUnAuthorized(ctx, "invalid_token", "Invalid token")
			return
		}
		RespondInternal(ctx, "Could not fetch user")
		return
	}

	ctx.JSON(http.StatusOK, u)
}
