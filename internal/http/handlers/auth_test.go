package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orionjupiterai/finbrain-api/internal/domain/session"
	"github.com/orionjupiterai/finbrain-api/internal/domain/user"
	"github.com/orionjupiterai/finbrain-api/internal/http/handlers"
	"github.com/orionjupiterai/finbrain-api/internal/http/middlewares"
	"github.com/orionjupiterai/finbrain-api/internal/notifications"
	"github.com/orionjupiterai/finbrain-api/internal/security"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Fakes for the store contracts the handlers consume.

type fakeUsers struct {
	createFn func(ctx context.Context, u user.User) error
	getFn    func(ctx context.Context, email string) (user.User, error)
	countFn  func(ctx context.Context) (int, error)
}

func (f *fakeUsers) Create(ctx context.Context, u user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, email)
	}
	return user.User{}, user.ErrNotFound
}

func (f *fakeUsers) Count(ctx context.Context) (int, error) {
	if f.countFn != nil {
		return f.countFn(ctx)
	}
	return 0, nil
}

type fakeSessionsStore struct {
	createFn func(ctx context.Context, s session.Session) error
	getFn    func(ctx context.Context, token string) (session.Session, error)
	countFn  func(ctx context.Context) (int, error)
}

func (f *fakeSessionsStore) Create(ctx context.Context, s session.Session) error {
	if f.createFn != nil {
		return f.createFn(ctx, s)
	}
	return nil
}

func (f *fakeSessionsStore) GetByToken(ctx context.Context, token string) (session.Session, error) {
	if f.getFn != nil {
		return f.getFn(ctx, token)
	}
	return session.Session{}, session.ErrNotFound
}

func (f *fakeSessionsStore) Count(ctx context.Context) (int, error) {
	if f.countFn != nil {
		return f.countFn(ctx)
	}
	return 0, nil
}

type fakeTokens struct {
	token string
	err   error
}

func (f *fakeTokens) NewToken() (string, error) {
	return f.token, f.err
}

func setupRouter(method, path string, h gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Handle(method, path, h)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		usersSetUp func(*fakeUsers)
		wantStatus int
		wantCode   string
	}{
		{
			name: "success",
			body: `{"email":"amy@example.com","password":"hunter2","full_name":"Amy Pond","is_officer":true}`,
			usersSetUp: func(f *fakeUsers) {
				f.createFn = func(ctx context.Context, u user.User) error {
					if u.Email != "amy@example.com" {
						t.Fatalf("got email %q, want amy@example.com", u.Email)
					}
					if u.PasswordHash == "hunter2" || u.PasswordHash == "" {
						t.Fatal("password stored without hashing")
					}
					return nil
				}
			},
			wantStatus: http.StatusCreated,
		},
		{
			name: "duplicate_email",
			body: `{"email":"amy@example.com","password":"hunter2"}`,
			usersSetUp: func(f *fakeUsers) {
				f.createFn = func(ctx context.Context, u user.User) error {
					return user.ErrEmailTaken
				}
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "email_taken",
		},
		{
			name:       "missing_password",
			body:       `{"email":"amy@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name:       "bad_email",
			body:       `{"email":"not-an-email","password":"hunter2"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "invalid_request",
		},
		{
			name: "store_error",
			body: `{"email":"amy@example.com","password":"hunter2"}`,
			usersSetUp: func(f *fakeUsers) {
				f.createFn = func(ctx context.Context, u user.User) error {
					return errors.New("store down")
				}
			},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{}
			if tt.usersSetUp != nil {
				tt.usersSetUp(users)
			}

			h := handlers.NewAuthHandler(users, &fakeSessionsStore{}, &fakeTokens{token: "tok"}, nil)
			r := setupRouter(http.MethodPost, "/auth/register", h.Register)

			w := postJSON(r, "/auth/register", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode != "" {
				var resp struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if resp.Error.Code != tt.wantCode {
					t.Fatalf("got code %q, want %q", resp.Error.Code, tt.wantCode)
				}
			}
		})
	}
}

func TestRegisterHandler_NeverEchoesPassword(t *testing.T) {
	h := handlers.NewAuthHandler(&fakeUsers{}, &fakeSessionsStore{}, &fakeTokens{token: "tok"}, nil)
	r := setupRouter(http.MethodPost, "/auth/register", h.Register)

	w := postJSON(r, "/auth/register", `{"email":"amy@example.com","password":"hunter2","full_name":"Amy"}`)

	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201, body=%s", w.Code, w.Body.String())
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}

	if body["email"] != "amy@example.com" || body["full_name"] != "Amy" {
		t.Fatalf("got body %v, want amy@example.com / Amy", body)
	}
	if body["is_officer"] != false {
		t.Fatalf("got is_officer %v, want false by default", body["is_officer"])
	}
	if _, ok := body["created_at"]; !ok {
		t.Fatal("created_at missing from response")
	}
	for _, key := range []string{"password", "password_hash", "PasswordHash"} {
		if _, ok := body[key]; ok {
			t.Fatalf("response leaks %q", key)
		}
	}
}

type fakeNotifier struct {
	got chan notifications.WelcomeInput
}

func (f *fakeNotifier) SendWelcome(_ context.Context, in notifications.WelcomeInput) error {
	f.got <- in
	return nil
}

func TestRegisterHandler_SendsWelcomeNotification(t *testing.T) {
	notifier := &fakeNotifier{got: make(chan notifications.WelcomeInput, 1)}
	h := handlers.NewAuthHandler(&fakeUsers{}, &fakeSessionsStore{}, &fakeTokens{token: "tok"}, notifier)
	r := setupRouter(http.MethodPost, "/auth/register", h.Register)

	w := postJSON(r, "/auth/register", `{"email":"amy@example.com","password":"hunter2","full_name":"Amy"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201, body=%s", w.Code, w.Body.String())
	}

	select {
	case in := <-notifier.got:
		if in.Email != "amy@example.com" || in.Name != "Amy" {
			t.Fatalf("got %+v, want Amy's welcome", in)
		}
	case <-time.After(time.Second):
		t.Fatal("welcome notification never sent")
	}
}

func TestRegisterHandler_NoNotificationOnFailure(t *testing.T) {
	notifier := &fakeNotifier{got: make(chan notifications.WelcomeInput, 1)}
	users := &fakeUsers{
		createFn: func(ctx context.Context, u user.User) error {
			return user.ErrEmailTaken
		},
	}
	h := handlers.NewAuthHandler(users, &fakeSessionsStore{}, &fakeTokens{token: "tok"}, notifier)
	r := setupRouter(http.MethodPost, "/auth/register", h.Register)

	w := postJSON(r, "/auth/register", `{"email":"amy@example.com","password":"hunter2"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	time.Sleep(50 * time.Millisecond)
	if len(notifier.got) != 0 {
		t.Fatal("failed registration still sent a notification")
	}
}

func TestLoginHandler(t *testing.T) {
	hash, err := security.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	knownUser := func(f *fakeUsers) {
		f.getFn = func(ctx context.Context, email string) (user.User, error) {
			if email == "amy@example.com" {
				return user.User{Email: email, PasswordHash: hash, FullName: "Amy"}, nil
			}
			return user.User{}, user.ErrNotFound
		}
	}

	tests := []struct {
		name          string
		body          string
		usersSetUp    func(*fakeUsers)
		sessionsSetUp func(*fakeSessionsStore)
		tokens        *fakeTokens
		wantStatus    int
		wantCode      string
	}{
		{
			name:       "success",
			body:       `{"email":"amy@example.com","password":"hunter2"}`,
			usersSetUp: knownUser,
			tokens:     &fakeTokens{token: "minted-token"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong_password",
			body:       `{"email":"amy@example.com","password":"wrong"}`,
			usersSetUp: knownUser,
			tokens:     &fakeTokens{token: "minted-token"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "invalid_credentials",
		},
		{
			name:       "unknown_email",
			body:       `{"email":"ghost@example.com","password":"hunter2"}`,
			usersSetUp: knownUser,
			tokens:     &fakeTokens{token: "minted-token"},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "invalid_credentials",
		},
		{
			name:       "token_mint_failure",
			body:       `{"email":"amy@example.com","password":"hunter2"}`,
			usersSetUp: knownUser,
			tokens:     &fakeTokens{err: errors.New("entropy exhausted")},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
		{
			name:       "session_store_failure",
			body:       `{"email":"amy@example.com","password":"hunter2"}`,
			usersSetUp: knownUser,
			sessionsSetUp: func(f *fakeSessionsStore) {
				f.createFn = func(ctx context.Context, s session.Session) error {
					return errors.New("store down")
				}
			},
			tokens:     &fakeTokens{token: "minted-token"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{}
			if tt.usersSetUp != nil {
				tt.usersSetUp(users)
			}
			sessions := &fakeSessionsStore{}
			if tt.sessionsSetUp != nil {
				tt.sessionsSetUp(sessions)
			}

			h := handlers.NewAuthHandler(users, sessions, tt.tokens, nil)
			r := setupRouter(http.MethodPost, "/auth/login", h.Login)

			w := postJSON(r, "/auth/login", tt.body)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantStatus == http.StatusOK {
				var resp struct {
					AccessToken string `json:"access_token"`
					TokenType   string `json:"token_type"`
					User        struct {
						Email string `json:"email"`
					} `json:"user"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if resp.AccessToken != "minted-token" {
					t.Fatalf("got token %q, want minted-token", resp.AccessToken)
				}
				if resp.TokenType != "bearer" {
					t.Fatalf("got token_type %q, want bearer", resp.TokenType)
				}
				if resp.User.Email != "amy@example.com" {
					t.Fatalf("got user email %q, want amy@example.com", resp.User.Email)
				}
			}

			if tt.wantCode != "" {
				var resp struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if resp.Error.Code != tt.wantCode {
					t.Fatalf("got code %q, want %q", resp.Error.Code, tt.wantCode)
				}
			}
		})
	}
}

func TestLoginHandler_FailuresAreIndistinguishable(t *testing.T) {
	hash, err := security.HashPassword("hunter2")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	users := &fakeUsers{
		getFn: func(ctx context.Context, email string) (user.User, error) {
			if email == "amy@example.com" {
				return user.User{Email: email, PasswordHash: hash}, nil
			}
			return user.User{}, user.ErrNotFound
		},
	}

	h := handlers.NewAuthHandler(users, &fakeSessionsStore{}, &fakeTokens{token: "tok"}, nil)
	r := setupRouter(http.MethodPost, "/auth/login", h.Login)

	wrongPassword := postJSON(r, "/auth/login", `{"email":"amy@example.com","password":"wrong"}`)
	unknownEmail := postJSON(r, "/auth/login", `{"email":"ghost@example.com","password":"hunter2"}`)

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("got statuses %d and %d, want 401 for both", wrongPassword.Code, unknownEmail.Code)
	}
	if wrongPassword.Body.String() != unknownEmail.Body.String() {
		t.Fatalf("failure bodies differ:\n%s\n%s", wrongPassword.Body.String(), unknownEmail.Body.String())
	}
}

func TestMeHandler(t *testing.T) {
	users := &fakeUsers{
		getFn: func(ctx context.Context, email string) (user.User, error) {
			if email == "amy@example.com" {
				return user.User{Email: email, FullName: "Amy"}, nil
			}
			return user.User{}, user.ErrNotFound
		},
	}

	h := handlers.NewAuthHandler(users, &fakeSessionsStore{}, &fakeTokens{}, nil)

	r := gin.New()
	r.GET("/users/me", func(c *gin.Context) {
		c.Set(middlewares.CtxUserEmail, "amy@example.com")
	}, h.Me)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var body struct {
		Email    string `json:"email"`
		FullName string `json:"full_name"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Email != "amy@example.com" || body.FullName != "Amy" {
		t.Fatalf("got %+v, want Amy's record", body)
	}
}

func TestMeHandler_NoAuthContext(t *testing.T) {
	h := handlers.NewAuthHandler(&fakeUsers{}, &fakeSessionsStore{}, &fakeTokens{}, nil)
	r := setupRouter(http.MethodGet, "/users/me", h.Me)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401, body=%s", w.Code, w.Body.String())
	}
}
