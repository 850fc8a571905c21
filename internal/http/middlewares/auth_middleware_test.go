package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/orionjupiterai/finbrain-api/internal/actorctx"
	"github.com/orionjupiterai/finbrain-api/internal/domain/session"
)

type fakeSessions struct {
	getByToken func(ctx context.Context, token string) (session.Session, error)
}

func (f *fakeSessions) GetByToken(ctx context.Context, token string) (session.Session, error) {
	return f.getByToken(ctx, token)
}

func authTestRouter(sessions SessionResolver) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	mw := NewAuthMiddleware(sessions)
	r.GET("/protected", mw.RequireAuth(), func(c *gin.Context) {
		email, _ := UserEmailFromContext(c)
		reqEmail, _ := actorctx.UserEmailFrom(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"email": email, "request_email": reqEmail})
	})

	return r
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode error body: %v, body=%s", err, body)
	}
	return payload.Error.Code
}

func TestRequireAuth_MissingOrMalformedHeader(t *testing.T) {
	storeCalled := false
	r := authTestRouter(&fakeSessions{
		getByToken: func(ctx context.Context, token string) (session.Session, error) {
			storeCalled = true
			return session.Session{}, session.ErrNotFound
		},
	})

	headers := []string{
		"",
		"Bearer",
		"Bearer ",
		"Token abc123",
		"bearer abc123",
	}

	for _, h := range headers {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: got status %d, want 401", h, w.Code)
		}
		if code := errorCode(t, w.Body.Bytes()); code != "not_authenticated" {
			t.Fatalf("header %q: got code %q, want not_authenticated", h, code)
		}
	}

	if storeCalled {
		t.Fatal("session store consulted for malformed header")
	}
}

func TestRequireAuth_UnknownToken(t *testing.T) {
	r := authTestRouter(&fakeSessions{
		getByToken: func(ctx context.Context, token string) (session.Session, error) {
			return session.Session{}, session.ErrNotFound
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer nope")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", w.Code)
	}
	if code := errorCode(t, w.Body.Bytes()); code != "invalid_token" {
		t.Fatalf("got code %q, want invalid_token", code)
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	r := authTestRouter(&fakeSessions{
		getByToken: func(ctx context.Context, token string) (session.Session, error) {
			if token != "good-token" {
				t.Fatalf("got token %q, want good-token", token)
			}
			return session.Session{Token: token, UserEmail: "amy@example.com"}, nil
		},
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var payload struct {
		Email        string `json:"email"`
		RequestEmail string `json:"request_email"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Email != "amy@example.com" || payload.RequestEmail != "amy@example.com" {
		t.Fatalf("got %+v, want amy@example.com on both contexts", payload)
	}
}
