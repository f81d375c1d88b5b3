package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/auth"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/config"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/domain/user"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/http/handlers"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/http/middlewares"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/repo/postgres"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/security"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeUsersRepo struct {
	getFn func(ctx context.Context, username string) (user.User, error)
}

func (f *fakeUsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, username)
	}
	return user.User{}, postgres.ErrUserNotFound
}

func newAuthHandler(t *testing.T, users handlers.UserReader, ttl time.Duration) *handlers.AuthHandler {
	t.Helper()

	jwtManager := auth.NewManager("test-secret", ttl)

	return handlers.NewAuthHandler(users, jwtManager, config.Config{Env: "test"})
}

func storedAdmin(t *testing.T, password string) user.User {
	t.Helper()

	hash, err := security.HashPassword(password)

	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	return user.User{ID: 1, Username: "admin", PasswordHash: hash}
}

func TestLogin(t *testing.T) {
	admin := storedAdmin(t, "secret")

	repo := &fakeUsersRepo{
		getFn: func(ctx context.Context, username string) (user.User, error) {
			if username == "admin" {
				return admin, nil
			}
			return user.User{}, postgres.ErrUserNotFound
		},
	}

	tests := []struct {
		name           string
		body           string
		wantStatusCode int
		wantMessage    string
	}{
		{
			name:           "success",
			body:           `{"username":"admin","password":"secret"}`,
			wantStatusCode: http.StatusOK,
			wantMessage:    "Login successful",
		},
		{
			name:           "wrong password",
			body:           `{"username":"admin","password":"nope"}`,
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Invalid credentials",
		},
		{
			name:           "unknown user",
			body:           `{"username":"ghost","password":"secret"}`,
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Invalid credentials",
		},
		{
			name:           "missing fields",
			body:           `{"username":"admin"}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAuthHandler(t, repo, 24*time.Hour)

			r := gin.New()
			r.POST("/api/auth/login", h.Login)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatusCode)
			}

			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}

			if body["message"] != tt.wantMessage {
				t.Errorf("message = %q, want %q", body["message"], tt.wantMessage)
			}

			if tt.wantStatusCode == http.StatusOK {
				token, _ := body["token"].(string)

				if token == "" {
					t.Fatal("success response must carry the token")
				}

				cookie := w.Header().Get("Set-Cookie")

				if !strings.Contains(cookie, middlewares.SessionCookieName+"="+token) {
					t.Errorf("Set-Cookie = %q, want session cookie with token", cookie)
				}

				if !strings.Contains(cookie, "HttpOnly") {
					t.Errorf("Set-Cookie = %q, want HttpOnly", cookie)
				}
			}
		})
	}
}

func TestLoginFailureModesAreIndistinguishable(t *testing.T) {
	admin := storedAdmin(t, "secret")

	repo := &fakeUsersRepo{
		getFn: func(ctx context.Context, username string) (user.User, error) {
			if username == "admin" {
				return admin, nil
			}
			return user.User{}, postgres.ErrUserNotFound
		},
	}

	responses := make([]string, 0, 2)

	for _, body := range []string{
		`{"username":"ghost","password":"secret"}`,
		`{"username":"admin","password":"wrong"}`,
	} {
		h := newAuthHandler(t, repo, 24*time.Hour)

		r := gin.New()
		r.POST("/login", h.Login)

		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}

		responses = append(responses, w.Body.String())
	}

	if responses[0] != responses[1] {
		t.Errorf("unknown-user and wrong-password responses differ: %q vs %q", responses[0], responses[1])
	}
}

func TestCheck(t *testing.T) {
	jwtManager := auth.NewManager("test-secret", 24*time.Hour)
	validToken, err := jwtManager.GenerateToken(1, "admin")

	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	expiredManager := auth.NewManager("test-secret", -time.Minute)
	expiredToken, err := expiredManager.GenerateToken(1, "admin")

	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name         string
		cookie       string
		wantLoggedIn bool
	}{
		{name: "no cookie", cookie: "", wantLoggedIn: false},
		{name: "garbage token", cookie: "not-a-jwt", wantLoggedIn: false},
		{name: "expired token", cookie: expiredToken, wantLoggedIn: false},
		{name: "valid token", cookie: validToken, wantLoggedIn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handlers.NewAuthHandler(&fakeUsersRepo{}, jwtManager, config.Config{Env: "test"})

			r := gin.New()
			r.GET("/api/auth/check", h.Check)

			req := httptest.NewRequest(http.MethodGet, "/api/auth/check", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middlewares.SessionCookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			// session inspection never errors
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}

			var body struct {
				LoggedIn bool `json:"loggedIn"`
				User     *struct {
					ID       int64  `json:"id"`
					Username string `json:"username"`
				} `json:"user"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}

			if body.LoggedIn != tt.wantLoggedIn {
				t.Errorf("loggedIn = %v, want %v", body.LoggedIn, tt.wantLoggedIn)
			}

			if tt.wantLoggedIn {
				if body.User == nil || body.User.ID != 1 || body.User.Username != "admin" {
					t.Errorf("user = %+v, want id=1 username=admin", body.User)
				}
			}
		})
	}
}

func TestLogoutAlwaysClearsCookie(t *testing.T) {
	h := newAuthHandler(t, &fakeUsersRepo{}, 24*time.Hour)

	r := gin.New()
	r.POST("/api/auth/logout", h.Logout)

	// no cookie presented at all; logout is still a success
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}

	if body["message"] != "Logout successful" {
		t.Errorf("message = %q", body["message"])
	}

	cookie := w.Header().Get("Set-Cookie")

	if !strings.Contains(cookie, middlewares.SessionCookieName+"=") || !strings.Contains(cookie, "Max-Age=0") {
		t.Errorf("Set-Cookie = %q, want cleared session cookie", cookie)
	}
}
