package middlewares_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/auth"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/http/middlewares"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	verifyFn func(raw string) (*auth.Claims, error)
}

func (f *fakeVerifier) Verify(raw string) (*auth.Claims, error) {
	if f.verifyFn != nil {
		return f.verifyFn(raw)
	}
	return nil, errors.New("no verifier")
}

func guardedRouter(v middlewares.TokenVerifier) (*gin.Engine, *bool) {
	reached := false

	r := gin.New()
	guard := middlewares.NewAuthMiddleware(v)

	r.Handle(http.MethodPut, "/protected", guard.RequireAuth(), func(c *gin.Context) {
		reached = true
		id, _ := middlewares.UserIDFromContext(c)
		name, _ := middlewares.UsernameFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "username": name})
	})
	r.Handle(http.MethodOptions, "/protected", guard.RequireAuth(), func(c *gin.Context) {
		reached = true
		c.Status(http.StatusNoContent)
	})

	return r, &reached
}

func TestRequireAuthNoToken(t *testing.T) {
	r, reached := guardedRouter(&fakeVerifier{})

	req := httptest.NewRequest(http.MethodPut, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	if *reached {
		t.Fatal("handler must not run without a token")
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}

	if body["message"] != "Access denied: No token" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	r, reached := guardedRouter(&fakeVerifier{
		verifyFn: func(string) (*auth.Claims, error) {
			return nil, errors.New("expired")
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: middlewares.SessionCookieName, Value: "stale"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	if *reached {
		t.Fatal("handler must not run with an invalid token")
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}

	if body["message"] != "Invalid or expired token" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestRequireAuthPreflightPassesThrough(t *testing.T) {
	// the verifier would reject anything; preflight must not consult it
	r, reached := guardedRouter(&fakeVerifier{})

	req := httptest.NewRequest(http.MethodOptions, "/protected", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", w.Code)
	}

	if !*reached {
		t.Fatal("preflight must reach the handler without auth")
	}
}

func TestRequireAuthValidCookie(t *testing.T) {
	r, reached := guardedRouter(&fakeVerifier{
		verifyFn: func(raw string) (*auth.Claims, error) {
			if raw != "good-token" {
				return nil, errors.New("wrong token")
			}
			return &auth.Claims{UserID: 7, Username: "admin"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: middlewares.SessionCookieName, Value: "good-token"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	if !*reached {
		t.Fatal("handler must run with a valid token")
	}

	var body struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}

	if body.ID != 7 || body.Username != "admin" {
		t.Errorf("context identity = %+v", body)
	}
}

func TestRequireAuthBearerFallback(t *testing.T) {
	r, _ := guardedRouter(&fakeVerifier{
		verifyFn: func(raw string) (*auth.Claims, error) {
			if raw != "good-token" {
				return nil, errors.New("wrong token")
			}
			return &auth.Claims{UserID: 7, Username: "admin"}, nil
		},
	})

	req := httptest.NewRequest(http.MethodPut, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}
