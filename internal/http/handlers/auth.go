package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/auth"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/config"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/domain/user"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/http/middlewares"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/security"
)

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type AuthHandler struct {
	users UserReader
	jwt   *auth.Manager
	cfg   config.Config
}

func NewAuthHandler(users UserReader, jwtManager *auth.Manager, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		users: users,
		jwt:   jwtManager,
		cfg:   cfg,
	}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}
	// short timeout for DB lookup
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	foundUser, err := h.users.GetByUsername(cctx, req.Username)
	if err != nil {
		// same message as a bad password so the response never reveals
		// whether the username exists
		RespondUnauthorized(ctx, "Invalid credentials")
		return
	}

	err = security.CheckPassword(foundUser.PasswordHash, req.Password)

	if err != nil {
		RespondUnauthorized(ctx, "Invalid credentials")
		return
	}

	token, err := h.jwt.GenerateToken(foundUser.ID, foundUser.Username)

	if err != nil {
		RespondInternal(ctx, "Could not create session")
		return
	}

	h.setSessionCookie(ctx, token)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
	})
}

// Logout never fails: it clears the cookie whether or not a valid session was
// presented.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	h.clearSessionCookie(ctx)

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Logout successful",
	})
}

// Check reports session state as a boolean. Verification failures are
// swallowed on purpose; an expired cookie is not an error condition for the
// frontend, it just means "show the login form".
func (h *AuthHandler) Check(ctx *gin.Context) {
	raw := middlewares.TokenFromRequest(ctx)

	if raw == "" {
		ctx.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}

	claims, err := h.jwt.Verify(raw)

	if err != nil {
		slog.Default().DebugContext(ctx.Request.Context(), "session check failed", "err", err)
		ctx.JSON(http.StatusOK, gin.H{"loggedIn": false})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"loggedIn": true,
		"user": gin.H{
			"id":       claims.UserID,
			"username": claims.Username,
		},
	})
}

// Helper functions

func (h *AuthHandler) setSessionCookie(ctx *gin.Context, token string) {
	secure := h.cfg.Env == "prod"

	ctx.SetSameSite(http.SameSiteLaxMode)

	ctx.SetCookie(
		middlewares.SessionCookieName,
		token,
		int(h.jwt.TTL().Seconds()),
		"/",
		"",
		secure,
		true, // HttpOnly.
	)
}

func (h *AuthHandler) clearSessionCookie(ctx *gin.Context) {
	secure := h.cfg.Env == "prod"
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(
		middlewares.SessionCookieName,
		"",
		-1,
		"/",
		"",
		secure,
		true,
	)
}
