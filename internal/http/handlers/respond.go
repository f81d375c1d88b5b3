package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every error body carries a human-readable message; details is only attached
// when binding produces per-field errors.
func RespondError(ctx *gin.Context, status int, message string, details interface{}) {
	body := gin.H{"message": message}

	if details != nil {
		body["details"] = details
	}

	ctx.JSON(status, body)
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, message, details)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message, nil)
}
