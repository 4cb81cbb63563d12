package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JSONResponse defines the uniform structure for error responses.
type JSONResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error writes an error envelope and aborts the handler chain.
func Error(ctx *gin.Context, status int, code int, message string) {
	ctx.AbortWithStatusJSON(status, JSONResponse{
		Code:    code,
		Message: message,
	})
}

// Fail converts err into its HTTP form. Errors without a client facing mapping
// are logged and reported as a bare 500.
func Fail(ctx *gin.Context, err error) {
	if appErr, ok := IsAppError(err); ok {
		if appErr.Status == http.StatusUnauthorized {
			ctx.Header("WWW-Authenticate", "Bearer")
		}
		Error(ctx, appErr.Status, appErr.Code, appErr.Message)
		return
	}

	Logger.Error("request failed",
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.Request.URL.Path),
		zap.String("request_id", ctx.GetString(RequestIDKey)),
		zap.Error(err),
	)
	Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
}
