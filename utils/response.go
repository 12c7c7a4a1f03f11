package utils

import "github.com/gin-gonic/gin"

// Error writes the uniform error body {"error": message} with the given status.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, gin.H{"error": message})
}

// Internal logs the underlying error server-side and returns a generic 500 to
// the caller. Raw errors must never reach clients.
func Internal(ctx *gin.Context, msg string, err error) {
	if Sugar != nil {
		Sugar.Errorw(msg, "error", err, "path", ctx.FullPath())
	}
	Error(ctx, 500, "internal server error")
}
