package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/moodease/server/utils"
)

// RequestID assigns each request an id, reusing the caller's X-Request-ID
// when one is supplied, and echoes it back on the response.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		ctx.Set(utils.RequestIDKey, id)
		ctx.Header("X-Request-ID", id)
		ctx.Next()
	}
}
