package middleware

import (
	"net/http"

	"github.com/feedoffice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// BodyLimit returns a middleware that limits request body size
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponse("REQUEST_TOO_LARGE", "Request body exceeds maximum allowed size", c.GetString("request_id")))
			return
		}

		// streamed bodies without a content length are cut off while reading
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
