package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// room for multipart boundaries and part headers around the file itself
const multipartPadding = 8 << 10

// SizeLimit caps the request body at maxBodyBytes plus multipart framing.
// Reading past the cap yields http.MaxBytesError, which upload handlers
// surface as 413.
func SizeLimit(maxBodyBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes+multipartPadding)
		c.Next()
	}
}
