package utilities

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

const bearerSchema = "Bearer "

// ExtractBearerToken pulls the raw token out of the Authorization header.
// A missing or malformed header is an error.
func ExtractBearerToken(c *gin.Context) (string, error) {
	authHeader := c.GetHeader("Authorization")

	if !strings.HasPrefix(authHeader, bearerSchema) || len(authHeader) == len(bearerSchema) {
		return "", fmt.Errorf("invalid authorization header")
	}

	return authHeader[len(bearerSchema):], nil
}
