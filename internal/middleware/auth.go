package middleware

import (
	"net/http"
	"strings"

	"reelog/internal/identity"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware is a Gin middleware that validates the identity provider's
// session token on the Authorization header and puts the verified identity
// on the request context for handlers to use.
func AuthMiddleware(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		ident, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("subject", ident.Subject)
		c.Set("email", ident.Email)
		c.Set("imageURL", ident.ImageURL)

		c.Next()
	}
}

// Subject pulls the verified identity subject off the context. The bool is
// false on routes that skipped AuthMiddleware.
func Subject(c *gin.Context) (string, bool) {
	v, ok := c.Get("subject")
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}
