// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides bearer-token authentication. RequireAuth verifies the
// Authorization header and stores the authenticated user ID in the Gin
// context under "userID", where the rate limiter and handlers pick it up.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/debateme/go-debate-backend/internal/auth"
)

// ctxKeyUserID is the Gin context key carrying the authenticated user ID.
const ctxKeyUserID = "userID"

// RequireAuth returns a Gin middleware that rejects requests without a valid
// "Authorization: Bearer <token>" header.
//
// On failure it aborts with 401 and the standard error envelope. On success
// it stores the token's user ID in the context and continues the chain.
func RequireAuth(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(strings.TrimSpace(scheme), "Bearer") {
			abortUnauthorized(c, "missing bearer token")
			return
		}

		claims, err := tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(ctxKeyUserID, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated user ID set by RequireAuth, or "" when the
// request is unauthenticated.
func UserID(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.Header("WWW-Authenticate", `Bearer realm="api"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get("X-Request-ID"),
		"code":       "unauthorized",
		"message":    msg,
	})
}
