package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/whisperbox/whisperbox-backend/internal/common"
	"github.com/whisperbox/whisperbox-backend/pkg/jwt"
)

// Context keys set by the auth middleware
const (
	ctxAccountID   = "accountID"
	ctxEmail       = "email"
	ctxAccessToken = "accessToken"
)

// JWTAuth JWT authentication middleware
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Extract Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, 401, "Missing authorization header", nil)
			c.Abort()
			return
		}

		// 2. Parse Bearer token
		tokenString, ok := bearerToken(authHeader)
		if !ok {
			common.ErrorResponse(c, 401, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		// 3. Verify token
		claims, err := jwtManager.VerifyToken(tokenString)
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		// 4. Store account info in context
		setSession(c, claims, tokenString)
		c.Next()
	}
}

// OptionalAuth attaches the session when a valid token is present and lets
// every other request through as anonymous
func OptionalAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if claims, err := jwtManager.VerifyToken(tokenString); err == nil {
				setSession(c, claims, tokenString)
			}
		}
		c.Next()
	}
}

// QueryTokenAuth is JWTAuth for clients that cannot set headers, such as
// browser WebSockets. The token may come from the access_token query parameter.
func QueryTokenAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	auth := JWTAuth(jwtManager)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			if token := c.Query("access_token"); token != "" {
				c.Request.Header.Set("Authorization", "Bearer "+token)
			}
		}
		auth(c)
	}
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func setSession(c *gin.Context, claims *jwt.Claims, token string) {
	c.Set(ctxAccountID, claims.AccountID())
	c.Set(ctxEmail, claims.Email)
	c.Set(ctxAccessToken, token)
}

// GetAccountID extracts the account ID from context. Empty means anonymous.
func GetAccountID(c *gin.Context) string {
	return c.GetString(ctxAccountID)
}

// GetEmail extracts the session email from context
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// GetAccessToken returns the raw bearer token of the session
func GetAccessToken(c *gin.Context) string {
	return c.GetString(ctxAccessToken)
}
