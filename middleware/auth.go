// auth.go - Bearer token authentication middleware
//
// Authentication flow:
// 1. Extract the token from "Authorization: Bearer <token>"
// 2. Verify signature and expiry
// 3. Attach the user id to the request context
//
// Every journal and record route sits behind AuthMiddleware; handlers read
// the caller only through UserID, which fails closed.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-journal-backend/apperr"
	"go-journal-backend/auth"
	"go-journal-backend/models"
)

const (
	bearerScheme = "bearer"
	ctxUserID    = "user_id" // gin context key, read by RequestLogger
)

// TokenVerifier resolves a token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// UserFinder loads users for role checks.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (models.User, error)
}

// AuthMiddleware rejects requests without a valid bearer token before any
// protected handler runs.
func AuthMiddleware(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// STEP 1: Extract the token
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
			return
		}

		// STEP 2: Verify it; malformed, forged and expired tokens look the same to the client
		userID, err := tokens.Verify(token)
		if err != nil {
			msg := "invalid token"
			if auth.IsExpired(err) {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		// STEP 3: Make the identity available to handlers
		c.Set(ctxUserID, userID)
		c.Request = c.Request.WithContext(auth.WithUserID(c.Request.Context(), userID))

		c.Next()
	}
}

// AdminMiddleware runs AuthMiddleware, then requires userType=admin.
func AdminMiddleware(tokens TokenVerifier, users UserFinder) gin.HandlerFunc {
	authenticate := AuthMiddleware(tokens)

	return func(c *gin.Context) {
		authenticate(c)
		if c.IsAborted() {
			return
		}

		userID, err := UserID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		switch {
		case apperr.Is(err, apperr.KindNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		case err != nil:
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		if user.UserType != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Next()
	}
}

// UserID returns the authenticated caller, or an Authentication error when
// the request did not pass through AuthMiddleware.
func UserID(c *gin.Context) (string, error) {
	if id, ok := auth.UserIDFrom(c.Request.Context()); ok {
		return id, nil
	}
	return "", apperr.Unauthenticated("missing user identity", nil)
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, bearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
