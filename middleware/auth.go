package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cppla/earlybird/models"
	"github.com/cppla/earlybird/store"
	"github.com/cppla/earlybird/utils"
)

const (
	// ContextUserIDKey is the key used to store authenticated user ID in Gin context.
	ContextUserIDKey = "user_id"
	// ContextUsernameKey stores the username inside Gin context.
	ContextUsernameKey = "username"
	// ContextRoleKey stores the models.Role of the caller.
	ContextRoleKey = "role"
	// ContextUserKey stores the *models.User loaded by ApprovedUser.
	ContextUserKey = "user"
)

// AuthRequired ensures the request is authenticated via JWT.
func AuthRequired() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, ok := BearerToken(ctx)
		if !ok {
			return
		}

		if utils.IsTokenBlacklisted(tokenString) {
			utils.Error(ctx, http.StatusUnauthorized, 40104, "token revoked")
			ctx.Abort()
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
			ctx.Abort()
			return
		}

		ctx.Set(ContextUserIDKey, claims.UserID)
		ctx.Set(ContextUsernameKey, claims.Username)
		ctx.Set(ContextRoleKey, models.Role(claims.Role))
		ctx.Next()
	}
}

// BearerToken extracts the bearer token, aborting with 401 when it is missing or malformed.
func BearerToken(ctx *gin.Context) (string, bool) {
	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40101, "authorization header missing")
		ctx.Abort()
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		utils.Error(ctx, http.StatusUnauthorized, 40102, "invalid authorization header format")
		ctx.Abort()
		return "", false
	}

	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40103, "empty bearer token")
		ctx.Abort()
		return "", false
	}
	return tokenString, true
}

// ApprovedUser loads the caller and rejects accounts that are not approved.
// The stored role replaces the one carried in the token.
func ApprovedUser(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := UserID(ctx)
		if !ok {
			utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
			ctx.Abort()
			return
		}

		user, err := s.User(ctx.Request.Context(), id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				utils.Error(ctx, http.StatusUnauthorized, 40109, "account no longer exists")
			} else {
				utils.Sugar.Errorf("load user %d: %v", id, err)
				utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load account")
			}
			ctx.Abort()
			return
		}
		if user.Status != models.UserApproved {
			utils.Error(ctx, http.StatusForbidden, 40310, "account is awaiting approval")
			ctx.Abort()
			return
		}

		ctx.Set(ContextRoleKey, user.Role)
		ctx.Set(ContextUserKey, user)
		ctx.Next()
	}
}

// RequireCapability rejects callers whose role lacks c.
func RequireCapability(c models.Capability) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if !Role(ctx).Can(c) {
			utils.Error(ctx, http.StatusForbidden, 40311, "insufficient permissions")
			ctx.Abort()
			return
		}
		ctx.Next()
	}
}

// UserID returns the authenticated user ID.
func UserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(ContextUserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok && id != 0
}

// Role returns the caller's role, or "" when unauthenticated.
func Role(ctx *gin.Context) models.Role {
	value, _ := ctx.Get(ContextRoleKey)
	role, _ := value.(models.Role)
	return role
}
