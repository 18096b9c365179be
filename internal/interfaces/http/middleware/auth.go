package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleetops/backend/internal/domain/identity"
	"github.com/fleetops/backend/internal/infrastructure/auth"
	"github.com/fleetops/backend/internal/interfaces/http/dto"
)

// Context keys set by the auth middleware
const (
	ClaimsKey     = "jwt_claims"
	ActorKey      = "actor"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// JWTAuth validates the bearer token, rejects revoked tokens and stores the
// resulting actor in the request context.
func JWTAuth(jwtService *auth.JWTService, blacklist auth.TokenBlacklist, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		if header == "" || !strings.HasPrefix(header, BearerPrefix) {
			abortUnauthorized(c, "Missing or malformed authorization header")
			return
		}
		tokenString := strings.TrimPrefix(header, BearerPrefix)

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			code := "TOKEN_INVALID"
			if err == auth.ErrExpiredToken {
				code = "TOKEN_EXPIRED"
			}
			requestID := c.GetString(RequestIDKey)
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(code, "Invalid or expired token", requestID))
			return
		}

		if blacklist != nil {
			ctx := c.Request.Context()
			revoked, err := blacklist.IsBlacklisted(ctx, claims.ID)
			if err != nil {
				logger.Error("token blacklist check failed", zap.Error(err))
				abortInternal(c)
				return
			}
			if !revoked {
				revoked, err = blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.IssuedAt.Time)
				if err != nil {
					logger.Error("token blacklist check failed", zap.Error(err))
					abortInternal(c)
					return
				}
			}
			if revoked {
				requestID := c.GetString(RequestIDKey)
				c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse("TOKEN_REVOKED", "Token has been revoked", requestID))
				return
			}
		}

		userID, err := claims.GetUserUUID()
		if err != nil {
			abortUnauthorized(c, "Invalid token claims")
			return
		}
		orgID, err := claims.GetOrganizationUUID()
		if err != nil {
			abortUnauthorized(c, "Invalid token claims")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(ActorKey, identity.Actor{
			UserID:         userID,
			OrganizationID: orgID,
			Role:           identity.Role(claims.Role),
		})
		c.Next()
	}
}

// RequireManager rejects staff members before the handler runs. Handlers
// still enforce permissions themselves; this only short-circuits obvious
// cases for whole route groups.
func RequireManager() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok || !actor.CanManage() {
			requestID := c.GetString(RequestIDKey)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrCodeForbidden, "Insufficient permissions", requestID))
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects everyone except administrators
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok || !actor.IsAdmin() {
			requestID := c.GetString(RequestIDKey)
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(dto.ErrCodeForbidden, "Administrator access required", requestID))
			return
		}
		c.Next()
	}
}

// GetActor returns the authenticated actor stored by JWTAuth
func GetActor(c *gin.Context) (identity.Actor, bool) {
	v, ok := c.Get(ActorKey)
	if !ok {
		return identity.Actor{}, false
	}
	actor, ok := v.(identity.Actor)
	return actor, ok
}

// GetClaims returns the validated JWT claims stored by JWTAuth
func GetClaims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

func abortUnauthorized(c *gin.Context, message string) {
	requestID := c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(dto.ErrCodeUnauthorized, message, requestID))
}

func abortInternal(c *gin.Context) {
	requestID := c.GetString(RequestIDKey)
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}
