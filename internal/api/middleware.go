// internal/api/middleware.go
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"alumni-api/internal/auth"
	"alumni-api/internal/models"
	"alumni-api/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

type AdminLookup interface {
	FindByID(ctx context.Context, id string) (*models.Admin, error)
}

// AuthMiddleware admits requests carrying a valid session token in the
// Authorization header, either raw or as "Bearer <token>". In strict mode the
// token must also be the one issued by the admin's latest login.
func AuthMiddleware(tokens TokenVerifier, admins AdminLookup, strict bool, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		token := tokenFromHeader(c.GetHeader("Authorization"))
		if token == "" {
			unauthorized(c, "Authorization header required")
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			unauthorized(c, "Invalid token")
			return
		}

		if strict {
			admin, err := admins.FindByID(c.Request.Context(), claims.AdminID)
			if errors.Is(err, storage.ErrNotFound) {
				unauthorized(c, "Invalid token")
				return
			}
			if err != nil {
				logger.Error("admin lookup failed", zap.String("admin_id", claims.AdminID), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
				return
			}
			if admin.CurrentToken == nil || *admin.CurrentToken != token {
				unauthorized(c, "Token has been superseded")
				return
			}
		}

		c.Set("admin_id", claims.AdminID)
		c.Set("admin_email", claims.Email)
		c.Next()
	}
}

func tokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if scheme, rest, ok := strings.Cut(header, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	return header
}

func unauthorized(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized", "error": reason})
}
