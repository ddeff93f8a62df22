package middleware

import (
	"net/http"
	"strings"

	"github.com/Adi-Narayan/Hashira/auth"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	UserIDKey     = "user_id"
	AdminEmailKey = "admin_email"
)

// tokenFromRequest reads a bearer token, the legacy "token" header, or for
// websocket upgrades the "token" query parameter.
func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if after, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(after)
		}
		return strings.TrimSpace(header)
	}
	if token := c.GetHeader("token"); token != "" {
		return token
	}
	if websocket.IsWebSocketUpgrade(c.Request) {
		return c.Query("token")
	}
	return ""
}

func requireRole(issuer *auth.Issuer, role string, set func(c *gin.Context, claims *auth.Claims)) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Not Authorized. Login Again"})
			return
		}

		claims, err := issuer.ParseRole(tokenString, role)
		if err != nil {
			zap.L().Debug("token rejected",
				zap.String("namespace", "auth"),
				zap.String("role", role),
				zap.String("path", c.FullPath()),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Access denied"})
			return
		}

		set(c, claims)
		c.Next()
	}
}

// UserAuth admits requests carrying a valid user token and stores the user id
// under UserIDKey.
func UserAuth(issuer *auth.Issuer) gin.HandlerFunc {
	return requireRole(issuer, auth.RoleUser, func(c *gin.Context, claims *auth.Claims) {
		c.Set(UserIDKey, claims.Subject)
	})
}

// AdminAuth admits requests carrying a valid admin token.
func AdminAuth(issuer *auth.Issuer) gin.HandlerFunc {
	return requireRole(issuer, auth.RoleAdmin, func(c *gin.Context, claims *auth.Claims) {
		c.Set(AdminEmailKey, claims.Subject)
	})
}

func UserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
