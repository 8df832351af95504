package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/utils"
	"gorm.io/gorm"
)

const (
	SessionCookie = "session"
	LoginPath     = "/admin/login"

	ContextAdminID = "admin_id"
	ContextRole    = "role"
	ContextToken   = "session_token"
)

// SessionToken returns the bearer token or, failing that, the session cookie.
func SessionToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware gates admin API routes, answering 401 or 403 in JSON.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return sessionGate(db, func(c *gin.Context, code int, err error) {
		utils.RespondError(c, code, err)
		c.Abort()
	})
}

// PageAuthMiddleware gates admin pages, redirecting to the login page.
func PageAuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return sessionGate(db, func(c *gin.Context, _ int, _ error) {
		c.Redirect(http.StatusSeeOther, LoginPath)
		c.Abort()
	})
}

func sessionGate(db *gorm.DB, deny func(*gin.Context, int, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			deny(c, http.StatusUnauthorized, errors.New("Authentication required"))
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil || claims.UserID == 0 {
			deny(c, http.StatusUnauthorized, errors.New("Invalid or expired session"))
			return
		}

		var admin models.AdminUser
		if err := db.WithContext(c.Request.Context()).First(&admin, claims.UserID).Error; err != nil {
			deny(c, http.StatusUnauthorized, errors.New("Session user no longer exists"))
			return
		}
		if admin.Role != models.RoleAdmin {
			utils.ErrorLogger.Printf("Non-admin user %d denied access to %s", admin.ID, c.Request.URL.Path)
			deny(c, http.StatusForbidden, errors.New("Admin access required"))
			return
		}

		c.Set(ContextAdminID, admin.ID)
		c.Set(ContextRole, admin.Role)
		c.Set(ContextToken, token)
		c.Next()
	}
}
