package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-site/middlewares"
	"github.com/yeremiapane/restaurant-site/models"
	"github.com/yeremiapane/restaurant-site/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var errInvalidCredentials = errors.New("invalid email or password")

type AuthController struct {
	DB           *gorm.DB
	SessionTTL   time.Duration
	SecureCookie bool
}

func NewAuthController(db *gorm.DB, ttl time.Duration) *AuthController {
	return &AuthController{DB: db, SessionTTL: ttl}
}

func (ac *AuthController) LoginPage(c *gin.Context) {
	if token := middlewares.SessionToken(c); token != "" {
		if _, err := utils.ParseToken(token); err == nil {
			c.Redirect(http.StatusSeeOther, "/admin/dashboard")
			return
		}
	}
	c.HTML(http.StatusOK, "login.html", gin.H{"Error": c.Query("error")})
}

// Login accepts JSON or a form post. Form posts are redirected, JSON callers
// get the token in the response body.
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" form:"email" binding:"required"`
		Password string `json:"password" form:"password" binding:"required"`
	}
	isForm := c.ContentType() != "application/json"

	if err := c.ShouldBind(&input); err != nil {
		ac.loginFailed(c, isForm, http.StatusBadRequest, errors.New("email and password are required"))
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	var admin models.AdminUser
	if err := ac.DB.Where("email = ?", email).First(&admin).Error; err != nil {
		ac.loginFailed(c, isForm, http.StatusUnauthorized, errInvalidCredentials)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(input.Password)); err != nil {
		utils.ErrorLogger.Printf("Failed login for %s from %s", email, c.ClientIP())
		ac.loginFailed(c, isForm, http.StatusUnauthorized, errInvalidCredentials)
		return
	}
	if admin.Role != models.RoleAdmin {
		ac.loginFailed(c, isForm, http.StatusForbidden, errors.New("admin access required"))
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Role, ac.SessionTTL)
	if err != nil {
		ac.loginFailed(c, isForm, http.StatusInternalServerError, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.SessionCookie, token, int(ac.SessionTTL.Seconds()), "/", "", ac.SecureCookie, true)
	utils.InfoLogger.Printf("Admin %s logged in", admin.Email)

	if isForm {
		c.Redirect(http.StatusSeeOther, "/admin/dashboard")
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token":      token,
		"expires_in": int(ac.SessionTTL.Seconds()),
		"role":       admin.Role,
	})
}

// Logout revokes the current token and clears the session cookie.
func (ac *AuthController) Logout(c *gin.Context) {
	if token := middlewares.SessionToken(c); token != "" {
		until := time.Now().Add(ac.SessionTTL)
		if claims, err := utils.ParseToken(token); err == nil && claims.ExpiresAt != nil {
			until = claims.ExpiresAt.Time
		}
		utils.BlacklistToken(token, until)
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middlewares.SessionCookie, "", -1, "/", "", ac.SecureCookie, true)

	if c.ContentType() != "application/json" && !strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
		c.Redirect(http.StatusSeeOther, middlewares.LoginPath)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Logged out", nil)
}

func (ac *AuthController) loginFailed(c *gin.Context, isForm bool, code int, err error) {
	if isForm {
		c.HTML(code, "login.html", gin.H{"Error": err.Error()})
		return
	}
	utils.RespondError(c, code, err)
}
