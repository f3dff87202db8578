package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/lms-api/internal/service"
	"github.com/opencampus/lms-api/pkg/config"
	appErrors "github.com/opencampus/lms-api/pkg/errors"
	"github.com/opencampus/lms-api/pkg/response"
)

// AuthHandler exposes registration, login and logout endpoints.
type AuthHandler struct {
	auth    *service.AuthService
	session config.SessionConfig
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *service.AuthService, session config.SessionConfig) *AuthHandler {
	return &AuthHandler{auth: auth, session: session}
}

// RegisterForm godoc
// @Summary Describe the registration form
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /register [get]
func (h *AuthHandler) RegisterForm(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"fields": []string{"username", "email", "password", "confirm_password", "role"},
		"roles":  []string{"student", "instructor"},
	})
}

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body service.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid registration payload"))
		return
	}
	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// LoginForm godoc
// @Summary Describe the login form
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /login [get]
func (h *AuthHandler) LoginForm(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{"fields": []string{"username", "password"}})
}

// Login godoc
// @Summary Authenticate and open a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param payload body service.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid login payload"))
		return
	}
	session, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.session.CookieName, session.Token, int(h.auth.SessionTTL().Seconds()), "/", "", h.session.CookieSecure, true)
	response.JSON(c, http.StatusOK, gin.H{
		"user_id":  session.UserID,
		"username": session.Username,
		"role":     session.Role,
	})
}

// Logout godoc
// @Summary Destroy the current session
// @Tags Auth
// @Success 302
// @Router /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(h.session.CookieName); err == nil {
		_ = h.auth.Logout(c.Request.Context(), token)
	}
	c.SetCookie(h.session.CookieName, "", -1, "/", "", h.session.CookieSecure, true)
	response.Redirect(c, "/")
}
