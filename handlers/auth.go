package handlers

import (
	"net/http"
	"time"

	"salonify/config"
	"salonify/services/user"
	"salonify/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves registration, login, logout and the current user.
type AuthHandler struct {
	Users      user.UserService
	CookieName string
	// Secure marks the session cookie Secure; set in production.
	Secure bool
}

func NewAuthHandler(users user.UserService, cookieName string) *AuthHandler {
	return &AuthHandler{Users: users, CookieName: cookieName, Secure: config.IsProduction()}
}

func clientInfo(c *gin.Context) user.ClientInfo {
	return user.ClientInfo{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

func (h *AuthHandler) setCookie(c *gin.Context, token string, expiresAt time.Time) {
	if h.CookieName == "" {
		return
	}
	maxAge := int(time.Until(expiresAt).Seconds())
	if token == "" {
		maxAge = -1
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, token, maxAge, "/", "", h.Secure, true)
}

// RegisterHandler creates a client account and signs it in.
func (h *AuthHandler) RegisterHandler(c *gin.Context) {
	var req user.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Users.Register(c.Request.Context(), req, clientInfo(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	getLogger(c).Info("User registered", zap.String("user_id", res.User.ID))
	h.setCookie(c, res.Token, res.ExpiresAt)
	utils.Created(c, "Registration successful", res)
}

// LoginHandler authenticates by email and password.
func (h *AuthHandler) LoginHandler(c *gin.Context) {
	var req user.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.Users.Login(c.Request.Context(), req, clientInfo(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.setCookie(c, res.Token, res.ExpiresAt)
	utils.Success(c, "Login successful", res)
}

// LogoutHandler revokes the current session and clears the cookie.
func (h *AuthHandler) LogoutHandler(c *gin.Context) {
	token := c.GetString(utils.CtxToken)
	if err := h.Users.Logout(c.Request.Context(), token); err != nil {
		utils.RespondError(c, err)
		return
	}
	h.setCookie(c, "", time.Time{})
	utils.Success(c, "Logged out", nil)
}

// MeHandler returns the signed-in user.
func (h *AuthHandler) MeHandler(c *gin.Context) {
	a, ok := actor(c)
	if !ok {
		return
	}
	u, err := h.Users.GetUserByID(c.Request.Context(), a.UserID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, "OK", u)
}
