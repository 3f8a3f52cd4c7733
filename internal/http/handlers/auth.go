package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurofocus-backend/internal/http/middleware"
	"github.com/yungbote/neurofocus-backend/internal/http/response"
	"github.com/yungbote/neurofocus-backend/internal/services"
)

type AuthHandler struct {
	authService  services.AuthService
	secureCookie bool
}

func NewAuthHandler(authService services.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// POST /auth/register
func (ah *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if _, err := ah.authService.Register(c.Request.Context(), req.Email, req.Password, req.Name); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"message": "User registered successfully"})
}

// POST /auth/login sets the jwt cookie and also returns the token for
// non-browser clients.
func (ah *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	user, token, err := ah.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	ah.setCookie(c, token, int(ah.authService.TokenTTL().Seconds()))
	response.RespondOK(c, gin.H{
		"message":    "Login successful",
		"token":      token,
		"expires_in": int(ah.authService.TokenTTL().Seconds()),
		"user":       user,
	})
}

// POST /auth/logout
func (ah *AuthHandler) Logout(c *gin.Context) {
	ah.setCookie(c, "", -1)
	response.RespondOK(c, gin.H{"message": "Logged out"})
}

// GET /auth/me
func (ah *AuthHandler) Me(c *gin.Context) {
	user, err := ah.authService.Me(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": user})
}

func (ah *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AuthCookieName, value, maxAge, "/", "", ah.secureCookie, true)
}
