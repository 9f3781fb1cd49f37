package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/highland-admin-portal/internal/authn"
	"github.com/highland-admin-portal/internal/config"
	"github.com/highland-admin-portal/internal/models"
	"github.com/highland-admin-portal/internal/service"
	"github.com/rs/zerolog"
)

// AuthHandler handles login and logout
type AuthHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// Login handles POST /auth/login. It accepts JSON or form credentials.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if c.ContentType() == gin.MIMEJSON {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
			return
		}
	} else {
		req.Username = c.PostForm("username")
		req.Password = c.PostForm("password")
	}

	res, err := h.services.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.SetCookie(authn.CookieName, res.Token, int(h.cfg.Auth.TokenTTL.Seconds()), "/", "", false, true)
	h.log.Info().Int64("user_id", res.User.ID).Str("role", res.User.Role).Msg("User logged in")
	c.JSON(http.StatusOK, res)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(authn.CookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
