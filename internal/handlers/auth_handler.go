package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator exchanges a username/password pair for a bearer token.
type Authenticator interface {
	Authenticate(username, password string) (string, error)
}

type AuthHandler struct {
	auth Authenticator
	log  *zap.Logger
}

func NewAuthHandler(auth Authenticator, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, log: log}
}

type tokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Token issues a bearer token for valid credentials.
// POST /token
func (h *AuthHandler) Token(c *gin.Context) {
	var input tokenRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}

	token, err := h.auth.Authenticate(input.Username, input.Password)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}
