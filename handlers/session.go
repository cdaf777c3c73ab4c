package handlers

import (
	"net/http"

	"tienda-gateway/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SessionHandler struct{}

// Create mints a new anonymous shopper session. The token is the
// server-side replacement for the browser's localStorage identity: the UI
// stores it and sends it as a bearer token on every cart call.
func (h *SessionHandler) Create(c *gin.Context) {
	sessionID := uuid.New()

	token, err := utils.GenerateSessionToken(sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_id": sessionID,
		"token":      token,
	})
}
