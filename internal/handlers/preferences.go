package handlers

import (
	"net/http"

	"radar/internal/services"

	"github.com/gin-gonic/gin"
)

// PreferencesHandler handles HTTP requests for digest preferences
type PreferencesHandler struct {
	preferences *services.PreferencesService
	digests     *services.DigestService
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(preferences *services.PreferencesService, digests *services.DigestService) *PreferencesHandler {
	return &PreferencesHandler{preferences: preferences, digests: digests}
}

// Get handles GET /api/preferences
func (h *PreferencesHandler) Get(c *gin.Context) {
	prefs, err := h.preferences.Get(accountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// Update handles POST /api/preferences
func (h *PreferencesHandler) Update(c *gin.Context) {
	var input services.UpdatePreferencesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	prefs, err := h.preferences.Update(accountID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prefs)
}

// DigestHistory handles GET /api/preferences/digest-history
func (h *PreferencesHandler) DigestHistory(c *gin.Context) {
	history, err := h.digests.History(accountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
