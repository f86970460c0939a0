package handlers

import (
	"net/http"

	"radar/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WhatsHotHandler handles HTTP requests for published highlights
type WhatsHotHandler struct {
	whatsHot *services.WhatsHotService
}

// NewWhatsHotHandler creates a new what's hot handler
func NewWhatsHotHandler(whatsHot *services.WhatsHotService) *WhatsHotHandler {
	return &WhatsHotHandler{whatsHot: whatsHot}
}

// List handles GET /api/whats-hot
func (h *WhatsHotHandler) List(c *gin.Context) {
	posts, err := h.whatsHot.List(accountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Publish handles POST /api/whats-hot
func (h *WhatsHotHandler) Publish(c *gin.Context) {
	var body struct {
		ContentItemID uuid.UUID `json:"content_item_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	post, err := h.whatsHot.Publish(c.Request.Context(), accountID(c), body.ContentItemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}
