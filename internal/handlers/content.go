package handlers

import (
	"net/http"
	"strconv"

	"radar/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContentHandler handles HTTP requests for the content store
type ContentHandler struct {
	content      *services.ContentService
	interactions *services.InteractionsService
}

// NewContentHandler creates a new content handler
func NewContentHandler(content *services.ContentService, interactions *services.InteractionsService) *ContentHandler {
	return &ContentHandler{content: content, interactions: interactions}
}

// List handles GET /api/content
func (h *ContentHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	page, err := h.content.List(accountID(c), services.ContentQuery{
		TopicSlug: c.Query("topic"),
		Search:    c.Query("search"),
		SavedOnly: c.Query("saved") == "true",
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// Get handles GET /api/content/:id
func (h *ContentHandler) Get(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content id"})
		return
	}

	item, err := h.content.Get(accountID(c), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// FullArticle handles GET /api/content/:id/full-article
func (h *ContentHandler) FullArticle(c *gin.Context) {
	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content id"})
		return
	}

	item, err := h.content.GetFullArticle(c.Request.Context(), accountID(c), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete handles DELETE /api/content?id=
func (h *ContentHandler) Delete(c *gin.Context) {
	itemID, err := uuid.Parse(c.Query("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid content id"})
		return
	}

	if err := h.content.Delete(accountID(c), itemID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ApplyInteraction handles POST /api/interactions
func (h *ContentHandler) ApplyInteraction(c *gin.Context) {
	var body struct {
		ContentItemID uuid.UUID `json:"content_item_id"`
		Action        string    `json:"action"`
		Value         string    `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	interaction, err := h.interactions.Apply(accountID(c), body.ContentItemID, body.Action, body.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, interaction)
}
