package handlers

import (
	"net/http"

	"radar/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SourcesHandler handles HTTP requests for the source registry
type SourcesHandler struct {
	sources *services.SourcesService
}

// NewSourcesHandler creates a new sources handler
func NewSourcesHandler(sources *services.SourcesService) *SourcesHandler {
	return &SourcesHandler{sources: sources}
}

// List handles GET /api/sources
func (h *SourcesHandler) List(c *gin.Context) {
	sources, quota, err := h.sources.List(accountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sources": sources, "quota": quota})
}

// Create handles POST /api/sources
func (h *SourcesHandler) Create(c *gin.Context) {
	var input services.CreateSourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	source, err := h.sources.Create(accountID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, source)
}

// Update handles PATCH /api/sources/:id
func (h *SourcesHandler) Update(c *gin.Context) {
	sourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source id"})
		return
	}

	var input services.UpdateSourceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	source, err := h.sources.Update(accountID(c), sourceID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, source)
}

// Delete handles DELETE /api/sources/:id
func (h *SourcesHandler) Delete(c *gin.Context) {
	sourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid source id"})
		return
	}

	if err := h.sources.Delete(accountID(c), sourceID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
