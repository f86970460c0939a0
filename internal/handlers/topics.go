package handlers

import (
	"net/http"

	"radar/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TopicsHandler handles HTTP requests for the topic registry
type TopicsHandler struct {
	topics *services.TopicsService
}

// NewTopicsHandler creates a new topics handler
func NewTopicsHandler(topics *services.TopicsService) *TopicsHandler {
	return &TopicsHandler{topics: topics}
}

// List handles GET /api/topics
func (h *TopicsHandler) List(c *gin.Context) {
	topics, err := h.topics.List(accountID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"topics": topics})
}

// Create handles POST /api/topics
func (h *TopicsHandler) Create(c *gin.Context) {
	var input services.CreateTopicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	topic, err := h.topics.Create(accountID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, topic)
}

// Update handles PATCH /api/topics/:id
func (h *TopicsHandler) Update(c *gin.Context) {
	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid topic id"})
		return
	}

	var input services.UpdateTopicInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	topic, err := h.topics.Update(accountID(c), topicID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, topic)
}

// Delete handles DELETE /api/topics/:id
func (h *TopicsHandler) Delete(c *gin.Context) {
	topicID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid topic id"})
		return
	}

	if err := h.topics.Delete(accountID(c), topicID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
