package handlers

import (
	"net/http"

	"radar/internal/feedfetch"
	"radar/internal/models"
	"radar/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IngestHandler handles the authenticated ingestion webhooks. These routes
// carry an explicit account_id in the body because the caller is a machine,
// not a user session.
type IngestHandler struct {
	ingest   *services.IngestService
	sources  *services.SourcesService
	resolver *feedfetch.ChannelResolver
}

// NewIngestHandler creates a new ingest handler
func NewIngestHandler(ingest *services.IngestService, sources *services.SourcesService, resolver *feedfetch.ChannelResolver) *IngestHandler {
	return &IngestHandler{ingest: ingest, sources: sources, resolver: resolver}
}

// IngestTweets handles POST /ingest/tweets
func (h *IngestHandler) IngestTweets(c *gin.Context) {
	var body struct {
		Tweets    []services.Tweet `json:"tweets"`
		AccountID uuid.UUID        `json:"account_id"`
		TopicID   *uuid.UUID       `json:"topic_id"`
		SourceID  *uuid.UUID       `json:"source_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if body.AccountID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id is required"})
		return
	}

	result, err := h.ingest.IngestTweets(body.AccountID, body.Tweets, body.TopicID, body.SourceID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// DiscoverChannel handles POST /ingest/channels: resolve a YouTube channel
// page and register it as a source for the account. The discovery flow goes
// through the source registry, so the per-account cap still applies.
func (h *IngestHandler) DiscoverChannel(c *gin.Context) {
	var body struct {
		URL       string     `json:"url"`
		AccountID uuid.UUID  `json:"account_id"`
		TopicID   *uuid.UUID `json:"topic_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if body.AccountID == uuid.Nil || body.URL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account_id and url are required"})
		return
	}

	info, err := h.resolver.Resolve(c.Request.Context(), body.URL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Could not resolve channel"})
		return
	}

	source, err := h.sources.Create(body.AccountID, services.CreateSourceInput{
		Name:      info.Title,
		Type:      models.SourceTypeYouTube,
		URL:       info.FeedURL,
		ChannelID: info.ChannelID,
		TopicID:   body.TopicID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"source": source, "channel": info})
}
