package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"radar/internal/services"

	"github.com/gin-gonic/gin"
)

// InvitesHandler handles HTTP requests for the invite lifecycle
type InvitesHandler struct {
	invites    *services.InvitesService
	appBaseURL string
	loginURL   string
}

// NewInvitesHandler creates a new invites handler
func NewInvitesHandler(invites *services.InvitesService, appBaseURL, loginURL string) *InvitesHandler {
	return &InvitesHandler{invites: invites, appBaseURL: appBaseURL, loginURL: loginURL}
}

// Create handles POST /api/invites
func (h *InvitesHandler) Create(c *gin.Context) {
	var body struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	invite, err := h.invites.Create(c.Request.Context(), body.Email, body.Name, c.GetString("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, invite)
}

// Cancel handles POST /api/invites/:id/cancel
func (h *InvitesHandler) Cancel(c *gin.Context) {
	if err := h.invites.Cancel(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Accept handles GET /invites/accept?token=, the public entry point. A
// valid token redirects into signup carrying the invite's email and name; an
// already-accepted token is a no-op redirect to login.
func (h *InvitesHandler) Accept(c *gin.Context) {
	invite, err := h.invites.ValidateToken(c.Query("token"), time.Now())
	switch {
	case err == nil:
		signup := h.appBaseURL + "/signup?invite=" + url.QueryEscape(invite.Token) +
			"&email=" + url.QueryEscape(invite.Email) +
			"&name=" + url.QueryEscape(invite.Name)
		c.Redirect(http.StatusFound, signup)
	case errors.Is(err, services.ErrInviteAlreadyAccepted):
		c.Redirect(http.StatusFound, h.loginURL)
	case errors.Is(err, services.ErrInviteExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This invite has expired"})
	case errors.Is(err, services.ErrInviteCancelled):
		c.JSON(http.StatusBadRequest, gin.H{"error": "This invite is no longer valid"})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invalid invite token"})
	default:
		respondError(c, err)
	}
}

// MarkAccepted handles POST /invites/accept, called once the invited user's
// account actually exists.
func (h *InvitesHandler) MarkAccepted(c *gin.Context) {
	var body struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	invite, err := h.invites.MarkAccepted(c.Request.Context(), body.Token, body.UserID, time.Now())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, invite)
	case errors.Is(err, services.ErrInviteAlreadyAccepted),
		errors.Is(err, services.ErrInviteExpired),
		errors.Is(err, services.ErrInviteCancelled):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		respondError(c, err)
	}
}
