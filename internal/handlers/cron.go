package handlers

import (
	"net/http"
	"time"

	"radar/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CronHandler handles the external periodic triggers. The scheduler itself
// lives outside the app; these endpoints just run one batch and report it.
type CronHandler struct {
	digests *services.DigestService
	invites *services.InvitesService
}

// NewCronHandler creates a new cron handler
func NewCronHandler(digests *services.DigestService, invites *services.InvitesService) *CronHandler {
	return &CronHandler{digests: digests, invites: invites}
}

// RunDigest handles POST /cron/digest/:cadence
func (h *CronHandler) RunDigest(c *gin.Context) {
	jobLogID := c.Query("job_log_id")
	if jobLogID == "" {
		jobLogID = uuid.NewString()
	}

	result, err := h.digests.Run(c.Request.Context(), c.Param("cadence"), jobLogID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RunInviteReminders handles POST /cron/invites/reminders
func (h *CronHandler) RunInviteReminders(c *gin.Context) {
	result, err := h.invites.SendReminders(c.Request.Context(), time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RunInviteExpiry handles POST /cron/invites/expire. The response follows the
// same batch-summary shape as the other cron triggers; an expiry sweep never
// sends anything.
func (h *CronHandler) RunInviteExpiry(c *gin.Context) {
	expired, err := h.invites.ExpireSweep(time.Now())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"processed": expired,
		"sent":      0,
		"errors":    []string{},
	})
}
