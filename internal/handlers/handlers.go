// Package handlers wires the HTTP surface onto the service layer. Handlers
// hold injected services and do request parsing, error mapping, and nothing
// else.
package handlers

import (
	"errors"
	"log"
	"net/http"

	"radar/internal/auth"
	"radar/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthMiddleware establishes tenant scope for account-facing routes.
type AuthMiddleware struct {
	verifier *auth.SessionVerifier
	accounts *services.AccountsService
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(verifier *auth.SessionVerifier, accounts *services.AccountsService) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier, accounts: accounts}
}

// RequireAccount authenticates the session token and resolves the caller's
// account before the handler runs. Every downstream read and write is scoped
// by the account id set here.
func (m *AuthMiddleware) RequireAccount() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := m.verifier.ParseIdentity(c.GetHeader("Authorization"))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		resolved, err := m.accounts.Resolve(identity)
		if err != nil {
			respondError(c, err)
			c.Abort()
			return
		}

		c.Set("account_id", resolved.AccountID)
		c.Set("user_id", resolved.UserID)
		c.Next()
	}
}

// RequireSharedSecret gates machine-to-machine routes (cron triggers,
// ingestion webhooks) on a server-held bearer secret.
func RequireSharedSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.BearerMatches(c.GetHeader("Authorization"), secret) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.Next()
	}
}

// accountID returns the tenant scope set by RequireAccount.
func accountID(c *gin.Context) uuid.UUID {
	return c.MustGet("account_id").(uuid.UUID)
}

// respondError maps the service error taxonomy onto HTTP statuses. Unexpected
// errors are logged and surfaced as a generic message, never raw error text.
func respondError(c *gin.Context, err error) {
	var quotaErr *services.QuotaExceededError
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	case errors.As(err, &quotaErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": quotaErr.Error(),
			"limit": quotaErr.Limit,
			"count": quotaErr.Count,
		})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		log.Printf("Internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong, please try again"})
	}
}

// HealthHandler serves the liveness endpoint.
type HealthHandler struct{}

// NewHealthHandler creates a new health handler
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "radar",
	})
}
