package handlers

import (
	"net/http"

	"neatly/middleware"
	"neatly/models"
	"neatly/services/admin"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler exposes the override gateway. Every endpoint behind it
// requires the admin middleware; the service re-checks the role anyway.
type AdminHandler struct {
	Overrides admin.OverrideService
	Logger    *zap.Logger
}

func NewAdminHandler(overrides admin.OverrideService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Overrides: overrides, Logger: logger}
}

// ForceStatus handles POST /api/admin/bookings/:id/force-status.
func (h *AdminHandler) ForceStatus(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var input struct {
		NewStatus models.BookingStatus `json:"new_status"`
		Reason    string               `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Overrides.ForceStatus(c.Request.Context(), actor, c.Param("id"), input.NewStatus, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// AdminCancel handles POST /api/admin/bookings/:id/cancel.
func (h *AdminHandler) AdminCancel(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var input struct {
		Reason       string   `json:"reason"`
		RefundAmount *float64 `json:"refund_amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Overrides.AdminCancel(c.Request.Context(), actor, c.Param("id"), input.Reason, input.RefundAmount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// ReassignCleaner handles POST /api/admin/bookings/:id/reassign.
func (h *AdminHandler) ReassignCleaner(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var input struct {
		NewCleanerID string `json:"new_cleaner_id"`
		Reason       string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Overrides.ReassignCleaner(c.Request.Context(), actor, c.Param("id"), input.NewCleanerID, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// ForceComplete handles POST /api/admin/bookings/:id/force-complete.
func (h *AdminHandler) ForceComplete(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var input struct {
		CompletionNotes string `json:"completion_notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Overrides.ForceComplete(c.Request.Context(), actor, c.Param("id"), input.CompletionNotes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// AuditTrail handles GET /api/admin/bookings/:id/audit.
func (h *AdminHandler) AuditTrail(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	entries, err := h.Overrides.AuditTrail(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries, "count": len(entries)})
}

// SetCleanerSuspended handles POST /api/admin/cleaners/:id/suspend.
func (h *AdminHandler) SetCleanerSuspended(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var input struct {
		Suspended bool   `json:"suspended"`
		Reason    string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	if err := h.Overrides.SetCleanerSuspended(c.Request.Context(), actor, c.Param("id"), input.Suspended, input.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
