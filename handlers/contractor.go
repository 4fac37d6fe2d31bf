package handlers

import (
	"net/http"

	contractorRepo "neatly/database/repository/contractor"
	"neatly/middleware"
	"neatly/models"
	"neatly/services/booking"
	"neatly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContractorHandler serves the cleaner side of the marketplace: the open
// jobs feed, accept/reject/complete actions and profile management.
type ContractorHandler struct {
	Service booking.Service
	Repo    contractorRepo.ContractorRepository
	Logger  *zap.Logger
}

func NewContractorHandler(svc booking.Service, repo contractorRepo.ContractorRepository, logger *zap.Logger) *ContractorHandler {
	return &ContractorHandler{Service: svc, Repo: repo, Logger: logger}
}

// AvailableJobs handles GET /api/contractors/jobs: unassigned pending
// bookings the cleaner could take, minus those they already rejected.
func (h *ContractorHandler) AvailableJobs(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	limit := parseLimit(c.Query("limit"), 50)
	jobs, err := h.Service.AvailableJobs(c.Request.Context(), actor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "count": len(jobs)})
}

// AcceptJob handles POST /api/contractors/jobs/:id/accept.
func (h *ContractorHandler) AcceptJob(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	b, err := h.Service.AcceptJob(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// RejectJob handles POST /api/contractors/jobs/:id/reject. The booking
// stops appearing in this cleaner's feed.
func (h *ContractorHandler) RejectJob(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var input struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&input)

	if err := h.Service.RejectJob(c.Request.Context(), actor, c.Param("id"), input.Reason); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "rejected"})
}

// CompleteJob handles POST /api/contractors/jobs/:id/complete.
func (h *ContractorHandler) CompleteJob(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	b, err := h.Service.CompleteJob(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// UpsertProfile handles PUT /api/contractors/profile. Rating aggregates and
// the suspension flag are never writable through this endpoint.
func (h *ContractorHandler) UpsertProfile(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var profile models.ContractorProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	profile.UID = actor.ID

	if !utils.ValidUKPostcode(profile.Postcode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed UK postcode"})
		return
	}
	if len(profile.ServicesOffered) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one offered service is required"})
		return
	}
	for _, st := range profile.ServicesOffered {
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown service type " + string(st)})
			return
		}
	}

	if err := h.Repo.Upsert(c.Request.Context(), &profile); err != nil {
		respondError(c, err)
		return
	}

	stored, err := h.Repo.GetByID(c.Request.Context(), actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": stored})
}

// GetProfile handles GET /api/contractors/profile.
func (h *ContractorHandler) GetProfile(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	profile, err := h.Repo.GetByID(c.Request.Context(), actor.ID)
	if err == contractorRepo.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "contractor profile not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
