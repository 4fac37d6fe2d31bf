package handlers

import (
	"net/http"

	clientRepo "neatly/database/repository/client"
	"neatly/middleware"
	"neatly/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClientHandler manages client preference profiles. Stored preferences are
// copied onto new bookings as default special requirements.
type ClientHandler struct {
	Repo   clientRepo.ClientRepository
	Logger *zap.Logger
}

func NewClientHandler(repo clientRepo.ClientRepository, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{Repo: repo, Logger: logger}
}

// UpsertProfile handles PUT /api/clients/profile.
func (h *ClientHandler) UpsertProfile(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var profile models.ClientProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	profile.UID = actor.ID

	for _, st := range profile.PreferredServices {
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown service type " + string(st)})
			return
		}
	}

	if err := h.Repo.Upsert(c.Request.Context(), &profile); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// GetProfile handles GET /api/clients/profile.
func (h *ClientHandler) GetProfile(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	profile, err := h.Repo.GetByID(c.Request.Context(), actor.ID)
	if err == clientRepo.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "client profile not found"})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
