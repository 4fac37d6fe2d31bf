package handlers

import (
	"net/http"
	"strconv"

	"neatly/models"
	"neatly/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SearchHandler exposes cleaner discovery for clients.
type SearchHandler struct {
	Matcher booking.MatchingService
	Logger  *zap.Logger
}

func NewSearchHandler(matcher booking.MatchingService, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{Matcher: matcher, Logger: logger}
}

// SearchCleaners handles GET /api/search/cleaners. Results are ranked by
// distance, then rating, then completed jobs. An empty list is a valid
// answer, not an error.
func (h *SearchHandler) SearchCleaners(c *gin.Context) {
	q := booking.SearchQuery{
		Postcode:    c.Query("postcode"),
		ServiceType: models.ServiceType(c.Query("service_type")),
	}
	if raw := c.Query("radius_miles"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			q.RadiusMiles = v
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			q.Limit = v
		}
	}

	results, err := h.Matcher.SearchCleaners(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cleaners": results, "count": len(results)})
}
