package routes

import (
	"net/http"
	"time"

	"neatly/handlers"
	"neatly/middleware"
	"neatly/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterBookingRoutes registers the client-facing booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.POST("/quote", hb.Booking.Quote(hb.Pricing))

		authed := api.Group("")
		authed.Use(middleware.JWTAuthMiddleware(""))
		authed.POST("", hb.Booking.CreateBooking)
		authed.GET("", hb.Booking.ListBookings)
		authed.GET("/:id", hb.Booking.GetBooking)
		authed.POST("/:id/cancel", hb.Booking.CancelBooking)
		authed.POST("/:id/rate", hb.Booking.RateBooking)
	}
}

// RegisterContractorRoutes registers the cleaner-facing endpoints.
func RegisterContractorRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/contractors")
	{
		api.Use(middleware.JWTAuthMiddleware(models.RoleCleaner))
		api.GET("/jobs", hb.Contractor.AvailableJobs)
		api.POST("/jobs/:id/accept", hb.Contractor.AcceptJob)
		api.POST("/jobs/:id/reject", hb.Contractor.RejectJob)
		api.POST("/jobs/:id/complete", hb.Contractor.CompleteJob)
		api.GET("/profile", hb.Contractor.GetProfile)
		api.PUT("/profile", hb.Contractor.UpsertProfile)
	}
}

// RegisterClientRoutes registers client profile endpoints.
func RegisterClientRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/clients")
	{
		api.Use(middleware.JWTAuthMiddleware(models.RoleClient))
		api.GET("/profile", hb.Client.GetProfile)
		api.PUT("/profile", hb.Client.UpsertProfile)
	}
}

// RegisterSearchRoutes registers cleaner discovery. Search is public:
// prospective clients browse before signing up.
func RegisterSearchRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/search")
	{
		api.GET("/cleaners", hb.Search.SearchCleaners)
	}
}

// RegisterAdminRoutes registers the override gateway endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	{
		api.Use(middleware.AdminAuthMiddleware())
		api.POST("/bookings/:id/force-status", hb.Admin.ForceStatus)
		api.POST("/bookings/:id/cancel", hb.Admin.AdminCancel)
		api.POST("/bookings/:id/reassign", hb.Admin.ReassignCleaner)
		api.POST("/bookings/:id/force-complete", hb.Admin.ForceComplete)
		api.GET("/bookings/:id/audit", hb.Admin.AuditTrail)
		api.POST("/cleaners/:id/suspend", hb.Admin.SetCleanerSuspended)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Neatly"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterBookingRoutes(r, hb)
	RegisterContractorRoutes(r, hb)
	RegisterClientRoutes(r, hb)
	RegisterSearchRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterHealthRoute(r)
}
