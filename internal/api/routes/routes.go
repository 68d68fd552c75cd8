package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/rumbocarpool/backend/internal/api/handlers"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, nrApp *newrelic.Application) {
	// Add New Relic middleware if enabled
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		trips := v1.Group("/trips")
		{
			// Static segments before the :tripId wildcard
			trips.GET("/reservations", h.GetAllReservations)
			trips.GET("/users/:userId/last", h.GetLastTripByUser)
			trips.GET("/users/:userId/trips", h.GetTripsByUser)

			trips.POST("", h.CreateTrip)
			trips.GET("", h.GetPublishedTrips)
			trips.GET("/:tripId", h.GetTripByID)
			trips.DELETE("/:tripId", h.CancelTrip)
			trips.POST("/:tripId/select", h.SelectTrip)
			trips.PATCH("/:tripId/start", h.StartTrip)
			trips.PATCH("/:tripId/complete", h.CompleteTrip)
			trips.GET("/:tripId/passengers", h.GetPassengersByTrip)
		}

		users := v1.Group("/users")
		{
			users.POST("", h.CreateUser)
			users.POST("/login", h.Login)
			users.GET("/:userId", h.GetUserByID)
			users.PATCH("/:userId/password", h.UpdatePassword)
			users.POST("/:userId/ratings", h.AddRating)
			users.GET("/:userId/ratings/count", h.GetRatingsCount)
		}
	}
}
