package routes

import (
	"skedy/handlers"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all endpoints for the availability service.
func RegisterRoutes(r *gin.Engine, h *handlers.AvailabilityHandler) {
	r.Use(cors.Default())

	r.GET("/health", handlers.HealthHandler)

	api := r.Group("/api")
	{
		api.GET("/business/:businessID/availability", h.GetDayAvailabilityHandler)
		api.POST("/business/:businessID/availability/generate", h.GenerateHorizonHandler)
		api.POST("/bookings", h.ConfirmBookingHandler)
	}
}
