package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	bookingRepo "skedy/database/repository/booking"
	"skedy/models"
	"skedy/services/scheduling"
	"skedy/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AvailabilityHandler hosts the scheduling engine behind a thin HTTP
// adapter; all business logic lives in the engine.
type AvailabilityHandler struct {
	Engine   scheduling.AvailabilityEngine
	Bookings bookingRepo.BookingRepository
}

func NewAvailabilityHandler(engine scheduling.AvailabilityEngine, bookings bookingRepo.BookingRepository) *AvailabilityHandler {
	return &AvailabilityHandler{Engine: engine, Bookings: bookings}
}

// GetDayAvailabilityHandler answers "what times are free on date D for
// duration M" for one business, with a short-lived cache in front.
func (h *AvailabilityHandler) GetDayAvailabilityHandler(c *gin.Context) {
	logger := utils.GetLogger()
	businessID := c.Param("businessID")
	date := c.Query("date")
	minutesStr := c.Query("minutes")

	if businessID == "" || date == "" || minutesStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "businessID, date and minutes are required"})
		return
	}
	minutes, err := strconv.Atoi(minutesStr)
	if err != nil || minutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minutes must be a positive integer"})
		return
	}

	ctx := c.Request.Context()
	cacheKey := utils.AvailabilityCacheKey(businessID, date, minutes)
	if cached := utils.GetCachedAvailabilityResponse(ctx, cacheKey); cached != nil {
		c.Data(http.StatusOK, "application/json", cached)
		return
	}

	result, err := h.Engine.CheckDayAvailability(ctx, businessID, date, minutes)
	if err != nil {
		status := statusForEngineError(err)
		if status == http.StatusInternalServerError {
			logger.Error("day availability query failed",
				zap.String("businessID", businessID), zap.String("date", date), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode availability"})
		return
	}
	utils.CacheAvailabilityResponse(ctx, cacheKey, payload)
	c.Data(http.StatusOK, "application/json", payload)
}

// ConfirmBookingRequest is the payload for confirming a booking against the
// availability store.
type ConfirmBookingRequest struct {
	BusinessID string    `json:"businessId" binding:"required"`
	ProviderID string    `json:"providerId" binding:"required"`
	UserID     string    `json:"userId" binding:"required"`
	StartAt    time.Time `json:"startAt" binding:"required"`
	EndAt      time.Time `json:"endAt" binding:"required"`
}

// ConfirmBookingHandler applies a booking to the availability store and
// persists the booking record once capacity has been consumed.
func (h *AvailabilityHandler) ConfirmBookingHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var req ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Invalid booking confirmation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	booking := &models.Booking{
		ID:         uuid.New().String(),
		BusinessID: req.BusinessID,
		ProviderID: req.ProviderID,
		UserID:     req.UserID,
		StartAt:    req.StartAt.UTC(),
		EndAt:      req.EndAt.UTC(),
		Status:     "confirmed",
		CreatedAt:  time.Now().UTC(),
	}

	ctx := c.Request.Context()
	if err := h.Engine.ApplyBooking(ctx, booking); err != nil {
		status := statusForEngineError(err)
		if status == http.StatusInternalServerError {
			logger.Error("failed to apply booking",
				zap.String("businessID", booking.BusinessID), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if err := h.Bookings.Create(ctx, booking); err != nil {
		logger.Error("booking applied but record creation failed",
			zap.String("bookingID", booking.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to persist booking", "message": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking": booking})
}

// GenerateHorizonRequest is the payload for onboarding a business into
// availability.
type GenerateHorizonRequest struct {
	FromDate string `json:"fromDate" binding:"required"` // business-local "YYYY-MM-DD"
	Days     int    `json:"days"`                        // defaults to the configured horizon
}

// GenerateHorizonHandler populates the initial availability horizon for a
// newly onboarded business.
func (h *AvailabilityHandler) GenerateHorizonHandler(c *gin.Context) {
	logger := utils.GetLogger()
	businessID := c.Param("businessID")

	var req GenerateHorizonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	if err := h.Engine.GenerateInitialHorizon(c.Request.Context(), businessID, req.FromDate, req.Days); err != nil {
		status := statusForEngineError(err)
		if status == http.StatusInternalServerError {
			logger.Error("failed to generate availability horizon",
				zap.String("businessID", businessID), zap.Error(err))
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Availability horizon generated"})
}

// statusForEngineError maps the engine's error taxonomy onto HTTP statuses.
func statusForEngineError(err error) int {
	switch {
	case scheduling.HasCode(err, scheduling.CodeConfiguration):
		return http.StatusNotFound
	case scheduling.HasCode(err, scheduling.CodeInputValidation):
		return http.StatusBadRequest
	case scheduling.HasCode(err, scheduling.CodeNoBucket):
		return http.StatusUnprocessableEntity
	case scheduling.HasCode(err, scheduling.CodeConcurrency):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
