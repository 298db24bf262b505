// controllers/booking.go
package controllers

import (
	"errors"
	"net/http"

	"tandempro-backend/config"
	"tandempro-backend/models"
	"tandempro-backend/services"
	"tandempro-backend/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// BookingController handles the booking write path through the booking
// service so the post-insert pipeline stays in one place.
type BookingController struct {
	Service *services.BookingService
}

func NewBookingController() *BookingController {
	return &BookingController{Service: services.NewBookingService(config.DB)}
}

// UpdateBookingStatusInput defines the expected JSON structure for a
// status update
type UpdateBookingStatusInput struct {
	Status string `json:"status" binding:"required"`
}

// CreateBooking creates a booking for the authenticated caller. The
// response is either the full booking body or a single error; enrichment
// outcomes (customer record, calendar sync, notifications) are never
// surfaced here.
func (bc *BookingController) CreateBooking(c *gin.Context) {
	identity, exists := utils.IdentityFromContext(c)
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Identity not found in context")
		return
	}

	var input services.BookingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	booking, err := bc.Service.Create(identity, input)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GetBookings retrieves the caller's bookings ordered by booking date
func (bc *BookingController) GetBookings(c *gin.Context) {
	identity, exists := utils.IdentityFromContext(c)
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Identity not found in context")
		return
	}

	var bookings []models.Booking
	if err := config.DB.
		Where("customer_email = ?", models.NormalizeEmail(identity.Email)).
		Order("booking_date").
		Find(&bookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetAllBookings retrieves every booking across all identities, ascending
// by date, for calendar aggregation. Admin only.
func (bc *BookingController) GetAllBookings(c *gin.Context) {
	var bookings []models.Booking
	if err := config.DB.Order("booking_date asc").Find(&bookings).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bookings")
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// UpdateBookingStatus moves a booking to a new lifecycle status
func (bc *BookingController) UpdateBookingStatus(c *gin.Context) {
	var input UpdateBookingStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	booking, err := bc.Service.UpdateStatus(c.Param("id"), input.Status)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.RespondWithError(c, http.StatusNotFound, "Booking not found")
		case errors.Is(err, services.ErrInvalidID):
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID format")
		case errors.Is(err, services.ErrInvalidStatus),
			errors.Is(err, services.ErrInvalidTransition):
			utils.RespondWithError(c, http.StatusBadRequest, err.Error())
		default:
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking")
		}
		return
	}

	c.JSON(http.StatusOK, booking)
}
