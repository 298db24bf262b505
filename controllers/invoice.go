// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"

	"tandempro-backend/config"
	"tandempro-backend/models"
	"tandempro-backend/services"
	"tandempro-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateInvoiceInput defines the expected JSON structure for creating an
// invoice. Supply booking_id to derive one from a booking, or the manual
// fields for a standalone invoice.
type CreateInvoiceInput struct {
	BookingID *uuid.UUID `json:"booking_id"`

	CustomerName  string  `json:"customer_name"`
	CustomerEmail string  `json:"customer_email" binding:"omitempty,email"`
	Subtotal      float64 `json:"subtotal" binding:"omitempty,min=0"`
	TaxRate       float64 `json:"tax_rate" binding:"omitempty,min=0"`
	Currency      string  `json:"currency"`

	PilotName      string `json:"pilot_name"`
	FlightDate     string `json:"flight_date"`
	FlightTime     string `json:"flight_time"`
	FlightDuration int    `json:"flight_duration" binding:"omitempty,min=0"`
	TourName       string `json:"tour_name"`

	Notes string `json:"notes"`
}

// UpdateInvoiceInput defines the expected JSON structure for updating an invoice
type UpdateInvoiceInput struct {
	CustomerName  *string  `json:"customer_name"`
	CustomerEmail *string  `json:"customer_email" binding:"omitempty,email"`
	Subtotal      *float64 `json:"subtotal" binding:"omitempty,min=0"`
	TaxRate       *float64 `json:"tax_rate" binding:"omitempty,min=0"`
	Currency      *string  `json:"currency"`
	Status        *string  `json:"status" binding:"omitempty,oneof=draft sent paid overdue cancelled"`

	PilotName      *string `json:"pilot_name"`
	FlightDate     *string `json:"flight_date"`
	FlightTime     *string `json:"flight_time"`
	FlightDuration *int    `json:"flight_duration" binding:"omitempty,min=0"`

	Notes *string `json:"notes"`
}

// CreateInvoice creates an invoice from a booking or from manual fields
func CreateInvoice(c *gin.Context) {
	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	invoiceService := services.NewInvoiceService(config.DB)

	// Booking-derived invoice
	if input.BookingID != nil {
		var booking models.Booking
		if err := config.DB.Where("id = ?", *input.BookingID).
			First(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				utils.RespondWithError(c, http.StatusBadRequest, "Booking not found")
			} else {
				utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
			}
			return
		}

		invoice, err := invoiceService.GenerateFromBooking(&booking)
		if err != nil {
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
			return
		}
		c.JSON(http.StatusCreated, invoice)
		return
	}

	// Manual invoice, stays in draft
	invoice := &models.Invoice{
		CustomerName:   input.CustomerName,
		CustomerEmail:  models.NormalizeEmail(input.CustomerEmail),
		Subtotal:       input.Subtotal,
		TaxRate:        input.TaxRate,
		Currency:       input.Currency,
		Status:         models.InvoiceStatusDraft,
		PilotName:      input.PilotName,
		FlightDate:     input.FlightDate,
		FlightTime:     input.FlightTime,
		FlightDuration: input.FlightDuration,
		TourType:       services.InferTourType(input.TourName),
		Notes:          input.Notes,
	}

	if err := invoiceService.Create(invoice); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	c.JSON(http.StatusCreated, invoice)
}

// GetInvoices retrieves invoices filtered by status and/or customer
func GetInvoices(c *gin.Context) {
	query := config.DB.Order("created_at desc")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		customerUUID, err := uuid.Parse(customerID)
		if err != nil {
			utils.RespondWithError(c, http.StatusBadRequest, "Invalid customer ID format")
			return
		}
		query = query.Where("customer_id = ?", customerUUID)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetInvoice retrieves a specific invoice by ID
func GetInvoice(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var invoice models.Invoice
	if err := config.DB.Where("id = ?", invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// UpdateInvoice updates an existing invoice. Tax and total are always
// recomputed from the merged stored+incoming values, so updating only
// subtotal or only tax_rate never works against stale numbers.
func UpdateInvoice(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	var input UpdateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// Retrieve existing invoice
	var invoice models.Invoice
	if err := config.DB.Where("id = ?", invoiceUUID).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	// Update fields if provided
	if input.CustomerName != nil {
		invoice.CustomerName = *input.CustomerName
	}
	if input.CustomerEmail != nil {
		invoice.CustomerEmail = models.NormalizeEmail(*input.CustomerEmail)
	}
	if input.Subtotal != nil {
		invoice.Subtotal = *input.Subtotal
	}
	if input.TaxRate != nil {
		invoice.TaxRate = *input.TaxRate
	}
	if input.Currency != nil {
		invoice.Currency = *input.Currency
	}
	if input.Status != nil {
		invoice.Status = *input.Status
	}
	if input.PilotName != nil {
		invoice.PilotName = *input.PilotName
	}
	if input.FlightDate != nil {
		invoice.FlightDate = *input.FlightDate
	}
	if input.FlightTime != nil {
		invoice.FlightTime = *input.FlightTime
	}
	if input.FlightDuration != nil {
		invoice.FlightDuration = *input.FlightDuration
	}
	if input.Notes != nil {
		invoice.Notes = *input.Notes
	}

	// Recalculate totals and the payment link when the money changed
	if input.Subtotal != nil || input.TaxRate != nil || input.Currency != nil {
		services.RecomputeTotals(&invoice)
		invoice.PaymentLink = services.BuildPaymentLink(
			invoice.InvoiceNumber, invoice.TotalAmount, invoice.Currency)
		if qr, err := services.GeneratePaymentQR(invoice.PaymentLink); err == nil {
			invoice.PaymentQR = qr
		}
	}

	if err := config.DB.Save(&invoice).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice")
		return
	}

	c.JSON(http.StatusOK, invoice)
}

// DeleteInvoice soft deletes an invoice
func DeleteInvoice(c *gin.Context) {
	invoiceUUID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid invoice ID format")
		return
	}

	result := config.DB.Where("id = ?", invoiceUUID).Delete(&models.Invoice{})

	if result.Error != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}

	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully"})
}
