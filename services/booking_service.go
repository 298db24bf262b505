// services/booking_service.go
package services

import (
	"fmt"
	"log"
	"time"

	"tandempro-backend/models"
	"tandempro-backend/utils"

	"gorm.io/gorm"
)

// BookingInput is the validated shape of a booking request.
type BookingInput struct {
	TourName      string  `json:"tour_name" binding:"required"`
	BookingDate   string  `json:"booking_date" binding:"required"`
	TourStartTime string  `json:"tour_start_time" binding:"required"`
	Adults        int     `json:"adults" binding:"omitempty,min=1"`
	Children      int     `json:"children" binding:"omitempty,min=0"`
	Duration      int     `json:"duration" binding:"omitempty,min=0"` // minutes
	TotalAmount   float64 `json:"total_amount" binding:"omitempty,min=0"`
	HotelName     string  `json:"hotel_name"`
	Notes         string  `json:"notes"`
}

// BookingService owns the booking write path: the critical insert plus the
// ordered best-effort pipeline that runs after it.
type BookingService struct {
	db       *gorm.DB
	ledger   *LedgerService
	calendar *CalendarClient
	notify   *NotificationService
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{
		db:       db,
		ledger:   NewLedgerService(db),
		calendar: NewCalendarClient(),
		notify:   NewNotificationService(),
	}
}

// sideEffectStep is one entry of the post-insert pipeline. Steps report
// their error instead of panicking so the runner can log and move on.
type sideEffectStep struct {
	name string
	run  func() error
}

// Create persists the booking for the resolved identity and then walks the
// enrichment pipeline. Only the insert can fail the request: once it
// commits the caller gets the booking back no matter what the pipeline
// does.
func (s *BookingService) Create(identity utils.Identity, input BookingInput) (*models.Booking, error) {
	booking := &models.Booking{
		CustomerName:  identity.Name,
		CustomerEmail: identity.Email,
		TourName:      input.TourName,
		BookingDate:   input.BookingDate,
		TourStartTime: input.TourStartTime,
		Adults:        input.Adults,
		Children:      input.Children,
		Duration:      input.Duration,
		TotalAmount:   input.TotalAmount,
		HotelName:     input.HotelName,
		Notes:         input.Notes,
		Channel:       "website",
		Status:        models.BookingStatusPending,
		BookedAt:      time.Now(),
	}
	if id, err := parseUUID(identity.UserID); err == nil {
		booking.UserID = id
	}
	if booking.Adults <= 0 {
		booking.Adults = 1
	}
	if booking.Children < 0 {
		booking.Children = 0
	}
	if booking.Duration <= 0 {
		booking.Duration = 120
	}
	if booking.CustomerName == "" {
		booking.CustomerName = "Guest"
	}

	if err := s.db.Create(booking).Error; err != nil {
		return nil, err
	}

	s.runSideEffects(booking, identity)

	return booking, nil
}

// runSideEffects executes the enrichment steps in order. Each failure is
// logged and swallowed; a broken step never blocks the ones after it.
func (s *BookingService) runSideEffects(booking *models.Booking, identity utils.Identity) {
	steps := []sideEffectStep{
		{
			name: "customer upsert",
			run: func() error {
				return s.ledger.UpsertFromBooking(
					booking.CustomerEmail, identity.Name, identity.Phone, booking.TotalAmount)
			},
		},
		{
			name: "aggregate recompute",
			run: func() error {
				return s.ledger.RecomputeAggregates(booking.CustomerEmail)
			},
		},
		{
			name: "calendar sync",
			run: func() error {
				eventID, err := s.calendar.CreateEvent(booking)
				if err != nil {
					return err
				}
				return s.db.Model(booking).
					Update("google_calendar_event_id", eventID).Error
			},
		},
		{
			name: "whatsapp confirmation",
			run: func() error {
				_, err := s.notify.SendWhatsApp(identity.Phone, bookingConfirmationText(booking))
				return err
			},
		},
		{
			name: "email confirmation",
			run: func() error {
				return s.notify.SendEmail(booking.CustomerEmail,
					"Booking received: "+booking.TourName,
					bookingConfirmationText(booking))
			},
		},
	}

	for _, step := range steps {
		if err := step.run(); err != nil {
			log.Printf("Booking %s: %s failed: %v", booking.ID, step.name, err)
		}
	}
}

// UpdateStatus moves a booking through the explicit transition table.
func (s *BookingService) UpdateStatus(id string, newStatus string) (*models.Booking, error) {
	bookingID, err := parseUUID(id)
	if err != nil {
		return nil, ErrInvalidID
	}

	var booking models.Booking
	if err := s.db.First(&booking, "id = ?", bookingID).Error; err != nil {
		return nil, err
	}

	if !models.IsValidBookingStatus(newStatus) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, newStatus)
	}
	if !models.CanTransitionBooking(booking.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, newStatus)
	}

	if err := s.db.Model(&booking).Update("status", newStatus).Error; err != nil {
		return nil, err
	}
	booking.Status = newStatus

	// Status changes shift the completed-bookings revenue, refresh the
	// ledger best-effort.
	if err := s.ledger.RecomputeAggregates(booking.CustomerEmail); err != nil {
		log.Printf("Booking %s: aggregate recompute failed: %v", booking.ID, err)
	}

	return &booking, nil
}

func bookingConfirmationText(b *models.Booking) string {
	return fmt.Sprintf(
		"Hi %s, we received your booking for %s on %s at %s (%d adults, %d children). We'll confirm shortly!",
		b.CustomerName, b.TourName, b.BookingDate, b.TourStartTime, b.Adults, b.Children)
}
