package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Booking lifecycle status values
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// bookingTransitions is the explicit status state machine. completed and
// cancelled are terminal.
var bookingTransitions = map[string][]string{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// IsValidBookingStatus reports whether s is a known booking status.
func IsValidBookingStatus(s string) bool {
	_, ok := bookingTransitions[s]
	return ok
}

// CanTransitionBooking reports whether a booking may move from one status
// to another.
func CanTransitionBooking(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Booking struct {
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`

	CustomerName  string `gorm:"not null" json:"customer_name"`
	CustomerEmail string `gorm:"index;not null" json:"customer_email"`

	TourName      string    `gorm:"not null" json:"tour_name"`
	BookingDate   string    `gorm:"not null" json:"booking_date"`
	TourStartTime string    `gorm:"not null" json:"tour_start_time"`
	Adults        int       `json:"adults"`
	Children      int       `json:"children"`
	Duration      int       `json:"duration"` // minutes
	TotalAmount   float64   `gorm:"type:decimal(10,2)" json:"total_amount"`
	HotelName     string    `json:"hotel_name"`
	Notes         string    `gorm:"type:text" json:"notes"`
	Channel       string    `gorm:"type:varchar(20);default:'website'" json:"channel"`
	Status        string    `gorm:"type:varchar(20);default:'pending'" json:"status"`
	BookedAt      time.Time `json:"booked_at"`

	GoogleCalendarEventID string `json:"google_calendar_event_id,omitempty"`

	gorm.Model
}

func (b *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CustomerEmail = NormalizeEmail(b.CustomerEmail)
	return
}
