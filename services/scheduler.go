// services/scheduler.go
package services

import (
	"fmt"
	"log"
	"time"

	"tandempro-backend/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Scheduler runs the daily maintenance jobs: flight-day reminders over
// WhatsApp and the overdue-invoice sweep.
type Scheduler struct {
	db     *gorm.DB
	notify *NotificationService
}

func NewScheduler(db *gorm.DB) *Scheduler {
	return &Scheduler{
		db:     db,
		notify: NewNotificationService(),
	}
}

func (s *Scheduler) Start() {
	c := cron.New()

	// Run every day at 9 AM
	c.AddFunc("0 9 * * *", func() {
		s.SendFlightReminders()
		s.MarkOverdueInvoices()
	})

	c.Start()
	log.Println("Daily scheduler started")
}

// SendFlightReminders messages every confirmed booking scheduled for
// tomorrow. Send failures are logged per booking and never stop the loop.
func (s *Scheduler) SendFlightReminders() {
	log.Println("Starting flight reminder processing...")

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")

	var bookings []models.Booking
	if err := s.db.Where("booking_date = ? AND status = ?",
		tomorrow, models.BookingStatusConfirmed).Find(&bookings).Error; err != nil {
		log.Printf("Failed to fetch tomorrow's bookings: %v", err)
		return
	}

	for _, booking := range bookings {
		var customer models.Customer
		if err := s.db.Where("email = ?", booking.CustomerEmail).
			First(&customer).Error; err != nil {
			log.Printf("Booking %s: no customer record for reminder: %v", booking.ID, err)
			continue
		}

		message := fmt.Sprintf(
			"Hi %s, reminder: your %s flight is tomorrow at %s. Meet us at the takeoff site 30 minutes early. Blue skies!",
			customer.FirstName, booking.TourName, booking.TourStartTime)

		if sid, err := s.notify.SendWhatsApp(customer.Phone, message); err != nil {
			log.Printf("Failed to send reminder to %s: %v", customer.Phone, err)
		} else if sid != "" {
			log.Printf("Reminder sent to %s, SID: %s", customer.Phone, sid)
		} else {
			log.Printf("Reminder sent to %s, but no SID returned", customer.Phone)
		}
	}

	log.Println("Flight reminder processing completed")
}

// MarkOverdueInvoices flips sent invoices past their due date to overdue.
func (s *Scheduler) MarkOverdueInvoices() {
	result := s.db.Model(&models.Invoice{}).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?",
			models.InvoiceStatusSent, time.Now()).
		Update("status", models.InvoiceStatusOverdue)
	if result.Error != nil {
		log.Printf("Overdue invoice sweep failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("Marked %d invoices overdue", result.RowsAffected)
	}
}
