// services/ledger.go
package services

import (
	"errors"
	"fmt"
	"time"

	"tandempro-backend/models"

	"gorm.io/gorm"
)

// LedgerService keeps the per-email customer record in sync with booking
// activity. Both operations are enrichment: callers log failures and keep
// going, the booking itself never depends on them.
type LedgerService struct {
	db *gorm.DB
}

func NewLedgerService(db *gorm.DB) *LedgerService {
	return &LedgerService{db: db}
}

// UpsertFromBooking provisions a customer on their first booking or
// refreshes contact fields on a repeat one. A supplied empty phone never
// overwrites a stored phone.
func (s *LedgerService) UpsertFromBooking(email, displayName, phone string, bookingAmount float64) error {
	email = models.NormalizeEmail(email)
	if email == "" {
		return fmt.Errorf("booking has no customer email")
	}

	var customer models.Customer
	err := s.db.Where("email = ?", email).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		first, last := models.SplitName(displayName)
		now := time.Now()
		customer = models.Customer{
			FirstName:           first,
			LastName:            last,
			Email:               email,
			Phone:               phone,
			CustomerType:        models.CustomerTypeIndividual,
			TotalBookings:       1,
			TotalSpent:          bookingAmount,
			LifetimeValue:       bookingAmount,
			AverageBookingValue: bookingAmount,
			LastBookingDate:     &now,
			Source:              "online_booking",
			Status:              models.CustomerStatusActive,
			Notes:               "Auto-created from online booking on " + now.Format("2006-01-02"),
		}
		return s.db.Create(&customer).Error
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"last_booking_date": time.Now(),
	}
	if phone != "" {
		updates["phone"] = phone
	}
	return s.db.Model(&customer).Updates(updates).Error
}

// RecomputeAggregates rebuilds the monetary aggregates from the full
// booking history: total_spent sums completed bookings only, while
// total_bookings counts every status.
func (s *LedgerService) RecomputeAggregates(email string) error {
	email = models.NormalizeEmail(email)

	var totalSpent float64
	if err := s.db.Model(&models.Booking{}).
		Where("customer_email = ? AND status = ?", email, models.BookingStatusCompleted).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&totalSpent).Error; err != nil {
		return err
	}

	var totalBookings int64
	if err := s.db.Model(&models.Booking{}).
		Where("customer_email = ?", email).
		Count(&totalBookings).Error; err != nil {
		return err
	}

	avg := AverageBookingValue(totalSpent, int(totalBookings))

	return s.db.Model(&models.Customer{}).
		Where("email = ?", email).
		Updates(map[string]interface{}{
			"total_spent":           totalSpent,
			"lifetime_value":        totalSpent,
			"total_bookings":        totalBookings,
			"average_booking_value": avg,
		}).Error
}

// AverageBookingValue guards the zero-bookings division.
func AverageBookingValue(totalSpent float64, totalBookings int) float64 {
	if totalBookings <= 0 {
		return 0
	}
	return totalSpent / float64(totalBookings)
}
