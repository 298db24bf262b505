package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer classification values
const (
	CustomerTypeIndividual = "individual"
	CustomerTypeGroup      = "group"
	CustomerTypeCorporate  = "corporate"
)

// Customer lifecycle status values
const (
	CustomerStatusActive      = "active"
	CustomerStatusInactive    = "inactive"
	CustomerStatusBlacklisted = "blacklisted"
)

type Customer struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	FirstName string `gorm:"not null" json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `gorm:"uniqueIndex;not null" json:"email"`
	Phone     string `json:"phone"`

	CustomerType string `gorm:"type:varchar(20);default:'individual'" json:"customer_type"`
	IsVIP        bool   `gorm:"default:false" json:"is_vip"`

	TotalSpent          float64    `gorm:"type:decimal(10,2);default:0.0" json:"total_spent"`
	LifetimeValue       float64    `gorm:"type:decimal(10,2);default:0.0" json:"lifetime_value"`
	AverageBookingValue float64    `gorm:"type:decimal(10,2);default:0.0" json:"average_booking_value"`
	TotalBookings       int        `gorm:"default:0" json:"total_bookings"`
	LastBookingDate     *time.Time `json:"last_booking_date"`

	Notes  string `gorm:"type:text" json:"notes"`
	Source string `gorm:"type:varchar(50)" json:"source"`
	Status string `gorm:"type:varchar(20);default:'active'" json:"status"`

	gorm.Model
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.Email = NormalizeEmail(c.Email)
	return
}

// NormalizeEmail lowercases and trims an email so it can serve as the
// ledger key regardless of how the auth provider reports it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SplitName derives first/last name from a display name. The first
// whitespace token becomes the first name ("Guest" when empty), the rest
// join into the last name.
func SplitName(displayName string) (first, last string) {
	parts := strings.Fields(displayName)
	if len(parts) == 0 {
		return "Guest", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
