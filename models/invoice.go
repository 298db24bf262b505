package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Invoice lifecycle status values
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

// Tour type values inferred from the tour name
const (
	TourTypeSolo   = "Solo"
	TourTypeVIP    = "VIP"
	TourTypeTandem = "Tandem"
)

type Invoice struct {
	ID uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`

	InvoiceNumber string     `gorm:"uniqueIndex;not null" json:"invoice_number"`
	BookingID     *uuid.UUID `gorm:"type:uuid;index" json:"booking_id,omitempty"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index" json:"customer_id,omitempty"`

	CustomerName  string `json:"customer_name"`
	CustomerEmail string `json:"customer_email"`

	Subtotal    float64 `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	TaxRate     float64 `gorm:"type:decimal(5,2);default:20.0" json:"tax_rate"`
	TaxAmount   float64 `gorm:"type:decimal(10,2);not null" json:"tax_amount"`
	TotalAmount float64 `gorm:"type:decimal(10,2);not null" json:"total_amount"`
	Currency    string  `gorm:"type:varchar(3);default:'EUR'" json:"currency"`

	Status    string     `gorm:"type:varchar(20);default:'draft'" json:"status"`
	IssueDate time.Time  `json:"issue_date"`
	DueDate   *time.Time `json:"due_date"`

	PilotName      string `json:"pilot_name"`
	FlightDate     string `json:"flight_date"`
	FlightTime     string `json:"flight_time"`
	FlightDuration int    `json:"flight_duration"` // minutes
	TourType       string `gorm:"type:varchar(20);default:'Tandem'" json:"tour_type"`

	PaymentLink string `json:"payment_link"`
	PaymentQR   string `gorm:"type:text" json:"payment_qr"` // base64 PNG, empty when generation failed

	Notes string `gorm:"type:text" json:"notes"`

	gorm.Model
}

func (i *Invoice) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return
}

// InvoiceSequence holds the monthly invoice counter. The value column is
// bumped with an atomic upsert so concurrent invoice creation cannot draw
// the same number.
type InvoiceSequence struct {
	Year  int `gorm:"primaryKey;autoIncrement:false"`
	Month int `gorm:"primaryKey;autoIncrement:false"`
	Value int `gorm:"not null;default:0"`
}
