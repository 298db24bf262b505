// services/invoice_service.go
package services

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"tandempro-backend/models"
	"tandempro-backend/utils"

	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

const (
	defaultSubtotal = 100.0
	defaultTaxRate  = 20.0
	dueDays         = 30
)

// InvoiceService derives billing documents from bookings or manual input.
type InvoiceService struct {
	db *gorm.DB
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db}
}

// NextInvoiceNumber draws the next INV-YYYYMM-NNNN number for now's month.
// The counter lives in invoice_sequences and is bumped in a single upsert,
// so two concurrent invoices can never share a number.
func (s *InvoiceService) NextInvoiceNumber(now time.Time) (string, error) {
	var value int
	err := s.db.Raw(`
		INSERT INTO invoice_sequences (year, month, value)
		VALUES (?, ?, 1)
		ON CONFLICT (year, month)
		DO UPDATE SET value = invoice_sequences.value + 1
		RETURNING value
	`, now.Year(), int(now.Month())).Scan(&value).Error
	if err != nil {
		return "", err
	}
	return FormatInvoiceNumber(now, value), nil
}

// FormatInvoiceNumber renders INV-YYYYMM-NNNN.
func FormatInvoiceNumber(now time.Time, seq int) string {
	return fmt.Sprintf("INV-%d%02d-%04d", now.Year(), int(now.Month()), seq)
}

// InferTourType matches case-insensitive keywords in the tour name. "solo"
// is checked before "vip"; anything else is a tandem flight.
func InferTourType(tourName string) string {
	name := strings.ToLower(tourName)
	switch {
	case strings.Contains(name, "solo"):
		return models.TourTypeSolo
	case strings.Contains(name, "vip"):
		return models.TourTypeVIP
	default:
		return models.TourTypeTandem
	}
}

// ComputeTax returns tax and gross total for a subtotal and a percent rate.
func ComputeTax(subtotal, taxRate float64) (tax, total float64) {
	tax = subtotal * taxRate / 100
	return tax, subtotal + tax
}

// RecomputeTotals rewrites tax_amount and total_amount from the invoice's
// current subtotal and tax_rate. Callers merge partial updates onto the
// stored row first, so updating only one of the two stays correct.
func RecomputeTotals(inv *models.Invoice) {
	inv.TaxAmount, inv.TotalAmount = ComputeTax(inv.Subtotal, inv.TaxRate)
}

// BuildPaymentLink embeds the invoice number, total and currency into the
// hosted payment page URL.
func BuildPaymentLink(invoiceNumber string, total float64, currency string) string {
	base := os.Getenv("PAYMENT_BASE_URL")
	if base == "" {
		base = "https://pay.tandempro.example/invoice"
	}
	params := url.Values{}
	params.Set("invoice", invoiceNumber)
	params.Set("amount", fmt.Sprintf("%.2f", total))
	params.Set("currency", currency)
	return base + "?" + params.Encode()
}

// GeneratePaymentQR renders the payment link as a base64 PNG.
func GeneratePaymentQR(paymentLink string) (string, error) {
	png, err := qrcode.Encode(paymentLink, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(png), nil
}

// DueDateFrom returns the payment deadline for an invoice issued at the
// given instant. Due dates are aligned to midnight so the overdue sweep
// flips an invoice on a full day boundary.
func DueDateFrom(issued time.Time) time.Time {
	return utils.BeginningOfDay(issued).AddDate(0, 0, dueDays)
}

// GenerateFromBooking builds, numbers and persists an invoice for a
// booking. Auto-generated invoices go out as "sent" with a 30-day due date.
func (s *InvoiceService) GenerateFromBooking(booking *models.Booking) (*models.Invoice, error) {
	now := time.Now()
	due := DueDateFrom(now)

	subtotal := booking.TotalAmount
	if subtotal <= 0 {
		subtotal = defaultSubtotal
	}

	invoice := &models.Invoice{
		BookingID:      &booking.ID,
		CustomerName:   booking.CustomerName,
		CustomerEmail:  booking.CustomerEmail,
		Subtotal:       subtotal,
		TaxRate:        defaultTaxRate,
		Currency:       defaultCurrency(),
		Status:         models.InvoiceStatusSent,
		IssueDate:      now,
		DueDate:        &due,
		PilotName:      os.Getenv("DEFAULT_PILOT_NAME"),
		FlightDate:     booking.BookingDate,
		FlightTime:     booking.TourStartTime,
		FlightDuration: booking.Duration,
		TourType:       InferTourType(booking.TourName),
	}

	if err := s.Create(invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Create numbers and persists a prepared invoice, filling in defaults,
// totals and the payment link. QR generation is best-effort; a failure
// leaves the field empty.
func (s *InvoiceService) Create(invoice *models.Invoice) error {
	now := time.Now()

	if invoice.Subtotal <= 0 {
		invoice.Subtotal = defaultSubtotal
	}
	if invoice.TaxRate <= 0 {
		invoice.TaxRate = defaultTaxRate
	}
	if invoice.Currency == "" {
		invoice.Currency = defaultCurrency()
	}
	if invoice.Status == "" {
		invoice.Status = models.InvoiceStatusDraft
	}
	if invoice.TourType == "" {
		invoice.TourType = models.TourTypeTandem
	}
	if invoice.IssueDate.IsZero() {
		invoice.IssueDate = now
	}
	RecomputeTotals(invoice)

	number, err := s.NextInvoiceNumber(now)
	if err != nil {
		return err
	}
	invoice.InvoiceNumber = number

	// Link the customer row when one exists for this email
	if invoice.CustomerID == nil && invoice.CustomerEmail != "" {
		var customer models.Customer
		if err := s.db.Where("email = ?", models.NormalizeEmail(invoice.CustomerEmail)).
			First(&customer).Error; err == nil {
			invoice.CustomerID = &customer.ID
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("Invoice %s: customer lookup failed: %v", number, err)
		}
	}

	invoice.PaymentLink = BuildPaymentLink(invoice.InvoiceNumber, invoice.TotalAmount, invoice.Currency)
	if qr, err := GeneratePaymentQR(invoice.PaymentLink); err != nil {
		log.Printf("Invoice %s: QR generation failed: %v", number, err)
	} else {
		invoice.PaymentQR = qr
	}

	return s.db.Create(invoice).Error
}

func defaultCurrency() string {
	if c := os.Getenv("INVOICE_CURRENCY"); c != "" {
		return c
	}
	return "EUR"
}
