package services

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"tandempro-backend/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockDB creates a GORM connection backed by sqlmock
func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestComputeTax(t *testing.T) {
	tax, total := ComputeTax(100, 20)
	assert.Equal(t, 20.0, tax)
	assert.Equal(t, 120.0, total)

	tax, total = ComputeTax(250, 10)
	assert.Equal(t, 25.0, tax)
	assert.Equal(t, 275.0, total)

	tax, total = ComputeTax(100, 0)
	assert.Equal(t, 0.0, tax)
	assert.Equal(t, 100.0, total)
}

func TestRecomputeTotals_MergedValues(t *testing.T) {
	// Stored rate stays authoritative when only the subtotal changes
	invoice := &models.Invoice{Subtotal: 100, TaxRate: 20}
	RecomputeTotals(invoice)
	assert.Equal(t, 120.0, invoice.TotalAmount)

	invoice.Subtotal = 200
	RecomputeTotals(invoice)
	assert.Equal(t, 40.0, invoice.TaxAmount)
	assert.Equal(t, 240.0, invoice.TotalAmount)
}

func TestDueDateFrom(t *testing.T) {
	issued := time.Date(2025, 6, 15, 14, 30, 45, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC), DueDateFrom(issued))
}

func TestInferTourType(t *testing.T) {
	tests := []struct {
		tourName string
		want     string
	}{
		{"Solo Flight", models.TourTypeSolo},
		{"VIP Tandem Experience", models.TourTypeVIP},
		{"Sunset Tandem", models.TourTypeTandem},
		{"vip sunrise", models.TourTypeVIP},
		{"SOLO intro course", models.TourTypeSolo},
		// solo wins over vip when both keywords appear
		{"VIP Solo Package", models.TourTypeSolo},
		{"", models.TourTypeTandem},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InferTourType(tt.tourName), tt.tourName)
	}
}

func TestFormatInvoiceNumber(t *testing.T) {
	june := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-202506-0001", FormatInvoiceNumber(june, 1))
	assert.Equal(t, "INV-202506-0042", FormatInvoiceNumber(june, 42))

	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "INV-202601-1234", FormatInvoiceNumber(jan, 1234))
}

func TestNextInvoiceNumber_StrictlyIncreasing(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewInvoiceService(db)
	now := time.Now()

	var numbers []string
	for i := 1; i <= 5; i++ {
		mock.ExpectQuery(`INSERT INTO invoice_sequences`).
			WithArgs(now.Year(), int(now.Month())).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(i))

		number, err := svc.NextInvoiceNumber(now)
		require.NoError(t, err)
		numbers = append(numbers, number)
	}

	for i, number := range numbers {
		expected := fmt.Sprintf("INV-%d%02d-%04d", now.Year(), int(now.Month()), i+1)
		assert.Equal(t, expected, number)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildPaymentLink(t *testing.T) {
	t.Setenv("PAYMENT_BASE_URL", "https://pay.example.com/invoice")

	link := BuildPaymentLink("INV-202506-0007", 120, "EUR")
	assert.Contains(t, link, "https://pay.example.com/invoice?")
	assert.Contains(t, link, "invoice=INV-202506-0007")
	assert.Contains(t, link, "amount=120.00")
	assert.Contains(t, link, "currency=EUR")
}

func TestGeneratePaymentQR(t *testing.T) {
	qr, err := GeneratePaymentQR("https://pay.example.com/invoice?invoice=INV-202506-0001")
	require.NoError(t, err)
	assert.NotEmpty(t, qr)
}
