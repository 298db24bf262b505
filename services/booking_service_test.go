package services

import (
	"errors"
	"testing"

	"tandempro-backend/models"
	"tandempro-backend/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// muteSideChannelEnv clears the integration endpoints so pipeline steps
// fail fast without network I/O.
func muteSideChannelEnv(t *testing.T) {
	t.Helper()
	t.Setenv("CALENDAR_API_URL", "")
	t.Setenv("CHAT_WEBHOOK_URL", "")
	t.Setenv("SMTP_HOST", "")
}

func TestCreateBooking_SideEffectFailuresDoNotAbort(t *testing.T) {
	muteSideChannelEnv(t)

	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewBookingService(db)
	userID := uuid.New()
	customerID := uuid.New()

	identity := utils.Identity{
		UserID: userID.String(),
		Email:  "a@x.com",
		Name:   "Anna Muster",
		Phone:  "", // empty phone keeps the WhatsApp step offline
	}

	// Critical write; the postgres dialector returns the generated id
	mock.ExpectQuery(`INSERT INTO "bookings" .* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))

	// Pipeline: customer upsert (existing customer, no phone update)
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE email = \$1`).
		WithArgs("a@x.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "phone", "first_name"}).
			AddRow(customerID.String(), "a@x.com", "+491701234567", "Anna"))
	mock.ExpectExec(`UPDATE "customers" SET "last_booking_date"=\$1,"updated_at"=\$2 WHERE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Pipeline: aggregate recompute
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM "bookings"`).
		WithArgs("a@x.com", "completed").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "customers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Calendar, WhatsApp and email all fail without touching the DB;
	// the booking must come back regardless.
	booking, err := svc.Create(identity, BookingInput{
		TourName:      "Solo Flight",
		BookingDate:   "2025-06-01",
		TourStartTime: "09:00",
		Adults:        2,
		TotalAmount:   150,
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, "website", booking.Channel)
	assert.Equal(t, 2, booking.Adults)
	assert.Equal(t, 0, booking.Children)
	assert.Equal(t, 120, booking.Duration)
	assert.Equal(t, "a@x.com", booking.CustomerEmail)
	assert.Empty(t, booking.GoogleCalendarEventID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_AppliesDefaults(t *testing.T) {
	muteSideChannelEnv(t)

	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewBookingService(db)

	mock.ExpectQuery(`INSERT INTO "bookings" .* RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	// Upsert fails, recompute still runs afterwards
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE email = \$1`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`UPDATE "customers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	booking, err := svc.Create(utils.Identity{
		UserID: uuid.New().String(),
		Email:  "b@x.com",
	}, BookingInput{
		TourName:      "Sunset Tandem",
		BookingDate:   "2025-07-10",
		TourStartTime: "17:30",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, booking.Adults)
	assert.Equal(t, 0, booking.Children)
	assert.Equal(t, 120, booking.Duration)
	assert.Equal(t, "Guest", booking.CustomerName)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBooking_PersistenceFailureAborts(t *testing.T) {
	muteSideChannelEnv(t)

	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewBookingService(db)

	mock.ExpectQuery(`INSERT INTO "bookings" .* RETURNING "id"`).
		WillReturnError(errors.New("constraint violation"))

	booking, err := svc.Create(utils.Identity{
		UserID: uuid.New().String(),
		Email:  "a@x.com",
	}, BookingInput{
		TourName:      "Solo Flight",
		BookingDate:   "2025-06-01",
		TourStartTime: "09:00",
	})
	require.Error(t, err)
	assert.Nil(t, booking)

	// No pipeline step may have run
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_ValidTransition(t *testing.T) {
	muteSideChannelEnv(t)

	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewBookingService(db)
	bookingID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).
		WithArgs(bookingID.String(), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_email", "status"}).
			AddRow(bookingID.String(), "a@x.com", "pending"))
	mock.ExpectExec(`UPDATE "bookings" SET "status"=\$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	// Best-effort ledger refresh after the status change
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(0.0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "customers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	booking, err := svc.UpdateStatus(bookingID.String(), models.BookingStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_RejectsIllegalTransition(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewBookingService(db)
	bookingID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_email", "status"}).
			AddRow(bookingID.String(), "a@x.com", "completed"))

	_, err := svc.UpdateStatus(bookingID.String(), models.BookingStatusPending)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewBookingService(db)
	bookingID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_email", "status"}).
			AddRow(bookingID.String(), "a@x.com", "pending"))

	_, err := svc.UpdateStatus(bookingID.String(), "shipped")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestUpdateStatus_NotFound(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewBookingService(db)

	mock.ExpectQuery(`SELECT \* FROM "bookings" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.UpdateStatus(uuid.New().String(), models.BookingStatusConfirmed)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateStatus_InvalidID(t *testing.T) {
	db, _, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewBookingService(db)

	_, err := svc.UpdateStatus("not-a-uuid", models.BookingStatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidID)
}
