package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

func TestAverageBookingValue(t *testing.T) {
	assert.Equal(t, 0.0, AverageBookingValue(0, 0))
	assert.Equal(t, 0.0, AverageBookingValue(500, 0))
	assert.Equal(t, 150.0, AverageBookingValue(450, 3))
	assert.Equal(t, 120.0, AverageBookingValue(120, 1))
}

func TestUpsertFromBooking_ExistingCustomerKeepsPhone(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewLedgerService(db)
	customerID := uuid.New()

	// Existing customer with a stored phone; the caller supplies none.
	// The update must not touch the phone column.
	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE email = \$1`).
		WithArgs("a@x.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "phone", "first_name"}).
			AddRow(customerID.String(), "a@x.com", "+491701234567", "Anna"))
	mock.ExpectExec(`UPDATE "customers" SET "last_booking_date"=\$1,"updated_at"=\$2 WHERE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.UpsertFromBooking("A@X.com", "Anna Muster", "", 150)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertFromBooking_ExistingCustomerUpdatesPhone(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewLedgerService(db)
	customerID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "customers" WHERE email = \$1`).
		WithArgs("a@x.com", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "phone", "first_name"}).
			AddRow(customerID.String(), "a@x.com", "", "Anna"))
	mock.ExpectExec(`UPDATE "customers" SET "last_booking_date"=\$1,"phone"=\$2,"updated_at"=\$3 WHERE`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.UpsertFromBooking("a@x.com", "Anna Muster", "+491701234567", 150)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertFromBooking_RejectsEmptyEmail(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewLedgerService(db)

	err := svc.UpsertFromBooking("   ", "Anna", "+491701234567", 100)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeAggregates(t *testing.T) {
	db, mock, sqlDB := newMockDB(t)
	defer sqlDB.Close()

	svc := NewLedgerService(db)

	// Completed revenue only feeds total_spent; the count spans all statuses
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM "bookings"`).
		WithArgs("a@x.com", "completed").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(300.0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "bookings"`).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectExec(`UPDATE "customers" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.RecomputeAggregates("a@x.com")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
