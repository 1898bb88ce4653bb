package services

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hotelhaven/booking-backend/internal/cache"
	"github.com/hotelhaven/booking-backend/internal/database"
	"github.com/hotelhaven/booking-backend/internal/metrics"
	"github.com/hotelhaven/booking-backend/internal/models"
)

func newReconciliationService(t *testing.T) (*ReconciliationService, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	svc := NewReconciliationService(
		database.NewBookingRepository(sqlxDB),
		nil, // audit trail is best effort and optional
		cache.NewEventDeduper(nil, 0),
		metrics.New(),
		logger,
	)
	return svc, mock
}

func expectPendingBookingFetch(mock sqlmock.Sqlmock, bookingID string) {
	now := time.Now()
	mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
		WithArgs(bookingID).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "room_id", "hotel_id", "check_in_date", "check_out_date",
			"guests", "total_price", "payment_method", "is_paid", "paid_at", "status",
			"created_at", "updated_at",
		}).AddRow(
			bookingID, uuid.New().String(), uuid.New().String(), uuid.New().String(),
			now, now.AddDate(0, 0, 3),
			2, 450.0, nil, false, nil, models.BookingStatusPending,
			now, now,
		))
}

func TestOnPaymentConfirmed(t *testing.T) {
	ctx := context.Background()
	bookingID := uuid.New().String()

	t.Run("Applied", func(t *testing.T) {
		svc, mock := newReconciliationService(t)

		expectPendingBookingFetch(mock, bookingID)
		mock.ExpectQuery(`UPDATE bookings`).
			WithArgs(bookingID, true, sqlmock.AnyArg(), sqlmock.AnyArg(), models.BookingStatusConfirmed).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

		outcome := svc.OnPaymentConfirmed(ctx, "evt_1", bookingID)
		assert.Equal(t, ReconcileApplied, outcome.Status)
		require.NotNil(t, outcome.Booking)
		assert.True(t, outcome.Booking.IsPaid)
		assert.Equal(t, models.BookingStatusConfirmed, outcome.Booking.Status)
		require.NotNil(t, outcome.Booking.PaymentMethod)
		assert.Equal(t, models.PaymentMethodCard, *outcome.Booking.PaymentMethod)
		assert.NotNil(t, outcome.Booking.PaidAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Booking Discarded", func(t *testing.T) {
		svc, mock := newReconciliationService(t)

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		outcome := svc.OnPaymentConfirmed(ctx, "evt_2", "missing")
		assert.Equal(t, ReconcileIgnored, outcome.Status)
		assert.Equal(t, "booking not found", outcome.Reason)
		assert.Nil(t, outcome.Booking)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Replay Converges", func(t *testing.T) {
		// Without dedup infrastructure a replayed event is applied again;
		// the transition is a pure overwrite, so the state is identical.
		svc, mock := newReconciliationService(t)

		for i := 0; i < 2; i++ {
			expectPendingBookingFetch(mock, bookingID)
			mock.ExpectQuery(`UPDATE bookings`).
				WithArgs(bookingID, true, sqlmock.AnyArg(), sqlmock.AnyArg(), models.BookingStatusConfirmed).
				WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))
		}

		first := svc.OnPaymentConfirmed(ctx, "evt_3", bookingID)
		second := svc.OnPaymentConfirmed(ctx, "evt_3", bookingID)

		assert.Equal(t, ReconcileApplied, first.Status)
		assert.Equal(t, ReconcileApplied, second.Status)
		assert.Equal(t, first.Booking.IsPaid, second.Booking.IsPaid)
		assert.Equal(t, first.Booking.Status, second.Booking.Status)
		assert.Equal(t, *first.Booking.PaymentMethod, *second.Booking.PaymentMethod)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Persist Failure Ignored", func(t *testing.T) {
		svc, mock := newReconciliationService(t)

		expectPendingBookingFetch(mock, bookingID)
		mock.ExpectQuery(`UPDATE bookings`).
			WillReturnError(fmt.Errorf("connection reset"))

		outcome := svc.OnPaymentConfirmed(ctx, "evt_4", bookingID)
		assert.Equal(t, ReconcileIgnored, outcome.Status)
		assert.Equal(t, "persist failed", outcome.Reason)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
