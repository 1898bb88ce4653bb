package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/hotelhaven/booking-backend/internal/cache"
	"github.com/hotelhaven/booking-backend/internal/config"
	"github.com/hotelhaven/booking-backend/internal/database"
	"github.com/hotelhaven/booking-backend/internal/metrics"
	"github.com/hotelhaven/booking-backend/internal/models"
	"github.com/hotelhaven/booking-backend/internal/services"
)

const webhookTestSecret = "whsec_handler_test"

func newWebhookRouter(t *testing.T) (*gin.Engine, sqlmock.Sqlmock) {
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	sqlxDB := sqlx.NewDb(db, "sqlmock")

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	paymentService := services.NewPaymentService(&config.PaymentConfig{
		SecretKey:      "sk_test_key",
		WebhookSecret:  webhookTestSecret,
		Currency:       "usd",
		RequestTimeout: 5 * time.Second,
	}, metrics.New(), logger)
	reconciliation := services.NewReconciliationService(
		database.NewBookingRepository(sqlxDB),
		nil,
		cache.NewEventDeduper(nil, 0),
		metrics.New(),
		logger,
	)

	router := gin.New()
	router.POST("/webhook-checkout", NewWebhookHandler(paymentService, reconciliation, logger).HandleCheckout)
	return router, mock
}

func signWebhookPayload(payload []byte, secret string) string {
	ts := time.Now().Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func postWebhook(router *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook-checkout", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func completedCheckoutEvent(eventID, bookingID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"object": "event",
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"object": "checkout.session",
				"client_reference_id": %q
			}
		}
	}`, eventID, stripe.APIVersion, bookingID))
}

func TestHandleCheckout(t *testing.T) {
	bookingID := uuid.New().String()

	t.Run("Confirms Booking", func(t *testing.T) {
		router, mock := newWebhookRouter(t)
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
		mock.ExpectQuery(`UPDATE bookings`).
			WithArgs(bookingID, true, sqlmock.AnyArg(), sqlmock.AnyArg(), models.BookingStatusConfirmed).
			WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

		payload := completedCheckoutEvent("evt_ok", bookingID)
		w := postWebhook(router, payload, signWebhookPayload(payload, webhookTestSecret))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"received":true`)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Bad Signature Rejected", func(t *testing.T) {
		router, mock := newWebhookRouter(t)

		payload := completedCheckoutEvent("evt_bad_sig", bookingID)
		w := postWebhook(router, payload, signWebhookPayload(payload, "whsec_wrong"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		// Nothing may reach the database
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing Signature Rejected", func(t *testing.T) {
		router, mock := newWebhookRouter(t)

		payload := completedCheckoutEvent("evt_no_sig", bookingID)
		w := postWebhook(router, payload, "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Booking Still Acknowledged", func(t *testing.T) {
		router, mock := newWebhookRouter(t)

		mock.ExpectQuery(`SELECT (.+) FROM bookings WHERE id`).
			WithArgs("gone").
			WillReturnError(sql.ErrNoRows)

		payload := completedCheckoutEvent("evt_gone", "gone")
		w := postWebhook(router, payload, signWebhookPayload(payload, webhookTestSecret))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Other Event Types Acknowledged", func(t *testing.T) {
		router, mock := newWebhookRouter(t)

		payload := []byte(fmt.Sprintf(`{
			"id": "evt_other",
			"object": "event",
			"api_version": %q,
			"type": "payment_intent.created",
			"data": {"object": {}}
		}`, stripe.APIVersion))
		w := postWebhook(router, payload, signWebhookPayload(payload, webhookTestSecret))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
