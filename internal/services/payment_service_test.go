package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/hotelhaven/booking-backend/internal/config"
	"github.com/hotelhaven/booking-backend/internal/metrics"
)

const testWebhookSecret = "whsec_test_secret"

func newPaymentService(t *testing.T) *PaymentService {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	return NewPaymentService(&config.PaymentConfig{
		SecretKey:      "sk_test_key",
		WebhookSecret:  testWebhookSecret,
		SuccessURL:     "http://localhost:3000/mybooking",
		CancelURL:      "http://localhost:3000/mybooking",
		Currency:       "usd",
		RequestTimeout: 5 * time.Second,
	}, metrics.New(), logger)
}

// signPayload produces a Stripe-Signature header for the payload, signed with
// the given secret: t=<unix>,v1=<hex hmac-sha256 over "<unix>.<payload>">.
func signPayload(payload []byte, secret string, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

func checkoutCompletedPayload(bookingID string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": "evt_test_1",
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
	}`, stripe.APIVersion, bookingID))
}

func TestVerifyWebhookEvent(t *testing.T) {
	svc := newPaymentService(t)

	t.Run("Valid Signature", func(t *testing.T) {
		payload := checkoutCompletedPayload("booking-123")
		header := signPayload(payload, testWebhookSecret, time.Now())

		event, err := svc.VerifyWebhookEvent(payload, header)
		require.NoError(t, err)
		assert.Equal(t, "evt_test_1", event.ID)
		assert.True(t, svc.IsCheckoutCompleted(event))
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		payload := checkoutCompletedPayload("booking-123")
		header := signPayload(payload, "whsec_other_secret", time.Now())

		event, err := svc.VerifyWebhookEvent(payload, header)
		assert.ErrorIs(t, err, ErrWebhookVerification)
		assert.Nil(t, event)
	})

	t.Run("Tampered Payload", func(t *testing.T) {
		payload := checkoutCompletedPayload("booking-123")
		header := signPayload(payload, testWebhookSecret, time.Now())
		tampered := checkoutCompletedPayload("booking-456")

		event, err := svc.VerifyWebhookEvent(tampered, header)
		assert.ErrorIs(t, err, ErrWebhookVerification)
		assert.Nil(t, event)
	})

	t.Run("Stale Timestamp", func(t *testing.T) {
		payload := checkoutCompletedPayload("booking-123")
		header := signPayload(payload, testWebhookSecret, time.Now().Add(-time.Hour))

		event, err := svc.VerifyWebhookEvent(payload, header)
		assert.ErrorIs(t, err, ErrWebhookVerification)
		assert.Nil(t, event)
	})

	t.Run("Missing Header", func(t *testing.T) {
		payload := checkoutCompletedPayload("booking-123")

		event, err := svc.VerifyWebhookEvent(payload, "")
		assert.ErrorIs(t, err, ErrWebhookVerification)
		assert.Nil(t, event)
	})
}

func TestBookingReferenceFromEvent(t *testing.T) {
	svc := newPaymentService(t)

	t.Run("Carries Reference", func(t *testing.T) {
		payload := checkoutCompletedPayload("booking-789")
		header := signPayload(payload, testWebhookSecret, time.Now())

		event, err := svc.VerifyWebhookEvent(payload, header)
		require.NoError(t, err)

		ref, err := svc.BookingReferenceFromEvent(event)
		require.NoError(t, err)
		assert.Equal(t, "booking-789", ref)
	})

	t.Run("Missing Reference", func(t *testing.T) {
		payload := []byte(fmt.Sprintf(`{
			"id": "evt_test_2",
			"object": "event",
			"api_version": %q,
			"type": "checkout.session.completed",
			"data": {"object": {"id": "cs_test_2", "object": "checkout.session"}}
		}`, stripe.APIVersion))
		header := signPayload(payload, testWebhookSecret, time.Now())

		event, err := svc.VerifyWebhookEvent(payload, header)
		require.NoError(t, err)

		_, err = svc.BookingReferenceFromEvent(event)
		assert.Error(t, err)
	})
}

func TestIsCheckoutCompleted(t *testing.T) {
	svc := newPaymentService(t)

	payload := []byte(fmt.Sprintf(`{
		"id": "evt_test_3",
		"object": "event",
		"api_version": %q,
		"type": "payment_intent.created",
		"data": {"object": {}}
	}`, stripe.APIVersion))
	header := signPayload(payload, testWebhookSecret, time.Now())

	event, err := svc.VerifyWebhookEvent(payload, header)
	require.NoError(t, err)
	assert.False(t, svc.IsCheckoutCompleted(event))
}
