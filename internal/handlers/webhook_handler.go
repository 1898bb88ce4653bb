package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/hotelhaven/booking-backend/internal/services"
)

// WebhookHandler receives raw signed payloads from the payment gateway
type WebhookHandler struct {
	paymentService *services.PaymentService
	reconciliation *services.ReconciliationService
	logger         *logrus.Logger
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(
	paymentService *services.PaymentService,
	reconciliation *services.ReconciliationService,
	logger *logrus.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		paymentService: paymentService,
		reconciliation: reconciliation,
		logger:         logger,
	}
}

// HandleCheckout handles POST /webhook-checkout. The payload signature is
// verified before anything else; unverifiable payloads are rejected with 400
// and never reach reconciliation. Verified events are acknowledged with 200
// regardless of the reconciliation outcome, since the gateway can only act
// on the HTTP status.
func (h *WebhookHandler) HandleCheckout(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		h.logger.WithError(err).Error("Failed to read webhook body")
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	event, err := h.paymentService.VerifyWebhookEvent(body, c.GetHeader("Stripe-Signature"))
	if err != nil {
		h.logger.WithError(err).Warn("Rejected unverifiable webhook payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "webhook verification failed"})
		return
	}

	if !h.paymentService.IsCheckoutCompleted(event) {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	bookingRef, err := h.paymentService.BookingReferenceFromEvent(event)
	if err != nil {
		h.logger.WithError(err).WithField("event_id", event.ID).
			Warn("Completed checkout event carries no usable booking reference")
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	outcome := h.reconciliation.OnPaymentConfirmed(c.Request.Context(), event.ID, bookingRef)
	h.logger.WithFields(logrus.Fields{
		"event_id":    event.ID,
		"booking_ref": bookingRef,
		"status":      outcome.Status,
		"reason":      outcome.Reason,
	}).Info("Webhook processed")

	c.JSON(http.StatusOK, gin.H{"received": true})
}
