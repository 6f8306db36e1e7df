package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Arvinajith/online-event-server/internal/adapter/payment"
	domainErrors "github.com/Arvinajith/online-event-server/internal/domain/errors"
)

// WebhookHandler receives settlement notifications from the payment
// provider. Anomalies are acknowledged to stop redelivery and logged;
// only forged signatures are rejected.
type WebhookHandler struct {
	facade WebhookFacade
	logger *slog.Logger
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade, logger *slog.Logger) *WebhookHandler {
	return &WebhookHandler{facade: facade, logger: logger}
}

// Handle processes POST /api/orders/webhook.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	notification, err := h.facade.ParsePaymentNotification(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			h.logger.Warn("webhook signature rejected", slog.String("error", err.Error()))
			c.Status(http.StatusBadRequest)
			return
		}
		h.logger.Warn("malformed settlement notification", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if !notification.Succeeded() {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	order, err := h.facade.SettlePayment(c.Request.Context(), notification.Reference)
	switch {
	case err == nil:
		h.logger.Info("settlement processed",
			slog.String("order_id", order.ID),
			slog.String("payment_reference", string(notification.Reference)),
		)
	case errors.Is(err, domainErrors.ErrOrderNotFound):
		h.logger.Warn("settlement notification for unknown order",
			slog.String("payment_reference", string(notification.Reference)),
		)
	case errors.Is(err, domainErrors.ErrInsufficientInventory):
		// Already alerted by the orchestrator; the provider still gets an ack.
	default:
		h.logger.Error("settlement failed",
			slog.String("payment_reference", string(notification.Reference)),
			slog.String("error", err.Error()),
		)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
