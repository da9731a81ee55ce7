// File: handlers/payment.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"stagelink/config"
	"stagelink/models"
	"stagelink/services/payment"
	"stagelink/services/paystack"
	"stagelink/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InitializePaymentHandler opens a gateway charge for a booking and returns
// the authorization URL the organizer completes payment on.
func (hb *HandlerBundle) InitializePaymentHandler(c *gin.Context) {
	var req struct {
		BookingID string `json:"bookingId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.BookingID == "" {
		utils.JSONError(c, http.StatusBadRequest, "bookingId is required")
		return
	}

	init, err := hb.PaymentService.InitializePayment(c.Request.Context(), req.BookingID, c.GetString("userID"))
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, paystack.ErrNotConfigured):
			utils.JSONError(c, http.StatusServiceUnavailable, err.Error())
		default:
			utils.JSONError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, init)
}

// VerifyPaymentHandler is the user-triggered poll: it re-checks the reference
// with the gateway and completes the transaction if the charge succeeded.
func (hb *HandlerBundle) VerifyPaymentHandler(c *gin.Context) {
	reference := c.Param("reference")
	tx, err := hb.PaymentService.VerifyPayment(c.Request.Context(), reference, payment.SourcePoll)
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrTransactionNotFound), errors.Is(err, payment.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, payment.ErrChargeNotSuccessful):
			utils.JSONError(c, http.StatusPaymentRequired, err.Error())
		case errors.Is(err, paystack.ErrNotConfigured):
			utils.JSONError(c, http.StatusServiceUnavailable, err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "payment verification failed")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, tx)
}

// PaystackWebhookHandler receives gateway events. The signature header is an
// HMAC of the raw body; anything unsigned is dropped before parsing. Paystack
// expects a 200 for events we saw, even ones we do not act on.
func (hb *HandlerBundle) PaystackWebhookHandler(c *gin.Context) {
	logger := utils.GetLogger()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "unreadable body")
		return
	}

	signature := c.GetHeader("x-paystack-signature")
	if !paystack.VerifyWebhookSignature(config.AppConfig.PaystackSecretKey, body, signature) {
		utils.JSONError(c, http.StatusUnauthorized, "invalid webhook signature")
		return
	}

	var event models.PaystackWebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "malformed webhook payload")
		return
	}

	switch event.Event {
	case "charge.success", "charge.failed":
		var data struct {
			Reference string `json:"reference"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil || data.Reference == "" {
			utils.JSONError(c, http.StatusBadRequest, "malformed charge payload")
			return
		}
		if event.Event == "charge.success" {
			if _, err := hb.PaymentService.VerifyPayment(c.Request.Context(), data.Reference, payment.SourceWebhook); err != nil {
				logger.Error("webhook payment verification failed",
					zap.String("reference", data.Reference), zap.Error(err))
				// Still 200: Paystack retries on non-2xx and the reference may
				// simply not be ours.
			}
		} else {
			if err := hb.PaymentService.FailPayment(c.Request.Context(), data.Reference); err != nil {
				logger.Warn("webhook charge failure not recorded",
					zap.String("reference", data.Reference), zap.Error(err))
			}
		}
	}
	c.Status(http.StatusOK)
}
