// File: handlers/payout.go
package handlers

import (
	"errors"
	"net/http"

	"stagelink/services/payout"
	"stagelink/services/paystack"
	"stagelink/utils"

	"github.com/gin-gonic/gin"
)

// VerifyPayoutHandler reconciles one payout against the gateway's transfer
// list on demand.
func (hb *HandlerBundle) VerifyPayoutHandler(c *gin.Context) {
	p, err := hb.PayoutService.VerifyPayout(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, payout.ErrPayoutNotFound), errors.Is(err, payout.ErrBookingNotFound):
			utils.JSONError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, payout.ErrTransferNotFound):
			utils.JSONError(c, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, paystack.ErrNotConfigured):
			utils.JSONError(c, http.StatusServiceUnavailable, err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "payout verification failed")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, p)
}

// ListPayoutsHandler returns the caller's payout history.
func (hb *HandlerBundle) ListPayoutsHandler(c *gin.Context) {
	payouts, err := hb.PayoutService.ListForTalent(c.GetString("userID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list payouts")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, payouts)
}
