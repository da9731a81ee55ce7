// File: handlers/kyc.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"stagelink/services/kyc"
	"stagelink/utils"

	"github.com/gin-gonic/gin"
)

// SubmitKYCHandler files a talent's identity-verification request.
func (hb *HandlerBundle) SubmitKYCHandler(c *gin.Context) {
	var req kyc.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.TalentID = c.GetString("userID")

	sub, err := hb.KYCService.Submit(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, kyc.ErrNotTalent):
			utils.JSONError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, kyc.ErrAlreadyPending):
			utils.JSONError(c, http.StatusConflict, err.Error())
		default:
			utils.JSONError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, sub)
}

// GetKYCStatusHandler returns the caller's latest submission.
func (hb *HandlerBundle) GetKYCStatusHandler(c *gin.Context) {
	sub, err := hb.KYCService.LatestForTalent(c.GetString("userID"))
	if err != nil {
		if errors.Is(err, kyc.ErrSubmissionNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load kyc status")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sub)
}

// ListPendingKYCHandler returns the admin review queue.
func (hb *HandlerBundle) ListPendingKYCHandler(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 50
	}
	subs, err := hb.KYCService.ListPending(limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list pending submissions")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, subs)
}

// ReviewKYCHandler records an admin's decision on a submission.
func (hb *HandlerBundle) ReviewKYCHandler(c *gin.Context) {
	var req struct {
		Decision string `json:"decision"`
		Reason   string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	sub, err := hb.KYCService.Review(c.Request.Context(), c.Param("id"), req.Decision, req.Reason, c.GetString("userID"))
	if err != nil {
		switch {
		case errors.Is(err, kyc.ErrSubmissionNotFound):
			utils.JSONError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, kyc.ErrAlreadyReviewed):
			utils.JSONError(c, http.StatusConflict, err.Error())
		case errors.Is(err, kyc.ErrBadDecision):
			utils.JSONError(c, http.StatusBadRequest, err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to review submission")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, sub)
}
