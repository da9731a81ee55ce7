// File: handlers/admin.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"stagelink/services/admin"
	"stagelink/utils"

	"github.com/gin-gonic/gin"
)

// AdminListUsersHandler returns accounts, optionally filtered by role.
func (hb *HandlerBundle) AdminListUsersHandler(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "100"), 10, 64)
	if err != nil || limit <= 0 {
		limit = 100
	}
	users, err := hb.AdminService.ListUsers(c.Query("role"), limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list users")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}

// AdminSetActiveHandler toggles an account's active flag.
func (hb *HandlerBundle) AdminSetActiveHandler(c *gin.Context) {
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		utils.JSONError(c, http.StatusBadRequest, "active flag is required")
		return
	}
	if err := hb.AdminService.SetActive(c.Param("id"), *req.Active); err != nil {
		if errors.Is(err, admin.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to update account")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"active": *req.Active})
}

// AdminFindDuplicatesHandler surfaces accounts sharing an email or phone.
func (hb *HandlerBundle) AdminFindDuplicatesHandler(c *gin.Context) {
	groups, err := hb.AdminService.FindDuplicates()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to scan for duplicates")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, groups)
}

// AdminMergeAccountsHandler folds a duplicate account into a primary one.
func (hb *HandlerBundle) AdminMergeAccountsHandler(c *gin.Context) {
	var req struct {
		PrimaryID   string `json:"primaryId"`
		DuplicateID string `json:"duplicateId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.PrimaryID == "" || req.DuplicateID == "" {
		utils.JSONError(c, http.StatusBadRequest, "primaryId and duplicateId are required")
		return
	}

	primary, err := hb.AdminService.MergeAccounts(req.PrimaryID, req.DuplicateID)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrUserNotFound):
			utils.JSONError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, admin.ErrSameAccount), errors.Is(err, admin.ErrRoleMismatch):
			utils.JSONError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, admin.ErrAlreadyMerged):
			utils.JSONError(c, http.StatusConflict, err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "merge failed")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, primary)
}
