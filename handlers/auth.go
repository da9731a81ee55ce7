// File: handlers/auth.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"stagelink/services/user"
	"stagelink/utils"

	"github.com/gin-gonic/gin"
)

// SignUpHandler registers a new organizer or talent account.
func (hb *HandlerBundle) SignUpHandler(c *gin.Context) {
	var req user.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := hb.UserService.SignUp(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrEmailTaken):
			utils.JSONError(c, http.StatusConflict, err.Error())
		case errors.Is(err, user.ErrInvalidRole), errors.Is(err, user.ErrBadReferralCode):
			utils.JSONError(c, http.StatusBadRequest, err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to create account")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, resp)
}

// SignInHandler authenticates an account and returns a signed token.
func (hb *HandlerBundle) SignInHandler(c *gin.Context) {
	var req user.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := hb.UserService.SignIn(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrInvalidCredentials):
			utils.JSONError(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, user.ErrAccountInactive):
			utils.JSONError(c, http.StatusForbidden, err.Error())
		default:
			utils.JSONError(c, http.StatusInternalServerError, "failed to sign in")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, resp)
}

// SignOutHandler revokes the caller's token.
func (hb *HandlerBundle) SignOutHandler(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if err := hb.UserService.SignOut(c.Request.Context(), token); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to sign out")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"signedOut": true})
}

// GetProfileHandler returns the caller's account.
func (hb *HandlerBundle) GetProfileHandler(c *gin.Context) {
	u, err := hb.UserService.GetProfile(c.GetString("userID"))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, u)
}

// UpdateProfileHandler applies a partial profile update.
func (hb *HandlerBundle) UpdateProfileHandler(c *gin.Context) {
	var updates map[string]any
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := hb.UserService.UpdateProfile(c.GetString("userID"), updates)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, err.Error())
			return
		}
		utils.JSONError(c, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSONSuccess(c, http.StatusOK, u)
}

// UpdateFCMTokenHandler stores the caller's device push token.
func (hb *HandlerBundle) UpdateFCMTokenHandler(c *gin.Context) {
	var req struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		utils.JSONError(c, http.StatusBadRequest, "token is required")
		return
	}
	if err := hb.UserService.UpdateFCMToken(c.GetString("userID"), req.Token); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to update push token")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"updated": true})
}

// ListTalentsHandler returns talent profiles for discovery.
func (hb *HandlerBundle) ListTalentsHandler(c *gin.Context) {
	talents, err := hb.UserService.ListTalents(100)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list talents")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, talents)
}
