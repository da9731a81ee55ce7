// File: handlers/message.go
package handlers

import (
	"errors"
	"net/http"

	"stagelink/services/messaging"
	"stagelink/utils"

	"github.com/gin-gonic/gin"
)

// SendMessageHandler posts one message into a booking conversation.
func (hb *HandlerBundle) SendMessageHandler(c *gin.Context) {
	var req messaging.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.SenderID = c.GetString("userID")

	msg, err := hb.MessagingService.Send(c.Request.Context(), req)
	if err != nil {
		writeMessagingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, msg)
}

// MarkMessageReadHandler records a read receipt.
func (hb *HandlerBundle) MarkMessageReadHandler(c *gin.Context) {
	if err := hb.MessagingService.MarkRead(c.Request.Context(), c.Param("id"), c.GetString("userID")); err != nil {
		writeMessagingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"read": true})
}

// ListMessagesHandler returns a booking's conversation.
func (hb *HandlerBundle) ListMessagesHandler(c *gin.Context) {
	messages, err := hb.MessagingService.ListForBooking(c.Param("bookingId"), c.GetString("userID"))
	if err != nil {
		writeMessagingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, messages)
}

func writeMessagingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, messaging.ErrBookingNotFound), errors.Is(err, messaging.ErrMessageNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, messaging.ErrNotParticipant), errors.Is(err, messaging.ErrNotRecipient):
		utils.JSONError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, messaging.ErrEmptyBody):
		utils.JSONError(c, http.StatusBadRequest, err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "messaging operation failed")
	}
}
