// File: handlers/booking.go
package handlers

import (
	"errors"
	"net/http"

	"stagelink/models"
	"stagelink/services/booking"
	"stagelink/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateEventHandler records an organizer's event.
func (hb *HandlerBundle) CreateEventHandler(c *gin.Context) {
	var req struct {
		Title  string  `json:"title"`
		Venue  string  `json:"venue"`
		Date   string  `json:"date"`
		Budget float64 `json:"budget"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Title == "" {
		utils.JSONError(c, http.StatusBadRequest, "title is required")
		return
	}

	event := &models.Event{
		ID:          uuid.New().String(),
		OrganizerID: c.GetString("userID"),
		Title:       req.Title,
		Venue:       req.Venue,
		Date:        req.Date,
		Budget:      req.Budget,
	}
	if err := hb.EventRepo.Create(event); err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create event")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, event)
}

// ListEventsHandler returns the caller's events.
func (hb *HandlerBundle) ListEventsHandler(c *gin.Context) {
	events, err := hb.EventRepo.ListByOrganizer(c.GetString("userID"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list events")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, events)
}

// CreateBookingHandler opens a booking request against a talent.
func (hb *HandlerBundle) CreateBookingHandler(c *gin.Context) {
	var req booking.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	req.OrganizerID = c.GetString("userID")

	b, err := hb.BookingService.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrEventNotFound), errors.Is(err, booking.ErrTalentNotFound):
			utils.JSONError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, booking.ErrNotBookable):
			utils.JSONError(c, http.StatusUnprocessableEntity, err.Error())
		default:
			utils.JSONError(c, http.StatusBadRequest, err.Error())
		}
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, b)
}

// GetBookingHandler returns one booking the caller participates in.
func (hb *HandlerBundle) GetBookingHandler(c *gin.Context) {
	b, err := hb.BookingService.GetForUser(c.Param("id"), c.GetString("userID"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// ListBookingsHandler returns the caller's bookings.
func (hb *HandlerBundle) ListBookingsHandler(c *gin.Context) {
	bookings, err := hb.BookingService.ListForUser(c.GetString("userID"), c.GetString("role"))
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list bookings")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// AcceptBookingHandler lets the talent accept a pending request.
func (hb *HandlerBundle) AcceptBookingHandler(c *gin.Context) {
	b, err := hb.BookingService.Accept(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// DeclineBookingHandler lets the talent decline a pending request.
func (hb *HandlerBundle) DeclineBookingHandler(c *gin.Context) {
	b, err := hb.BookingService.Decline(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// StartBookingHandler moves an accepted booking into progress.
func (hb *HandlerBundle) StartBookingHandler(c *gin.Context) {
	b, err := hb.BookingService.Start(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// CompleteBookingHandler closes out the engagement and kicks off the payout.
func (hb *HandlerBundle) CompleteBookingHandler(c *gin.Context) {
	b, err := hb.BookingService.Complete(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

// CancelBookingHandler withdraws a booking that has not started.
func (hb *HandlerBundle) CancelBookingHandler(c *gin.Context) {
	b, err := hb.BookingService.Cancel(c.Request.Context(), c.Param("id"), c.GetString("userID"))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, b)
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		utils.JSONError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, booking.ErrNotParticipant):
		utils.JSONError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, booking.ErrInvalidTransition):
		utils.JSONError(c, http.StatusConflict, err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "booking operation failed")
	}
}
