package api

import (
	"net/http"

	"parking-service/internal/service"

	"github.com/gin-gonic/gin"
)

// createReservation books a spot ahead of time
func (h *Handler) createReservation(c *gin.Context) {
	var req service.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	reservation, err := h.reservationService.CreateReservation(c.Request.Context(), identityFrom(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":      "Success",
		"reservation": reservation,
	})
}

// listReservations returns the caller's reservations
func (h *Handler) listReservations(c *gin.Context) {
	reservations, err := h.reservationService.ListReservations(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// getReservation returns one reservation
func (h *Handler) getReservation(c *gin.Context) {
	id, ok := parseID(c, "rid")
	if !ok {
		return
	}

	reservation, err := h.reservationService.GetReservation(c.Request.Context(), identityFrom(c), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

// updateReservation rewrites a reservation's plate and time window
func (h *Handler) updateReservation(c *gin.Context) {
	id, ok := parseID(c, "rid")
	if !ok {
		return
	}

	var req service.ReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	reservation, err := h.reservationService.UpdateReservation(c.Request.Context(), identityFrom(c), id, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "Updated",
		"reservation": reservation,
	})
}

// deleteReservation cancels a booking
func (h *Handler) deleteReservation(c *gin.Context) {
	id, ok := parseID(c, "rid")
	if !ok {
		return
	}

	if err := h.reservationService.DeleteReservation(c.Request.Context(), identityFrom(c), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Deleted"})
}
