package api

import (
	"net/http"

	"parking-service/internal/service"

	"github.com/gin-gonic/gin"
)

// createVehicle registers a vehicle under the caller's account
func (h *Handler) createVehicle(c *gin.Context) {
	var req service.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(c.Request.Context(), identityFrom(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "Success",
		"vehicle": vehicle,
	})
}

// listVehicles returns the caller's vehicles
func (h *Handler) listVehicles(c *gin.Context) {
	vehicles, err := h.vehicleService.ListVehicles(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// listUserVehicles returns another user's vehicles
func (h *Handler) listUserVehicles(c *gin.Context) {
	vehicles, err := h.vehicleService.ListUserVehicles(c.Request.Context(), identityFrom(c), c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

// updateVehicle updates the caller's vehicle with the given plate,
// registering it when unseen
func (h *Handler) updateVehicle(c *gin.Context) {
	var req service.VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	vehicle, err := h.vehicleService.UpdateVehicle(c.Request.Context(), identityFrom(c), c.Param("plate"), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "Success",
		"vehicle": vehicle,
	})
}

// deleteVehicle removes the caller's vehicle with the given plate
func (h *Handler) deleteVehicle(c *gin.Context) {
	if err := h.vehicleService.DeleteVehicle(c.Request.Context(), identityFrom(c), c.Param("plate")); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Deleted"})
}
