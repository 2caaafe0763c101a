package api

import (
	"net/http"
	"strconv"

	"parking-service/internal/service"

	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid " + param,
		})
		return 0, false
	}
	return id, true
}

// listLots returns all parking lots. Public.
func (h *Handler) listLots(c *gin.Context) {
	lots, err := h.lotService.ListLots(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, lots)
}

// getLot returns one lot with its live occupancy. Public.
func (h *Handler) getLot(c *gin.Context) {
	lotID, ok := parseID(c, "lid")
	if !ok {
		return
	}

	lot, occupancy, err := h.lotService.GetLot(c.Request.Context(), lotID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"parking_lot": lot,
		"occupancy":   occupancy,
	})
}

// createLot handles lot creation
func (h *Handler) createLot(c *gin.Context) {
	var req service.LotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	lot, err := h.lotService.CreateLot(c.Request.Context(), identityFrom(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Parking lot saved",
		"parking_lot": lot,
	})
}

// updateLot handles lot reconfiguration
func (h *Handler) updateLot(c *gin.Context) {
	lotID, ok := parseID(c, "lid")
	if !ok {
		return
	}

	var req service.LotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	lot, err := h.lotService.UpdateLot(c.Request.Context(), identityFrom(c), lotID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Parking lot modified",
		"parking_lot": lot,
	})
}

// deleteLot handles lot removal
func (h *Handler) deleteLot(c *gin.Context) {
	lotID, ok := parseID(c, "lid")
	if !ok {
		return
	}

	if err := h.lotService.DeleteLot(c.Request.Context(), identityFrom(c), lotID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Parking lot deleted"})
}

// dashboard returns system-wide aggregate counters
func (h *Handler) dashboard(c *gin.Context) {
	stats, err := h.adminService.Dashboard(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
