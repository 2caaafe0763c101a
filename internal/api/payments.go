package api

import (
	"net/http"

	"parking-service/internal/models"
	"parking-service/internal/service"

	"github.com/gin-gonic/gin"
)

// createPayment records a pending payment. The response carries the
// validation hash the caller must present to complete it; this is the only
// place the hash ever leaves the system.
func (h *Handler) createPayment(c *gin.Context) {
	var req service.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	payment, hash, err := h.paymentService.CreatePayment(c.Request.Context(), identityFrom(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":          "Success",
		"payment":         payment,
		"validation_hash": hash,
	})
}

type completePaymentRequest struct {
	Validation string               `json:"validation"`
	Data       *models.ProviderData `json:"t_data"`
}

// completePayment finishes the payment handshake
func (h *Handler) completePayment(c *gin.Context) {
	var req completePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	payment, err := h.paymentService.CompletePayment(c.Request.Context(), c.Param("tid"), req.Validation, req.Data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "Success",
		"payment": payment,
	})
}

// refundPayment records a negated payment for a session owner or named user
func (h *Handler) refundPayment(c *gin.Context) {
	var req service.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	payment, err := h.paymentService.RefundPayment(c.Request.Context(), identityFrom(c), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  "Success",
		"payment": payment,
	})
}

// listPayments returns the caller's payments
func (h *Handler) listPayments(c *gin.Context) {
	payments, err := h.paymentService.ListPayments(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// listUserPayments returns another user's payments
func (h *Handler) listUserPayments(c *gin.Context) {
	payments, err := h.paymentService.ListUserPayments(c.Request.Context(), identityFrom(c), c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, payments)
}

// getBilling returns the caller's priced sessions reconciled with payments
func (h *Handler) getBilling(c *gin.Context) {
	identity := identityFrom(c)

	entries, err := h.paymentService.GetBilling(c.Request.Context(), identity, identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// getUserBilling returns another user's billing overview
func (h *Handler) getUserBilling(c *gin.Context) {
	entries, err := h.paymentService.GetUserBilling(c.Request.Context(), identityFrom(c), c.Param("username"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
