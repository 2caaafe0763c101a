package api

import (
	"net/http"

	"parking-service/internal/service"

	"github.com/gin-gonic/gin"
)

// register handles account creation
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": "Success",
		"user":   user,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles credential verification and token issuance
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "Success",
		"token":  token,
		"user":   user,
	})
}

// logout invalidates the presented session token
func (h *Handler) logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), tokenFrom(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "Logged out"})
}

// getProfile returns the caller's account
func (h *Handler) getProfile(c *gin.Context) {
	identity := identityFrom(c)

	user, err := h.authService.GetProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// updateProfile updates the caller's account
func (h *Handler) updateProfile(c *gin.Context) {
	identity := identityFrom(c)

	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), identity.UserID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "Updated",
		"user":   user,
	})
}
