package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type sessionRequest struct {
	LicensePlate string `json:"licenseplate"`
}

// startSession opens a session for the caller's vehicle at a lot
func (h *Handler) startSession(c *gin.Context) {
	lotID, ok := parseID(c, "lid")
	if !ok {
		return
	}

	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	session, err := h.sessionService.StartSession(c.Request.Context(), lotID, identityFrom(c), req.LicensePlate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Session started for: " + session.LicensePlate,
		"id":      session.ID,
		"session": session,
	})
}

// stopSession closes the caller's active session at a lot
func (h *Handler) stopSession(c *gin.Context) {
	lotID, ok := parseID(c, "lid")
	if !ok {
		return
	}

	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	session, err := h.sessionService.StopSession(c.Request.Context(), lotID, identityFrom(c), req.LicensePlate)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "Session stopped for: " + session.LicensePlate,
		"id":               session.ID,
		"session":          session,
		"duration_minutes": session.DurationMinutes(time.Now()),
	})
}

// listSessions returns the sessions at a lot
func (h *Handler) listSessions(c *gin.Context) {
	lotID, ok := parseID(c, "lid")
	if !ok {
		return
	}

	sessions, err := h.sessionService.ListSessions(c.Request.Context(), lotID, identityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// getSession returns one session at a lot
func (h *Handler) getSession(c *gin.Context) {
	lotID, ok := parseID(c, "lid")
	if !ok {
		return
	}
	sessionID, ok := parseID(c, "sid")
	if !ok {
		return
	}

	session, err := h.sessionService.GetSession(c.Request.Context(), lotID, sessionID, identityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// deleteSession removes a session record
func (h *Handler) deleteSession(c *gin.Context) {
	if _, ok := parseID(c, "lid"); !ok {
		return
	}
	sessionID, ok := parseID(c, "sid")
	if !ok {
		return
	}

	if err := h.sessionService.DeleteSession(c.Request.Context(), sessionID, identityFrom(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session deleted"})
}

// activeSessions returns every open session across all lots
func (h *Handler) activeSessions(c *gin.Context) {
	sessions, err := h.sessionService.ActiveSessions(c.Request.Context(), identityFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}
