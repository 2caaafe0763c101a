package api

import (
	"parking-service/internal/models"

	"github.com/gin-gonic/gin"
)

// Context keys set by the auth middleware
const (
	identityKey = "identity"
	tokenKey    = "session_token"
)

// identityFrom returns the authenticated caller. Routes behind authRequired
// always have one.
func identityFrom(c *gin.Context) *models.Identity {
	v, _ := c.Get(identityKey)
	identity, _ := v.(*models.Identity)
	return identity
}

// tokenFrom returns the raw session token the caller presented
func tokenFrom(c *gin.Context) string {
	v, _ := c.Get(tokenKey)
	token, _ := v.(string)
	return token
}
