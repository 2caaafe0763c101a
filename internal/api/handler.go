package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"parking-service/internal/service"
	"parking-service/internal/store"
	"parking-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	store              *store.Store
	authService        *service.AuthService
	lotService         *service.LotService
	sessionService     *service.SessionService
	paymentService     *service.PaymentService
	vehicleService     *service.VehicleService
	reservationService *service.ReservationService
	adminService       *service.AdminService
	logger             *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	store *store.Store,
	authService *service.AuthService,
	lotService *service.LotService,
	sessionService *service.SessionService,
	paymentService *service.PaymentService,
	vehicleService *service.VehicleService,
	reservationService *service.ReservationService,
	adminService *service.AdminService,
) *Handler {
	return &Handler{
		store:              store,
		authService:        authService,
		lotService:         lotService,
		sessionService:     sessionService,
		paymentService:     paymentService,
		vehicleService:     vehicleService,
		reservationService: reservationService,
		adminService:       adminService,
		logger:             util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/register", h.register)
	router.POST("/auth/login", h.login)

	router.GET("/parking-lots", h.listLots)
	router.GET("/parking-lots/:lid", h.getLot)

	authed := router.Group("/", h.authRequired())
	{
		authed.GET("/auth/logout", h.logout)
		authed.GET("/auth/profile", h.getProfile)
		authed.PUT("/auth/profile", h.updateProfile)

		authed.POST("/parking-lots", h.createLot)
		authed.PUT("/parking-lots/:lid", h.updateLot)
		authed.DELETE("/parking-lots/:lid", h.deleteLot)

		authed.POST("/parking-lots/:lid/sessions/start", h.startSession)
		authed.POST("/parking-lots/:lid/sessions/stop", h.stopSession)
		authed.GET("/parking-lots/:lid/sessions", h.listSessions)
		authed.GET("/parking-lots/:lid/sessions/:sid", h.getSession)
		authed.DELETE("/parking-lots/:lid/sessions/:sid", h.deleteSession)
		authed.GET("/sessions/active", h.activeSessions)

		authed.POST("/payments", h.createPayment)
		authed.PUT("/payments/:tid", h.completePayment)
		authed.POST("/payments/refund", h.refundPayment)
		authed.GET("/payments", h.listPayments)
		authed.GET("/payments/user/:username", h.listUserPayments)

		authed.GET("/billing", h.getBilling)
		authed.GET("/billing/:username", h.getUserBilling)

		authed.POST("/vehicles", h.createVehicle)
		authed.GET("/vehicles", h.listVehicles)
		authed.GET("/vehicles/user/:username", h.listUserVehicles)
		authed.PUT("/vehicles/:plate", h.updateVehicle)
		authed.DELETE("/vehicles/:plate", h.deleteVehicle)

		authed.POST("/reservations", h.createReservation)
		authed.GET("/reservations", h.listReservations)
		authed.GET("/reservations/:rid", h.getReservation)
		authed.PUT("/reservations/:rid", h.updateReservation)
		authed.DELETE("/reservations/:rid", h.deleteReservation)

		authed.GET("/admin/dashboard", h.dashboard)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck reports ready once the database answers
func (h *Handler) readinessCheck(c *gin.Context) {
	if err := h.store.GetDB().PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "not ready",
			"time":   time.Now().Unix(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps service errors onto HTTP status codes. The completion
// hash mismatch keeps its dedicated body shape so payment terminals can
// distinguish it from a missing privilege.
func (h *Handler) respondError(c *gin.Context, err error) {
	var (
		validationErr    *service.ValidationError
		conflictErr      *service.ConflictError
		notFoundErr      *service.NotFoundError
		authorizationErr *service.AuthorizationError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"field":   validationErr.Field,
			"details": validationErr.Reason,
		})

	case errors.Is(err, service.ErrValidationMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Validation failed",
			"info":  "Security hash mismatch",
		})

	case errors.As(err, &authorizationErr):
		c.JSON(http.StatusForbidden, gin.H{
			"error":   "Access denied",
			"details": authorizationErr.Reason,
		})

	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{
			"error": notFoundErr.Error(),
		})

	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{
			"error": conflictErr.Reason,
		})

	default:
		h.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
	}
}

// authRequired resolves the Authorization header to an identity and aborts
// with 401 when the token is missing or unknown
func (h *Handler) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("Authorization")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Missing Authorization header",
			})
			return
		}

		identity, err := h.authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			var authorizationErr *service.AuthorizationError
			if errors.As(err, &authorizationErr) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
					"error": "Invalid or expired session token",
				})
				return
			}
			h.logger.Error("Token resolution failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
			return
		}

		c.Set(identityKey, identity)
		c.Set(tokenKey, token)
		c.Next()
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
