// Package httpapi exposes the order service over HTTP. It is the only
// externally reachable surface for orders.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/marketfront/orderflow/internal/domains/orders/application"
	"github.com/marketfront/orderflow/internal/domains/orders/domain"
	"github.com/marketfront/orderflow/internal/domains/orders/ports"
	"github.com/marketfront/orderflow/internal/identity"
)

// Handler serves the order routes.
type Handler struct {
	service         ports.Service
	verifier        *identity.Verifier
	cookieName      string
	requireVerified bool
	logger          *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithVerifier enables session-cookie verification.
func WithVerifier(v *identity.Verifier, cookieName string) Option {
	return func(h *Handler) {
		h.verifier = v
		if cookieName != "" {
			h.cookieName = cookieName
		}
	}
}

// WithRequireVerifiedCaller switches from lenient (demo/open) mode to
// enforced mode, where a missing or failed verification yields 401.
func WithRequireVerifiedCaller(require bool) Option {
	return func(h *Handler) {
		h.requireVerified = require
	}
}

// WithLogger sets the handler logger.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// NewHandler builds the order HTTP handler.
func NewHandler(service ports.Service, opts ...Option) *Handler {
	h := &Handler{
		service:    service,
		cookieName: identity.DefaultCookieName,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// Register mounts the order routes on the router.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/api/orders", h.list)
	r.PATCH("/api/orders", h.update)
}

type updateRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func (h *Handler) list(c *gin.Context) {
	if !h.admitCaller(c) {
		return
	}
	orders, err := h.service.ListOrders(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to list orders", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, errorResponse{Message: "failed to list orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *Handler) update(c *gin.Context) {
	if !h.admitCaller(c) {
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "request body must be a JSON object with orderId and status"})
		return
	}
	order, err := h.service.UpdateOrderStatus(c.Request.Context(), req.OrderID, domain.Status(req.Status))
	if err != nil {
		c.JSON(statusFor(err), errorResponse{Message: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// admitCaller verifies the session cookie opportunistically. In lenient
// mode every failure degrades to guest access; in enforced mode the
// request is rejected with 401.
func (h *Handler) admitCaller(c *gin.Context) bool {
	if h.verifier == nil {
		return true
	}
	token, err := c.Cookie(h.cookieName)
	if err != nil {
		if h.requireVerified {
			c.JSON(http.StatusUnauthorized, errorResponse{Message: "a verified session is required"})
			return false
		}
		return true
	}
	claims, err := h.verifier.Verify(token)
	if err != nil {
		h.logger.Warn("session cookie verification failed, continuing as guest",
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		if h.requireVerified {
			c.JSON(http.StatusUnauthorized, errorResponse{Message: "session verification failed"})
			return false
		}
		return true
	}
	c.Set("callerId", claims.UserID)
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrBlankOrderID),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, ports.ErrNotFound):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
