package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/seatbook-api/internal/dto"
	"github.com/noah-isme/seatbook-api/internal/middleware"
	appErrors "github.com/noah-isme/seatbook-api/pkg/errors"
	"github.com/noah-isme/seatbook-api/pkg/response"
)

type autoBookingService interface {
	Run(ctx context.Context, req dto.RunAutoBookingRequest, actorID string) (*dto.AutoBookingResult, error)
	Preview(ctx context.Context) (*dto.AutoBookingPreview, bool, error)
}

type autoBookingEnsurer interface {
	EnsureUser(userID string) (*dto.EnsureAutoBookingResponse, error)
}

// AutoBookingHandler exposes the auto-booking engine over HTTP.
type AutoBookingHandler struct {
	service autoBookingService
	ensurer autoBookingEnsurer
}

// NewAutoBookingHandler constructs the handler. ensurer may be nil when the login hook is disabled.
func NewAutoBookingHandler(service autoBookingService, ensurer autoBookingEnsurer) *AutoBookingHandler {
	return &AutoBookingHandler{service: service, ensurer: ensurer}
}

// Run godoc
// @Summary Run auto-booking for a week
// @Description Books seats for every eligible user, or for the given users, on their preferred days of the week.
// @Tags AutoBooking
// @Accept json
// @Produce json
// @Param payload body dto.RunAutoBookingRequest true "Target week"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /admin/auto-bookings [post]
func (h *AutoBookingHandler) Run(c *gin.Context) {
	var req dto.RunAutoBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid auto-booking payload"))
		return
	}

	actorID := ""
	if claims := claimsFromContext(c); claims != nil {
		actorID = claims.UserID
	}

	// a client disconnect must not interrupt the run part-way through the user list
	result, err := h.service.Run(context.WithoutCancel(c.Request.Context()), req, actorID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Preferences godoc
// @Summary Preview auto-booking eligibility
// @Tags AutoBooking
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/auto-bookings/preferences [get]
func (h *AutoBookingHandler) Preferences(c *gin.Context) {
	preview, hit, err := h.service.Preview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, preview, nil, middleware.ExtractMeta(c))
}

// Ensure godoc
// @Summary Queue auto-booking for the caller
// @Description Queues a run restricted to the authenticated user for each upcoming week of the horizon.
// @Tags AutoBooking
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /bookings/auto/ensure [post]
func (h *AutoBookingHandler) Ensure(c *gin.Context) {
	claims := requireClaims(c)
	if claims == nil {
		return
	}
	if h.ensurer == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrServiceUnavailable, "auto-booking login hook disabled"))
		return
	}
	resp, err := h.ensurer.EnsureUser(claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, resp)
}
