package dashboard

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coachadmin/internal/api"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidPeriod):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Server error"})
	}
}

// @Summary      Dashboard summary
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Summary
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *Handler) Summary(c *gin.Context) {
	summary, err := h.service.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// @Summary      Revenue report
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        period query string false "week, month, quarter or year" default(month)
// @Success      200 {object} RevenueReport
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/dashboard/revenue [get]
func (h *Handler) Revenue(c *gin.Context) {
	report, err := h.service.Revenue(c.Request.Context(), Period(c.Query("period")))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// @Summary      Coach analytics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} CoachReport
// @Router       /api/dashboard/coaches [get]
func (h *Handler) Coaches(c *gin.Context) {
	report, err := h.service.Coaches(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
