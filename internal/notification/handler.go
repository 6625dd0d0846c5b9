package notification

import (
	"errors"
	"net/http"
	"strconv"

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
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Subscription not found"})
	case errors.Is(err, ErrNoPendingPayment):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Subscription has no pending payment"})
	case errors.Is(err, ErrEmailDisabled):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Email notifications are disabled"})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Server error"})
	}
}

// @Summary      Notification overview
// @Description  Expiring, recently expired and unpaid subscriptions.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Success      200 {object} Overview
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/notifications [get]
func (h *Handler) Overview(c *gin.Context) {
	page := api.DefaultPage
	limit := api.DefaultLimit
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && v > 0 {
		page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && v > 0 {
		limit = v
	}

	overview, err := h.service.Overview(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, overview)
}

// @Summary      Send renewal reminder
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/notifications/expiring/{id} [post]
func (h *Handler) SendExpiring(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid subscription ID"})
		return
	}

	if _, err := h.service.SendExpiring(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Renewal reminder queued"})
}

// @Summary      Send payment reminder
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/notifications/payment/{id} [post]
func (h *Handler) SendPaymentReminder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid subscription ID"})
		return
	}

	if _, err := h.service.SendPaymentReminder(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Payment reminder queued"})
}

// @Summary      Bulk renewal reminders
// @Description  Queues reminders for every unnotified subscription expiring in
// @Description  the window; per-row failures are reported, not fatal.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BulkRequest false "Window override"
// @Success      200 {object} BulkResult
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/notifications/bulk/expiring [post]
func (h *Handler) SendBulkExpiring(c *gin.Context) {
	var req BulkRequest
	_ = c.ShouldBindJSON(&req)

	result, err := h.service.SendBulkExpiring(c.Request.Context(), req.Days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// @Summary      Notification settings
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Settings
// @Router       /api/notifications/settings [get]
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.GetSettings())
}

// @Summary      Update notification settings
// @Description  In-memory only; defaults return on restart.
// @Tags         notifications
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SettingsRequest true "Settings to change"
// @Success      200 {object} Settings
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/notifications/settings [put]
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req SettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.service.UpdateSettings(req))
}
