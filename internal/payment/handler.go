package payment

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"coachadmin/internal/api"
	"coachadmin/internal/subscription"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, subscription.ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Payment not found"})
	case errors.Is(err, subscription.ErrInvalidPaymentStatus):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Server error"})
	}
}

// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Param        payment_status query string false "Payment status"
// @Param        payment_method query string false "Payment method"
// @Param        coach_id query int false "Coach ID"
// @Param        plan_id query int false "Plan ID"
// @Param        from query string false "Start of payment_date range (YYYY-MM-DD)"
// @Param        to query string false "End of payment_date range (YYYY-MM-DD)"
// @Success      200 {object} ListResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/payments [get]
func (h *Handler) List(c *gin.Context) {
	f := ListFilter{
		PaymentStatus: c.Query("payment_status"),
		Method:        c.Query("payment_method"),
		Page:          api.DefaultPage,
		Limit:         api.DefaultLimit,
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && v > 0 {
		f.Page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && v > 0 {
		f.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("coach_id")); err == nil {
		f.CoachID = v
	}
	if v, err := strconv.Atoi(c.Query("plan_id")); err == nil {
		f.PlanID = v
	}
	if from, err := time.Parse(dateLayout, c.Query("from")); err == nil {
		if to, err := time.Parse(dateLayout, c.Query("to")); err == nil {
			f.PaidFrom = &from
			f.PaidTo = &to
		}
	}

	resp, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary      Get payment by subscription ID
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Success      200 {object} Payment
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/payments/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid payment ID"})
		return
	}

	payment, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// @Summary      Record a payment
// @Description  Writes payment fields on the subscription; a paid status
// @Description  reactivates a non-active subscription.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RecordRequest true "Payment payload"
// @Success      200 {object} Payment
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/payments [post]
func (h *Handler) Record(c *gin.Context) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	payment, err := h.service.Record(c.Request.Context(), req.SubscriptionID, subscription.PaymentUpdate{
		Status:    subscription.PaymentStatus(req.PaymentStatus),
		Method:    req.Method,
		Reference: req.Reference,
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// @Summary      Update payment fields
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Param        request body UpdateRequest true "Fields to update"
// @Success      200 {object} Payment
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/payments/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid payment ID"})
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	patch := subscription.PaymentPatch{
		Method:    req.Method,
		Reference: req.Reference,
		Notes:     req.Notes,
	}
	if req.PaymentStatus != nil {
		status := subscription.PaymentStatus(*req.PaymentStatus)
		patch.Status = &status
	}

	payment, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payment)
}

// @Summary      Payment statistics
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Stats
// @Router       /api/payments/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary      Recent payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Max rows" default(10)
// @Success      200 {array} Payment
// @Router       /api/payments/recent [get]
func (h *Handler) Recent(c *gin.Context) {
	limit := 10
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && v > 0 {
		limit = v
	}

	payments, err := h.service.Recent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, payments)
}
