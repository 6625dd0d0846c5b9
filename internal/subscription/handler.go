package subscription

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"coachadmin/internal/api"
)

const dateLayout = "2006-01-02"

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// respondError maps lifecycle errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Subscription not found"})
	case errors.Is(err, ErrCoachNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Coach not found"})
	case errors.Is(err, ErrPlanNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Plan not found"})
	case errors.Is(err, ErrOverlap):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Coach already has a subscription for this period"})
	case errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidPaymentStatus),
		errors.Is(err, ErrInvalidDuration):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Server error"})
	}
}

// @Summary      List subscriptions
// @Description  Admin-only: paginated subscription list with filters
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Param        status query string false "Subscription status"
// @Param        payment_status query string false "Payment status"
// @Param        coach_id query int false "Coach ID"
// @Param        plan_id query int false "Plan ID"
// @Param        start_date query string false "Start of start_date range (YYYY-MM-DD)"
// @Param        end_date query string false "End of start_date range (YYYY-MM-DD)"
// @Success      200 {object} ListResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/subscriptions [get]
func (h *Handler) List(c *gin.Context) {
	f := ListFilter{
		Status:        Status(c.Query("status")),
		PaymentStatus: PaymentStatus(c.Query("payment_status")),
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
	if from, err := parseDate(c.Query("start_date")); err == nil {
		if to, err := parseDate(c.Query("end_date")); err == nil {
			f.StartFrom = &from
			f.StartTo = &to
		}
	}

	resp, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary      Get subscription by ID
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Success      200 {object} WithDetails
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/subscriptions/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid subscription ID"})
		return
	}

	sub, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Create a subscription
// @Description  Admin-only: books a plan for a coach over a date range. The
// @Description  range must not overlap any other subscription of the coach.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Subscription payload"
// @Success      201 {object} Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/subscriptions [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid start_date, expected YYYY-MM-DD"})
		return
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid end_date, expected YYYY-MM-DD"})
		return
	}

	sub, err := h.service.Create(c.Request.Context(), CreateParams{
		CoachID:       req.CoachID,
		PlanID:        req.PlanID,
		StartDate:     start,
		EndDate:       end,
		Status:        Status(req.Status),
		PaymentStatus: PaymentStatus(req.PaymentStatus),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, sub)
}

// @Summary      Update a subscription
// @Description  Admin-only: partial update; date changes re-run the overlap check.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Param        request body UpdateRequest true "Fields to update"
// @Success      200 {object} Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/subscriptions/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid subscription ID"})
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	patch := UpdatePatch{
		CoachID: req.CoachID,
		PlanID:  req.PlanID,
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid start_date, expected YYYY-MM-DD"})
			return
		}
		patch.StartDate = &start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid end_date, expected YYYY-MM-DD"})
			return
		}
		patch.EndDate = &end
	}
	if req.Status != nil {
		status := Status(*req.Status)
		patch.Status = &status
	}
	if req.PaymentStatus != nil {
		paymentStatus := PaymentStatus(*req.PaymentStatus)
		patch.PaymentStatus = &paymentStatus
	}

	sub, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, sub)
}

// @Summary      Renew a subscription
// @Description  Admin-only: extends end_date by duration_days and reactivates.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Param        request body RenewRequest true "Renewal duration"
// @Success      200 {object} Subscription
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/subscriptions/{id}/renew [post]
func (h *Handler) Renew(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid subscription ID"})
		return
	}

	var req RenewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	sub, err := h.service.Renew(c.Request.Context(), id, req.DurationDays)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Subscription renewed successfully",
		"subscription": sub,
	})
}

// @Summary      Cancel a subscription
// @Description  Admin-only: marks the subscription cancelled; idempotent.
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Param        request body CancelRequest false "Cancellation reason"
// @Success      200 {object} Subscription
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/subscriptions/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid subscription ID"})
		return
	}

	var req CancelRequest
	_ = c.ShouldBindJSON(&req)

	sub, err := h.service.Cancel(c.Request.Context(), id, req.CancellationReason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":      "Subscription cancelled successfully",
		"subscription": sub,
	})
}

// @Summary      Delete a subscription
// @Description  Admin-only: removes the record unconditionally, including paid history.
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Subscription ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/subscriptions/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid subscription ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Subscription removed successfully"})
}

// @Summary      Subscription statistics
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Stats
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/subscriptions/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// @Summary      Subscriptions expiring soon
// @Tags         subscriptions
// @Produce      json
// @Security     BearerAuth
// @Param        days query int false "Window in days" default(7)
// @Success      200 {array} WithDetails
// @Failure      500 {object} api.ErrorResponse
// @Router       /api/subscriptions/expiring-soon [get]
func (h *Handler) ExpiringSoon(c *gin.Context) {
	days := 7
	if v, err := strconv.Atoi(c.DefaultQuery("days", "7")); err == nil && v > 0 {
		days = v
	}

	subs, err := h.service.ExpiringSoon(c.Request.Context(), days)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}
