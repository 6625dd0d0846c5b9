package coach

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coachadmin/internal/api"
	"coachadmin/internal/subscription"
)

// SubscriptionLister fetches a coach's subscription history for the
// /api/coaches/:id/subscriptions endpoint.
type SubscriptionLister interface {
	ListByCoach(ctx context.Context, coachID int) ([]subscription.WithDetails, error)
}

type Handler struct {
	service       Service
	subscriptions SubscriptionLister
}

func NewHandler(service Service, subscriptions SubscriptionLister) *Handler {
	return &Handler{service: service, subscriptions: subscriptions}
}

func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Coach not found"})
	case errors.Is(err, ErrEmailExists):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Coach with this email already exists"})
	case errors.Is(err, ErrHasActiveSubscriptions):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Coach has active subscriptions and cannot be deleted"})
	case errors.Is(err, ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Server error"})
	}
}

// @Summary      List coaches
// @Tags         coaches
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Param        status query string false "Coach status"
// @Param        search query string false "Name or email substring"
// @Success      200 {object} ListResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/coaches [get]
func (h *Handler) List(c *gin.Context) {
	f := ListFilter{
		Status: Status(c.Query("status")),
		Search: c.Query("search"),
		Page:   api.DefaultPage,
		Limit:  api.DefaultLimit,
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && v > 0 {
		f.Page = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && v > 0 {
		f.Limit = v
	}

	resp, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary      Get coach by ID
// @Tags         coaches
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Coach ID"
// @Success      200 {object} Coach
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/coaches/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid coach ID"})
		return
	}

	coach, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, coach)
}

// @Summary      Create a coach
// @Tags         coaches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Coach payload"
// @Success      201 {object} Coach
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/coaches [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	coach, err := h.service.Create(c.Request.Context(), CreateParams{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Phone:           req.Phone,
		ProfilePhotoURL: req.ProfilePhotoURL,
		Status:          Status(req.Status),
		Bio:             req.Bio,
		Specialization:  req.Specialization,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, coach)
}

// @Summary      Update a coach
// @Tags         coaches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Coach ID"
// @Param        request body UpdateRequest true "Fields to update"
// @Success      200 {object} Coach
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/coaches/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid coach ID"})
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	patch := UpdatePatch{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		Phone:           req.Phone,
		ProfilePhotoURL: req.ProfilePhotoURL,
		Bio:             req.Bio,
		Specialization:  req.Specialization,
	}
	if req.Status != nil {
		status := Status(*req.Status)
		patch.Status = &status
	}

	coach, err := h.service.Update(c.Request.Context(), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, coach)
}

// @Summary      Delete a coach
// @Description  Refused while the coach has active subscriptions.
// @Tags         coaches
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Coach ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/coaches/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid coach ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Coach removed successfully"})
}

// @Summary      Coach subscription history
// @Tags         coaches
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Coach ID"
// @Success      200 {array} subscription.WithDetails
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/coaches/{id}/subscriptions [get]
func (h *Handler) Subscriptions(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid coach ID"})
		return
	}

	if _, err := h.service.Get(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	subs, err := h.subscriptions.ListByCoach(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, subs)
}
