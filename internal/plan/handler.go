package plan

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
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Plan not found"})
	case errors.Is(err, ErrPlanInUse):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Plan has active subscriptions and cannot be deleted"})
	case errors.Is(err, ErrInvalidDuration), errors.Is(err, ErrNegativePrice):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Server error"})
	}
}

// @Summary      List plans
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Page" default(1)
// @Param        limit query int false "Page size" default(10)
// @Param        is_active query bool false "Filter by active flag"
// @Param        search query string false "Name substring search"
// @Success      200 {object} ListResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/plans [get]
func (h *Handler) List(c *gin.Context) {
	f := ListFilter{
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
	if raw := c.Query("is_active"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			f.IsActive = &v
		}
	}

	resp, err := h.service.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary      Get plan by ID
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Success      200 {object} Plan
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/plans/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid plan ID"})
		return
	}

	plan, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// @Summary      Create a plan
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateRequest true "Plan payload"
// @Success      201 {object} Plan
// @Failure      400 {object} api.ErrorResponse
// @Router       /api/plans [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	plan, err := h.service.Create(c.Request.Context(), CreateParams{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		Features:     req.Features,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, plan)
}

// @Summary      Update a plan
// @Description  Partial update; price 0 and is_active false are honored when
// @Description  the field is present in the body.
// @Tags         plans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Param        request body UpdateRequest true "Fields to update"
// @Success      200 {object} Plan
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/plans/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid plan ID"})
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	plan, err := h.service.Update(c.Request.Context(), id, UpdatePatch{
		Name:         req.Name,
		Description:  req.Description,
		Price:        req.Price,
		DurationDays: req.DurationDays,
		Features:     req.Features,
		IsActive:     req.IsActive,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, plan)
}

// @Summary      Delete a plan
// @Description  Refused while the plan has active subscriptions.
// @Tags         plans
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Plan ID"
// @Success      200 {object} api.MessageResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/plans/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid plan ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Plan removed successfully"})
}
