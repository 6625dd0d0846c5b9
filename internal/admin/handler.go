package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"coachadmin/internal/api"
	"coachadmin/internal/auth"
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
		c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Admin not found"})
	case errors.Is(err, ErrEmailExists):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Admin with this email already exists"})
	case errors.Is(err, ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid email or password"})
	case errors.Is(err, auth.ErrTokenExpired), errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType):
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Invalid or expired token"})
	case errors.Is(err, ErrInvalidRole), errors.Is(err, ErrSelfDelete):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Server error"})
	}
}

// @Summary      Log in
// @Description  Issues an access/refresh token pair for a back-office account.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} LoginResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	admin, accessToken, refreshToken, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Admin:        admin,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	})
}

// @Summary      Refresh access token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200 {object} RefreshResponse
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	accessToken, err := h.service.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, RefreshResponse{AccessToken: accessToken})
}

// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Admin
// @Failure      401 {object} api.ErrorResponse
// @Router       /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	id, ok := auth.GetAdminID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, api.ErrorResponse{Error: "Not authenticated"})
		return
	}

	admin, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}

// @Summary      Register an admin account
// @Description  Only full admins can create accounts.
// @Tags         admins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body RegisterRequest true "New account"
// @Success      201 {object} Admin
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Router       /api/admins [post]
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	admin, err := h.service.Register(c.Request.Context(), CreateParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, admin)
}

// @Summary      List admin accounts
// @Tags         admins
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Admin
// @Router       /api/admins [get]
func (h *Handler) List(c *gin.Context) {
	admins, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, admins)
}

// @Summary      Get admin account
// @Tags         admins
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Admin ID"
// @Success      200 {object} Admin
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admins/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid admin ID"})
		return
	}

	admin, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}

// @Summary      Update admin account
// @Tags         admins
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Admin ID"
// @Param        request body UpdateRequest true "Fields to update"
// @Success      200 {object} Admin
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admins/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid admin ID"})
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	admin, err := h.service.Update(c.Request.Context(), id, UpdatePatch{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}

// @Summary      Delete admin account
// @Description  An account cannot delete itself.
// @Tags         admins
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Admin ID"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Router       /api/admins/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid admin ID"})
		return
	}

	requesterID, _ := auth.GetAdminID(c)
	if err := h.service.Delete(c.Request.Context(), id, requesterID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.MessageResponse{Message: "Admin removed successfully"})
}
