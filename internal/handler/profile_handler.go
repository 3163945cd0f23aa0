package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/garden-network-api/internal/middleware"
	"github.com/noah-isme/garden-network-api/internal/models"
	"github.com/noah-isme/garden-network-api/internal/service"
	appErrors "github.com/noah-isme/garden-network-api/pkg/errors"
	"github.com/noah-isme/garden-network-api/pkg/response"
)

type profileService interface {
	Get(ctx context.Context, classroomID string) (*models.NetworkProfile, error)
	Upsert(ctx context.Context, classroomID string, req service.UpsertProfileRequest) (*models.NetworkProfile, error)
	Disable(ctx context.Context, classroomID string) error
}

// ProfileHandler exposes network profile endpoints.
type ProfileHandler struct {
	service profileService
}

// NewProfileHandler constructs a profile handler.
func NewProfileHandler(svc profileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// Get godoc
// @Summary Get the acting classroom's network profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /network/profile [get]
func (h *ProfileHandler) Get(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.service.Get(c.Request.Context(), claims.ClassroomID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// Upsert godoc
// @Summary Create or update the acting classroom's network profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param payload body service.UpsertProfileRequest true "Profile payload"
// @Success 200 {object} response.Envelope
// @Router /network/profile [put]
func (h *ProfileHandler) Upsert(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpsertProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	profile, err := h.service.Upsert(c.Request.Context(), claims.ClassroomID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile)
}

// Disable godoc
// @Summary Soft-disable the acting classroom's network profile
// @Tags Profile
// @Produce json
// @Success 204
// @Router /network/profile [delete]
func (h *ProfileHandler) Disable(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Disable(c.Request.Context(), claims.ClassroomID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
