package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/garden-network-api/internal/middleware"
	"github.com/noah-isme/garden-network-api/internal/models"
	"github.com/noah-isme/garden-network-api/internal/service"
	appErrors "github.com/noah-isme/garden-network-api/pkg/errors"
	"github.com/noah-isme/garden-network-api/pkg/response"
)

type challengeService interface {
	ListActive(ctx context.Context, asOf time.Time) ([]models.Challenge, error)
	Join(ctx context.Context, classroomID, challengeID string) (*models.ChallengeParticipation, error)
	Leave(ctx context.Context, classroomID, challengeID string) error
	MyParticipation(ctx context.Context, classroomID, challengeID string) (*service.ParticipationStatus, error)
	Close(ctx context.Context, challengeID string) (*models.Challenge, error)
}

// ChallengeHandler exposes challenge registry endpoints.
type ChallengeHandler struct {
	service challengeService
}

// NewChallengeHandler constructs a challenge handler.
func NewChallengeHandler(svc challengeService) *ChallengeHandler {
	return &ChallengeHandler{service: svc}
}

// ListActive godoc
// @Summary List active challenges still open as of a date
// @Tags Challenges
// @Produce json
// @Param asOf query string false "Reference date (RFC 3339 or YYYY-MM-DD); defaults to today"
// @Success 200 {object} response.Envelope
// @Router /network/challenges [get]
func (h *ChallengeHandler) ListActive(c *gin.Context) {
	var asOf time.Time
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "asOf must be RFC 3339 or YYYY-MM-DD"))
			return
		}
		asOf = parsed
	}

	challenges, err := h.service.ListActive(c.Request.Context(), asOf)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, challenges)
}

// Join godoc
// @Summary Join a challenge (idempotent)
// @Tags Challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} response.Envelope
// @Router /network/challenges/{id}/join [post]
func (h *ChallengeHandler) Join(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	participation, err := h.service.Join(c.Request.Context(), claims.ClassroomID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, participation)
}

// Leave godoc
// @Summary Leave a challenge while it is still open
// @Tags Challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 204
// @Router /network/challenges/{id}/join [delete]
func (h *ChallengeHandler) Leave(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Leave(c.Request.Context(), claims.ClassroomID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Participation godoc
// @Summary Get the acting classroom's participation and participant count
// @Tags Challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} response.Envelope
// @Router /network/challenges/{id}/participation [get]
func (h *ChallengeHandler) Participation(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	status, err := h.service.MyParticipation(c.Request.Context(), claims.ClassroomID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, status)
}

// Close godoc
// @Summary Close a challenge and freeze final scores (platform operators)
// @Tags Challenges
// @Produce json
// @Param id path string true "Challenge ID"
// @Success 200 {object} response.Envelope
// @Router /network/challenges/{id}/close [post]
func (h *ChallengeHandler) Close(c *gin.Context) {
	challenge, err := h.service.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, challenge)
}

func parseDate(raw string) (time.Time, error) {
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", raw)
}
