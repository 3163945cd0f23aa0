package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/garden-network-api/internal/middleware"
	"github.com/noah-isme/garden-network-api/internal/models"
	appErrors "github.com/noah-isme/garden-network-api/pkg/errors"
	"github.com/noah-isme/garden-network-api/pkg/response"
)

type leaderboardService interface {
	Rank(ctx context.Context, classroomID string, filter models.LeaderboardFilter) ([]models.LeaderboardEntry, error)
}

// LeaderboardHandler exposes the harvest leaderboard endpoint.
type LeaderboardHandler struct {
	service leaderboardService
}

// NewLeaderboardHandler constructs a leaderboard handler.
func NewLeaderboardHandler(svc leaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{service: svc}
}

// Rank godoc
// @Summary Ranked harvest standings across sharing classrooms
// @Tags Leaderboard
// @Produce json
// @Param connectedOnly query bool false "Restrict to the acting classroom's accepted connections"
// @Param region query string false "Exact region match"
// @Param gradeLevel query string false "Exact grade level match"
// @Param limit query int false "Maximum entries"
// @Success 200 {object} response.Envelope
// @Router /network/leaderboard [get]
func (h *LeaderboardHandler) Rank(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.LeaderboardFilter{
		Region:     c.Query("region"),
		GradeLevel: c.Query("gradeLevel"),
	}
	if raw := c.Query("connectedOnly"); raw != "" {
		if val, err := strconv.ParseBool(raw); err == nil {
			filter.ConnectedOnly = val
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if val, err := strconv.Atoi(raw); err == nil {
			filter.Limit = val
		}
	}

	entries, err := h.service.Rank(c.Request.Context(), claims.ClassroomID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, map[string]interface{}{"count": len(entries)})
}
