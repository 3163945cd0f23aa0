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

type discoveryService interface {
	Discover(ctx context.Context, classroomID string, filter models.DiscoveryFilter) ([]models.ClassroomSummary, error)
}

// DiscoveryHandler exposes classroom discovery endpoints.
type DiscoveryHandler struct {
	service discoveryService
}

// NewDiscoveryHandler constructs a discovery handler.
func NewDiscoveryHandler(svc discoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{service: svc}
}

// Discover godoc
// @Summary Discover classrooms visible to the acting classroom
// @Tags Discovery
// @Produce json
// @Param region query string false "Exact region match"
// @Param gradeLevel query string false "Exact grade level match"
// @Param schoolType query string false "Exact school type match"
// @Param search query string false "Case-insensitive substring over display name or bio"
// @Param excludeConnected query bool false "Drop already-connected classrooms"
// @Success 200 {object} response.Envelope
// @Router /network/discover [get]
func (h *DiscoveryHandler) Discover(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.DiscoveryFilter{
		Region:     c.Query("region"),
		GradeLevel: c.Query("gradeLevel"),
		SchoolType: c.Query("schoolType"),
		Search:     c.Query("search"),
	}
	if raw := c.Query("excludeConnected"); raw != "" {
		if val, err := strconv.ParseBool(raw); err == nil {
			filter.ExcludeConnected = val
		}
	}

	summaries, err := h.service.Discover(c.Request.Context(), claims.ClassroomID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, summaries, map[string]interface{}{"count": len(summaries)})
}
