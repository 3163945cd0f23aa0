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

type connectionService interface {
	SendRequest(ctx context.Context, requesterID string, req service.SendRequestRequest) (*models.Connection, error)
	Respond(ctx context.Context, actorID, connectionID string, req service.RespondRequest) (*models.Connection, error)
	Block(ctx context.Context, actorID, connectionID string) (*models.Connection, error)
	Remove(ctx context.Context, actorID, connectionID string) error
	ListConnections(ctx context.Context, classroomID string) ([]models.ConnectionDetail, error)
	ListPending(ctx context.Context, classroomID string) (*models.PendingConnections, error)
}

// ConnectionHandler exposes the connection state machine endpoints.
type ConnectionHandler struct {
	service connectionService
}

// NewConnectionHandler constructs a connection handler.
func NewConnectionHandler(svc connectionService) *ConnectionHandler {
	return &ConnectionHandler{service: svc}
}

// Send godoc
// @Summary Send a connection request to another classroom
// @Tags Connections
// @Accept json
// @Produce json
// @Param payload body service.SendRequestRequest true "Request payload"
// @Success 201 {object} response.Envelope
// @Router /network/connections [post]
func (h *ConnectionHandler) Send(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SendRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	conn, err := h.service.SendRequest(c.Request.Context(), claims.ClassroomID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, conn)
}

// Respond godoc
// @Summary Accept or decline a pending connection request
// @Tags Connections
// @Accept json
// @Produce json
// @Param id path string true "Connection ID"
// @Param payload body service.RespondRequest true "Decision payload"
// @Success 200 {object} response.Envelope
// @Router /network/connections/{id}/respond [post]
func (h *ConnectionHandler) Respond(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	conn, err := h.service.Respond(c.Request.Context(), claims.ClassroomID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conn)
}

// Block godoc
// @Summary Block a connection request
// @Tags Connections
// @Produce json
// @Param id path string true "Connection ID"
// @Success 200 {object} response.Envelope
// @Router /network/connections/{id}/block [post]
func (h *ConnectionHandler) Block(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	conn, err := h.service.Block(c.Request.Context(), claims.ClassroomID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, conn)
}

// Remove godoc
// @Summary Remove an accepted connection or withdraw a pending request
// @Tags Connections
// @Produce json
// @Param id path string true "Connection ID"
// @Success 204
// @Router /network/connections/{id} [delete]
func (h *ConnectionHandler) Remove(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Remove(c.Request.Context(), claims.ClassroomID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// List godoc
// @Summary List accepted connections for the acting classroom
// @Tags Connections
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /network/connections [get]
func (h *ConnectionHandler) List(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	connections, err := h.service.ListConnections(c.Request.Context(), claims.ClassroomID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, connections)
}

// ListPending godoc
// @Summary List pending connection requests split by direction
// @Tags Connections
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /network/connections/pending [get]
func (h *ConnectionHandler) ListPending(c *gin.Context) {
	claims, ok := middleware.CurrentClaims(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	pending, err := h.service.ListPending(c.Request.Context(), claims.ClassroomID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pending)
}
