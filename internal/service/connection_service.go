package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/garden-network-api/internal/models"
	appErrors "github.com/noah-isme/garden-network-api/pkg/errors"
)

type connectionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Connection, error)
	FindByPair(ctx context.Context, classroomA, classroomB string) (*models.Connection, error)
	Create(ctx context.Context, conn *models.Connection) error
	UpdateStatus(ctx context.Context, id string, status models.ConnectionStatus, acceptedAt *time.Time) error
	Delete(ctx context.Context, id string) error
	ListAccepted(ctx context.Context, classroomID string) ([]models.ConnectionDetail, error)
	ListPendingIncoming(ctx context.Context, classroomID string) ([]models.ConnectionDetail, error)
	ListPendingOutgoing(ctx context.Context, classroomID string) ([]models.ConnectionDetail, error)
	ConnectedPeerIDs(ctx context.Context, classroomID string) ([]string, error)
}

type profileReader interface {
	FindByClassroom(ctx context.Context, classroomID string) (*models.NetworkProfile, error)
}

// SendRequestRequest captures a new connection request payload.
type SendRequestRequest struct {
	TargetClassroomID string                `json:"target_classroom_id" validate:"required"`
	ConnectionType    models.ConnectionType `json:"connection_type" validate:"required"`
	Message           *string               `json:"message" validate:"omitempty,max=500"`
}

// RespondRequest carries the target's accept/decline decision.
type RespondRequest struct {
	Decision models.ConnectionStatus `json:"decision" validate:"required"`
}

// ConnectionService owns the connection state machine between classroom
// pairs.
type ConnectionService struct {
	repo      connectionRepository
	profiles  profileReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewConnectionService constructs ConnectionService.
func NewConnectionService(repo connectionRepository, profiles profileReader, validate *validator.Validate, logger *zap.Logger) *ConnectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConnectionService{repo: repo, profiles: profiles, validator: validate, logger: logger}
}

// SendRequest creates a pending connection from the acting classroom to the
// target. Any existing record between the pair, in either direction and in
// any status, refuses the request.
func (s *ConnectionService) SendRequest(ctx context.Context, requesterID string, req SendRequestRequest) (*models.Connection, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid connection request payload")
	}
	if !req.ConnectionType.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown connection type")
	}
	if requesterID == req.TargetClassroomID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot connect a classroom to itself")
	}

	if _, err := s.profiles.FindByClassroom(ctx, req.TargetClassroomID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "target classroom has no network profile")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load target profile")
	}

	// Pre-check both orderings for a friendly error; the unique index on the
	// unordered pair is what actually guarantees the invariant under races.
	if _, err := s.repo.FindByPair(ctx, requesterID, req.TargetClassroomID); err == nil {
		return nil, appErrors.ErrDuplicateConnection
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing connection")
	}

	conn := &models.Connection{
		RequesterClassroomID: requesterID,
		TargetClassroomID:    req.TargetClassroomID,
		ConnectionType:       req.ConnectionType,
		Status:               models.ConnectionStatusPending,
		Message:              req.Message,
	}
	if err := s.repo.Create(ctx, conn); err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrDuplicateConnection.Code {
			return nil, appErrors.ErrDuplicateConnection
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create connection")
	}

	s.logger.Info("connection requested",
		zap.String("connection_id", conn.ID),
		zap.String("requester", requesterID),
		zap.String("target", req.TargetClassroomID),
		zap.String("type", string(req.ConnectionType)))
	return conn, nil
}

// Respond lets the target accept or decline a pending request. Declined is
// terminal.
func (s *ConnectionService) Respond(ctx context.Context, actorID, connectionID string, req RespondRequest) (*models.Connection, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid respond payload")
	}
	if req.Decision != models.ConnectionStatusAccepted && req.Decision != models.ConnectionStatusDeclined {
		return nil, appErrors.Clone(appErrors.ErrValidation, "decision must be ACCEPTED or DECLINED")
	}

	conn, err := s.findConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.TargetClassroomID != actorID {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only the target classroom may respond")
	}
	if conn.Status != models.ConnectionStatusPending {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "connection is not pending")
	}

	var acceptedAt *time.Time
	if req.Decision == models.ConnectionStatusAccepted {
		now := time.Now().UTC()
		acceptedAt = &now
	}
	if err := s.repo.UpdateStatus(ctx, conn.ID, req.Decision, acceptedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update connection")
	}

	conn.Status = req.Decision
	conn.AcceptedAt = acceptedAt
	s.logger.Info("connection responded",
		zap.String("connection_id", conn.ID),
		zap.String("decision", string(req.Decision)))
	return conn, nil
}

// Block transitions a pending request to blocked. Blocked is terminal: no
// further request between the pair will ever succeed while the row exists.
func (s *ConnectionService) Block(ctx context.Context, actorID, connectionID string) (*models.Connection, error) {
	conn, err := s.findConnection(ctx, connectionID)
	if err != nil {
		return nil, err
	}
	if conn.TargetClassroomID != actorID {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only the target classroom may block")
	}
	if conn.Status == models.ConnectionStatusBlocked {
		return conn, nil
	}

	if err := s.repo.UpdateStatus(ctx, conn.ID, models.ConnectionStatusBlocked, conn.AcceptedAt); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to block connection")
	}

	conn.Status = models.ConnectionStatusBlocked
	s.logger.Info("connection blocked", zap.String("connection_id", conn.ID), zap.String("by", actorID))
	return conn, nil
}

// Remove hard-deletes a connection. Either party may remove an accepted
// connection; a pending request may only be withdrawn by its requester.
func (s *ConnectionService) Remove(ctx context.Context, actorID, connectionID string) error {
	conn, err := s.findConnection(ctx, connectionID)
	if err != nil {
		return err
	}

	switch conn.Status {
	case models.ConnectionStatusAccepted:
		if conn.RequesterClassroomID != actorID && conn.TargetClassroomID != actorID {
			return appErrors.Clone(appErrors.ErrInvalidTransition, "classroom is not part of this connection")
		}
	case models.ConnectionStatusPending:
		if conn.RequesterClassroomID != actorID {
			return appErrors.Clone(appErrors.ErrInvalidTransition, "only the requester may withdraw a pending request")
		}
	default:
		return appErrors.Clone(appErrors.ErrInvalidTransition, "connection cannot be removed in its current state")
	}

	if err := s.repo.Delete(ctx, conn.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to remove connection")
	}

	s.logger.Info("connection removed", zap.String("connection_id", conn.ID), zap.String("by", actorID))
	return nil
}

// ListConnections returns the classroom's accepted connections in either
// role.
func (s *ConnectionService) ListConnections(ctx context.Context, classroomID string) ([]models.ConnectionDetail, error) {
	details, err := s.repo.ListAccepted(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list connections")
	}
	return details, nil
}

// ListPending returns pending requests split by role.
func (s *ConnectionService) ListPending(ctx context.Context, classroomID string) (*models.PendingConnections, error) {
	incoming, err := s.repo.ListPendingIncoming(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list incoming requests")
	}
	outgoing, err := s.repo.ListPendingOutgoing(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list outgoing requests")
	}
	return &models.PendingConnections{Incoming: incoming, Outgoing: outgoing}, nil
}

// ConnectedPeerIDs returns the accepted-peer set for the classroom. Shared
// by discovery exclusion and the leaderboard's connected-only mode.
func (s *ConnectionService) ConnectedPeerIDs(ctx context.Context, classroomID string) ([]string, error) {
	peers, err := s.repo.ConnectedPeerIDs(ctx, classroomID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list connected peers")
	}
	return peers, nil
}

func (s *ConnectionService) findConnection(ctx context.Context, id string) (*models.Connection, error) {
	conn, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "connection not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load connection")
	}
	return conn, nil
}
