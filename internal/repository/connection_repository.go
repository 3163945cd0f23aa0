package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/garden-network-api/internal/models"
	appErrors "github.com/noah-isme/garden-network-api/pkg/errors"
)

// ConnectionRepository manages persistence for classroom connections.
type ConnectionRepository struct {
	db *sqlx.DB
}

// NewConnectionRepository constructs a new connection repository.
func NewConnectionRepository(db *sqlx.DB) *ConnectionRepository {
	return &ConnectionRepository{db: db}
}

// FindByID returns a connection record by ID.
func (r *ConnectionRepository) FindByID(ctx context.Context, id string) (*models.Connection, error) {
	const query = `SELECT id, requester_classroom_id, target_classroom_id, connection_type, status, message, created_at, accepted_at FROM classroom_connections WHERE id = $1`
	var conn models.Connection
	if err := r.db.GetContext(ctx, &conn, query, id); err != nil {
		return nil, err
	}
	return &conn, nil
}

// FindByPair returns the connection between two classrooms regardless of
// which side initiated it.
func (r *ConnectionRepository) FindByPair(ctx context.Context, classroomA, classroomB string) (*models.Connection, error) {
	const query = `SELECT id, requester_classroom_id, target_classroom_id, connection_type, status, message, created_at, accepted_at FROM classroom_connections
		WHERE (requester_classroom_id = $1 AND target_classroom_id = $2) OR (requester_classroom_id = $2 AND target_classroom_id = $1)`
	var conn models.Connection
	if err := r.db.GetContext(ctx, &conn, query, classroomA, classroomB); err != nil {
		return nil, err
	}
	return &conn, nil
}

// Create inserts a new connection. The unordered-pair unique index backs the
// at-most-one-relationship invariant, so a concurrent request from the
// opposite direction surfaces here as a duplicate, not a second row.
func (r *ConnectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	if conn.ID == "" {
		conn.ID = uuid.NewString()
	}
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO classroom_connections (id, requester_classroom_id, target_classroom_id, connection_type, status, message, created_at, accepted_at)
		VALUES (:id, :requester_classroom_id, :target_classroom_id, :connection_type, :status, :message, :created_at, :accepted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, conn); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return appErrors.ErrDuplicateConnection
		}
		return fmt.Errorf("create connection: %w", err)
	}
	return nil
}

// UpdateStatus transitions the connection status, optionally stamping the
// acceptance time.
func (r *ConnectionRepository) UpdateStatus(ctx context.Context, id string, status models.ConnectionStatus, acceptedAt *time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE classroom_connections SET status = $2, accepted_at = $3 WHERE id = $1`, id, status, acceptedAt); err != nil {
		return fmt.Errorf("update connection status: %w", err)
	}
	return nil
}

// Delete removes a connection record.
func (r *ConnectionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classroom_connections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete connection: %w", err)
	}
	return nil
}

const connectionDetailColumns = `cc.id, cc.requester_classroom_id, cc.target_classroom_id, cc.connection_type, cc.status, cc.message, cc.created_at, cc.accepted_at,
	peer.classroom_id AS peer_classroom_id, peer.display_name AS peer_display_name`

// ListAccepted returns accepted connections for the classroom in either role,
// each joined with the peer's profile.
func (r *ConnectionRepository) ListAccepted(ctx context.Context, classroomID string) ([]models.ConnectionDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM classroom_connections cc
		JOIN network_profiles peer ON peer.classroom_id = CASE WHEN cc.requester_classroom_id = $1 THEN cc.target_classroom_id ELSE cc.requester_classroom_id END
		WHERE cc.status = $2 AND (cc.requester_classroom_id = $1 OR cc.target_classroom_id = $1)
		ORDER BY cc.accepted_at DESC`, connectionDetailColumns)
	var details []models.ConnectionDetail
	if err := r.db.SelectContext(ctx, &details, query, classroomID, models.ConnectionStatusAccepted); err != nil {
		return nil, fmt.Errorf("list accepted connections: %w", err)
	}
	return details, nil
}

// ListPendingIncoming returns pending requests addressed to the classroom.
func (r *ConnectionRepository) ListPendingIncoming(ctx context.Context, classroomID string) ([]models.ConnectionDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM classroom_connections cc
		JOIN network_profiles peer ON peer.classroom_id = cc.requester_classroom_id
		WHERE cc.status = $2 AND cc.target_classroom_id = $1
		ORDER BY cc.created_at DESC`, connectionDetailColumns)
	var details []models.ConnectionDetail
	if err := r.db.SelectContext(ctx, &details, query, classroomID, models.ConnectionStatusPending); err != nil {
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}
	return details, nil
}

// ListPendingOutgoing returns pending requests initiated by the classroom.
func (r *ConnectionRepository) ListPendingOutgoing(ctx context.Context, classroomID string) ([]models.ConnectionDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM classroom_connections cc
		JOIN network_profiles peer ON peer.classroom_id = cc.target_classroom_id
		WHERE cc.status = $2 AND cc.requester_classroom_id = $1
		ORDER BY cc.created_at DESC`, connectionDetailColumns)
	var details []models.ConnectionDetail
	if err := r.db.SelectContext(ctx, &details, query, classroomID, models.ConnectionStatusPending); err != nil {
		return nil, fmt.Errorf("list outgoing requests: %w", err)
	}
	return details, nil
}

// ConnectedPeerIDs returns the ids of classrooms holding an accepted
// connection with the given classroom, in either direction.
func (r *ConnectionRepository) ConnectedPeerIDs(ctx context.Context, classroomID string) ([]string, error) {
	const query = `SELECT CASE WHEN requester_classroom_id = $1 THEN target_classroom_id ELSE requester_classroom_id END
		FROM classroom_connections
		WHERE status = $2 AND (requester_classroom_id = $1 OR target_classroom_id = $1)`
	var peers []string
	if err := r.db.SelectContext(ctx, &peers, query, classroomID, models.ConnectionStatusAccepted); err != nil {
		return nil, fmt.Errorf("list connected peers: %w", err)
	}
	return peers, nil
}
