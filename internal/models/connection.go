package models

import "time"

// ConnectionType describes the purpose of a classroom connection.
type ConnectionType string

// Possible connection types.
const (
	ConnectionTypeCompetition   ConnectionType = "COMPETITION"
	ConnectionTypeCollaboration ConnectionType = "COLLABORATION"
	ConnectionTypeMentorship    ConnectionType = "MENTORSHIP"
)

// Valid reports whether the connection type is known.
func (t ConnectionType) Valid() bool {
	switch t {
	case ConnectionTypeCompetition, ConnectionTypeCollaboration, ConnectionTypeMentorship:
		return true
	}
	return false
}

// ConnectionStatus represents the lifecycle of a connection.
type ConnectionStatus string

// Possible connection statuses. DECLINED and BLOCKED are terminal; an
// ACCEPTED connection leaves the system only by deletion.
const (
	ConnectionStatusPending  ConnectionStatus = "PENDING"
	ConnectionStatusAccepted ConnectionStatus = "ACCEPTED"
	ConnectionStatusDeclined ConnectionStatus = "DECLINED"
	ConnectionStatusBlocked  ConnectionStatus = "BLOCKED"
)

// Connection is a directed request between two classrooms. At most one row
// exists per unordered classroom pair regardless of direction.
type Connection struct {
	ID                   string           `db:"id" json:"id"`
	RequesterClassroomID string           `db:"requester_classroom_id" json:"requester_classroom_id"`
	TargetClassroomID    string           `db:"target_classroom_id" json:"target_classroom_id"`
	ConnectionType       ConnectionType   `db:"connection_type" json:"connection_type"`
	Status               ConnectionStatus `db:"status" json:"status"`
	Message              *string          `db:"message" json:"message,omitempty"`
	CreatedAt            time.Time        `db:"created_at" json:"created_at"`
	AcceptedAt           *time.Time       `db:"accepted_at" json:"accepted_at,omitempty"`
}

// PeerID returns the other side of the connection relative to classroomID.
func (c Connection) PeerID(classroomID string) string {
	if c.RequesterClassroomID == classroomID {
		return c.TargetClassroomID
	}
	return c.RequesterClassroomID
}

// ConnectionDetail enriches a connection with the peer's profile display name.
type ConnectionDetail struct {
	Connection
	PeerClassroomID string `db:"peer_classroom_id" json:"peer_classroom_id"`
	PeerDisplayName string `db:"peer_display_name" json:"peer_display_name"`
}

// PendingConnections splits pending requests by the caller's role.
type PendingConnections struct {
	Incoming []ConnectionDetail `json:"incoming"`
	Outgoing []ConnectionDetail `json:"outgoing"`
}
