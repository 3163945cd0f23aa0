package models

import (
	"time"

	"github.com/lib/pq"
)

// ChallengeType classifies a platform challenge.
type ChallengeType string

// Possible challenge types.
const (
	ChallengeTypeHarvest    ChallengeType = "HARVEST"
	ChallengeTypeGrowth     ChallengeType = "GROWTH"
	ChallengeTypeInnovation ChallengeType = "INNOVATION"
)

// Challenge is a platform-owned, time-boxed competition. It is immutable to
// classrooms; only platform operators create, close, or deactivate one.
type Challenge struct {
	ID              string         `db:"id" json:"id"`
	Title           string         `db:"title" json:"title"`
	Description     string         `db:"description" json:"description"`
	ChallengeType   ChallengeType  `db:"challenge_type" json:"challenge_type"`
	StartDate       time.Time      `db:"start_date" json:"start_date"`
	EndDate         time.Time      `db:"end_date" json:"end_date"`
	GoalDescription string         `db:"goal_description" json:"goal_description"`
	Rewards         pq.StringArray `db:"rewards" json:"rewards" swaggertype:"array,string"`
	IsActive        bool           `db:"is_active" json:"is_active"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// Ended reports whether the challenge window has closed as of now.
func (c Challenge) Ended(now time.Time) bool {
	return c.EndDate.Before(now)
}

// ChallengeParticipation links a classroom to a challenge. At most one row
// exists per (classroom, challenge) pair; FinalScore is set when the
// challenge is closed and frozen afterwards.
type ChallengeParticipation struct {
	ClassroomID string    `db:"classroom_id" json:"classroom_id"`
	ChallengeID string    `db:"challenge_id" json:"challenge_id"`
	JoinedAt    time.Time `db:"joined_at" json:"joined_at"`
	FinalScore  *float64  `db:"final_score" json:"final_score,omitempty"`
}
