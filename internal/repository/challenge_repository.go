package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/garden-network-api/internal/models"
)

// ChallengeRepository manages persistence for challenges and participation.
type ChallengeRepository struct {
	db *sqlx.DB
}

// NewChallengeRepository constructs a new challenge repository.
func NewChallengeRepository(db *sqlx.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

const challengeColumns = `id, title, description, challenge_type, start_date, end_date, goal_description, rewards, is_active, created_at`

// ListActive returns active challenges whose window has not closed as of the
// given date.
func (r *ChallengeRepository) ListActive(ctx context.Context, asOf time.Time) ([]models.Challenge, error) {
	query := fmt.Sprintf(`SELECT %s FROM challenges WHERE is_active = true AND end_date >= $1 ORDER BY start_date ASC`, challengeColumns)
	var challenges []models.Challenge
	if err := r.db.SelectContext(ctx, &challenges, query, asOf); err != nil {
		return nil, fmt.Errorf("list active challenges: %w", err)
	}
	return challenges, nil
}

// FindByID returns a challenge by ID.
func (r *ChallengeRepository) FindByID(ctx context.Context, id string) (*models.Challenge, error) {
	query := fmt.Sprintf(`SELECT %s FROM challenges WHERE id = $1`, challengeColumns)
	var challenge models.Challenge
	if err := r.db.GetContext(ctx, &challenge, query, id); err != nil {
		return nil, err
	}
	return &challenge, nil
}

// Deactivate marks the challenge inactive.
func (r *ChallengeRepository) Deactivate(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE challenges SET is_active = false WHERE id = $1`, id); err != nil {
		return fmt.Errorf("deactivate challenge: %w", err)
	}
	return nil
}

// InsertParticipation joins the classroom to the challenge. The conflict
// target makes the join idempotent at the storage layer; it reports whether a
// row was actually inserted.
func (r *ChallengeRepository) InsertParticipation(ctx context.Context, participation *models.ChallengeParticipation) (bool, error) {
	if participation.JoinedAt.IsZero() {
		participation.JoinedAt = time.Now().UTC()
	}
	res, err := r.db.NamedExecContext(ctx, `INSERT INTO challenge_participations (classroom_id, challenge_id, joined_at)
		VALUES (:classroom_id, :challenge_id, :joined_at)
		ON CONFLICT (classroom_id, challenge_id) DO NOTHING`, participation)
	if err != nil {
		return false, fmt.Errorf("insert participation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert participation rows: %w", err)
	}
	return affected > 0, nil
}

// DeleteParticipation removes the classroom's participation row.
func (r *ChallengeRepository) DeleteParticipation(ctx context.Context, classroomID, challengeID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM challenge_participations WHERE classroom_id = $1 AND challenge_id = $2`, classroomID, challengeID)
	if err != nil {
		return false, fmt.Errorf("delete participation: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete participation rows: %w", err)
	}
	return affected > 0, nil
}

// FindParticipation returns the participation row for the pair.
func (r *ChallengeRepository) FindParticipation(ctx context.Context, classroomID, challengeID string) (*models.ChallengeParticipation, error) {
	const query = `SELECT classroom_id, challenge_id, joined_at, final_score FROM challenge_participations WHERE classroom_id = $1 AND challenge_id = $2`
	var participation models.ChallengeParticipation
	if err := r.db.GetContext(ctx, &participation, query, classroomID, challengeID); err != nil {
		return nil, err
	}
	return &participation, nil
}

// CountParticipants returns how many classrooms joined the challenge.
func (r *ChallengeRepository) CountParticipants(ctx context.Context, challengeID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM challenge_participations WHERE challenge_id = $1`, challengeID); err != nil {
		return 0, fmt.Errorf("count participants: %w", err)
	}
	return count, nil
}

// ListParticipants returns all participation rows for the challenge.
func (r *ChallengeRepository) ListParticipants(ctx context.Context, challengeID string) ([]models.ChallengeParticipation, error) {
	const query = `SELECT classroom_id, challenge_id, joined_at, final_score FROM challenge_participations WHERE challenge_id = $1 ORDER BY joined_at ASC`
	var participants []models.ChallengeParticipation
	if err := r.db.SelectContext(ctx, &participants, query, challengeID); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	return participants, nil
}

// SetFinalScore freezes the classroom's score for a closed challenge.
func (r *ChallengeRepository) SetFinalScore(ctx context.Context, classroomID, challengeID string, score float64) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE challenge_participations SET final_score = $3 WHERE classroom_id = $1 AND challenge_id = $2`, classroomID, challengeID, score); err != nil {
		return fmt.Errorf("set final score: %w", err)
	}
	return nil
}
