package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/garden-network-api/internal/models"
)

// ProfileRepository manages persistence for network profiles.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs a new profile repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByClassroom returns the profile owned by the classroom.
func (r *ProfileRepository) FindByClassroom(ctx context.Context, classroomID string) (*models.NetworkProfile, error) {
	const query = `SELECT classroom_id, enabled, visibility, display_name, bio, region, grade_level, school_type, share_harvest_data, share_photos, share_growth_tips, created_at, updated_at FROM network_profiles WHERE classroom_id = $1`
	var profile models.NetworkProfile
	if err := r.db.GetContext(ctx, &profile, query, classroomID); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert writes the profile, keyed by classroom id. The single-row write is
// the only side effect.
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.NetworkProfile) error {
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	const query = `INSERT INTO network_profiles (classroom_id, enabled, visibility, display_name, bio, region, grade_level, school_type, share_harvest_data, share_photos, share_growth_tips, created_at, updated_at)
		VALUES (:classroom_id, :enabled, :visibility, :display_name, :bio, :region, :grade_level, :school_type, :share_harvest_data, :share_photos, :share_growth_tips, :created_at, :updated_at)
		ON CONFLICT (classroom_id) DO UPDATE SET
			enabled = EXCLUDED.enabled,
			visibility = EXCLUDED.visibility,
			display_name = EXCLUDED.display_name,
			bio = EXCLUDED.bio,
			region = EXCLUDED.region,
			grade_level = EXCLUDED.grade_level,
			school_type = EXCLUDED.school_type,
			share_harvest_data = EXCLUDED.share_harvest_data,
			share_photos = EXCLUDED.share_photos,
			share_growth_tips = EXCLUDED.share_growth_tips,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// Disable soft-disables the profile; connection history is preserved.
func (r *ProfileRepository) Disable(ctx context.Context, classroomID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE network_profiles SET enabled = false, updated_at = $2 WHERE classroom_id = $1`, classroomID, time.Now().UTC())
	if err != nil {
		return false, fmt.Errorf("disable profile: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("disable profile rows: %w", err)
	}
	return affected > 0, nil
}

// Discover returns enabled, discoverable profiles matching the filter,
// excluding the caller's own classroom. Invite-only profiles never match.
func (r *ProfileRepository) Discover(ctx context.Context, currentClassroomID string, filter models.DiscoveryFilter) ([]models.ClassroomSummary, error) {
	base := `FROM network_profiles p JOIN classrooms c ON c.id = p.classroom_id WHERE p.enabled = true AND p.visibility IN ($1, $2) AND p.classroom_id <> $3`
	args := []interface{}{models.VisibilityPublic, models.VisibilityNetworkOnly, currentClassroomID}

	var conditions []string
	if filter.Region != "" {
		conditions = append(conditions, fmt.Sprintf("p.region = $%d", len(args)+1))
		args = append(args, filter.Region)
	}
	if filter.GradeLevel != "" {
		conditions = append(conditions, fmt.Sprintf("p.grade_level = $%d", len(args)+1))
		args = append(args, filter.GradeLevel)
	}
	if filter.SchoolType != "" {
		conditions = append(conditions, fmt.Sprintf("p.school_type = $%d", len(args)+1))
		args = append(args, filter.SchoolType)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(p.display_name) LIKE $%d OR LOWER(p.bio) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf("SELECT p.classroom_id, p.enabled, p.visibility, p.display_name, p.bio, p.region, p.grade_level, p.school_type, p.share_harvest_data, p.share_photos, p.share_growth_tips, p.created_at, p.updated_at, c.name AS classroom_name %s ORDER BY p.display_name ASC LIMIT %d", base, limit)
	var summaries []models.ClassroomSummary
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("discover profiles: %w", err)
	}
	return summaries, nil
}

// ListSharing returns enabled profiles that opted into harvest sharing,
// joined with the classroom directory for teacher ownership.
func (r *ProfileRepository) ListSharing(ctx context.Context, region, gradeLevel string) ([]models.LeaderboardCandidate, error) {
	base := `FROM network_profiles p JOIN classrooms c ON c.id = p.classroom_id WHERE p.enabled = true AND p.share_harvest_data = true`
	var args []interface{}

	if region != "" {
		base += fmt.Sprintf(" AND p.region = $%d", len(args)+1)
		args = append(args, region)
	}
	if gradeLevel != "" {
		base += fmt.Sprintf(" AND p.grade_level = $%d", len(args)+1)
		args = append(args, gradeLevel)
	}

	query := "SELECT p.classroom_id, p.display_name, p.region, p.grade_level, c.owner_teacher_id " + base + " ORDER BY p.display_name ASC"
	var candidates []models.LeaderboardCandidate
	if err := r.db.SelectContext(ctx, &candidates, query, args...); err != nil {
		return nil, fmt.Errorf("list sharing profiles: %w", err)
	}
	return candidates, nil
}
