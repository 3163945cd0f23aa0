package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/garden-network-api/internal/models"
)

// HarvestRepository reads aggregate harvest and tower figures from the
// growing subsystem. Totals are keyed by teacher, not classroom: one teacher
// may operate several classrooms and towers, and rankings sum across all of
// them.
type HarvestRepository struct {
	db *sqlx.DB
}

// NewHarvestRepository constructs a new harvest ledger reader.
func NewHarvestRepository(db *sqlx.DB) *HarvestRepository {
	return &HarvestRepository{db: db}
}

// SumByTeacher returns the teacher's total harvest weight and plant count.
func (r *HarvestRepository) SumByTeacher(ctx context.Context, teacherID string) (*models.HarvestTotals, error) {
	const query = `SELECT COALESCE(SUM(weight_grams), 0) AS total_weight_grams, COALESCE(SUM(plant_count), 0) AS total_plant_count FROM harvests WHERE teacher_id = $1`
	var totals models.HarvestTotals
	if err := r.db.GetContext(ctx, &totals, query, teacherID); err != nil {
		return nil, fmt.Errorf("sum harvests: %w", err)
	}
	return &totals, nil
}

// CountTowersByTeacher returns how many towers the teacher operates.
func (r *HarvestRepository) CountTowersByTeacher(ctx context.Context, teacherID string) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM towers WHERE teacher_id = $1`, teacherID); err != nil {
		return 0, fmt.Errorf("count towers: %w", err)
	}
	return count, nil
}
