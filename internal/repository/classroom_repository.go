package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/garden-network-api/internal/models"
)

// ClassroomRepository reads the classroom directory. The directory is owned
// by the roster subsystem; this service never writes to it.
type ClassroomRepository struct {
	db *sqlx.DB
}

// NewClassroomRepository constructs a new classroom directory reader.
func NewClassroomRepository(db *sqlx.DB) *ClassroomRepository {
	return &ClassroomRepository{db: db}
}

// FindByID returns identity and ownership for a classroom.
func (r *ClassroomRepository) FindByID(ctx context.Context, id string) (*models.Classroom, error) {
	const query = `SELECT id, name, owner_teacher_id FROM classrooms WHERE id = $1`
	var classroom models.Classroom
	if err := r.db.GetContext(ctx, &classroom, query, id); err != nil {
		return nil, err
	}
	return &classroom, nil
}
