package models

// Classroom is the directory record for a tenant classroom. The directory is
// an external collaborator; this service only reads identity and ownership.
type Classroom struct {
	ID             string `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	OwnerTeacherID string `db:"owner_teacher_id" json:"owner_teacher_id"`
}

// HarvestTotals aggregates a teacher's harvest output across all of their
// classrooms and towers.
type HarvestTotals struct {
	TotalWeightGrams float64 `db:"total_weight_grams" json:"total_weight_grams"`
	TotalPlantCount  int     `db:"total_plant_count" json:"total_plant_count"`
}
