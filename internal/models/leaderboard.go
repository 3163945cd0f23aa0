package models

// LeaderboardEntry is a derived ranking row; it is computed on demand and
// never persisted.
type LeaderboardEntry struct {
	ClassroomID        string  `json:"classroom_id"`
	DisplayName        string  `json:"display_name"`
	TotalHarvestWeight float64 `json:"total_harvest_weight"`
	TotalHarvestPlants int     `json:"total_harvest_plants"`
	TowerCount         int     `json:"tower_count"`
	Region             string  `json:"region"`
	GradeLevel         string  `json:"grade_level"`
	IsConnected        bool    `json:"is_connected"`
}

// LeaderboardCandidate is a sharing profile joined with its owning teacher,
// selected before harvest aggregation.
type LeaderboardCandidate struct {
	ClassroomID    string `db:"classroom_id"`
	DisplayName    string `db:"display_name"`
	Region         string `db:"region"`
	GradeLevel     string `db:"grade_level"`
	OwnerTeacherID string `db:"owner_teacher_id"`
}

// LeaderboardFilter narrows the ranked candidate set.
type LeaderboardFilter struct {
	ConnectedOnly bool
	Region        string
	GradeLevel    string
	Limit         int
}
