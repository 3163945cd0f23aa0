package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/garden-network-api/internal/models"
)

var profileColumns = []string{"classroom_id", "enabled", "visibility", "display_name", "bio", "region", "grade_level", "school_type", "share_harvest_data", "share_photos", "share_growth_tips", "created_at", "updated_at"}

func TestProfileRepositoryFindByClassroom(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	rows := sqlmock.NewRows(profileColumns).
		AddRow("class-a", true, models.VisibilityPublic, "Room 12 Growers", "", "Midwest", "5", "public", true, false, true, time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM network_profiles WHERE classroom_id = $1")).
		WithArgs("class-a").
		WillReturnRows(rows)

	profile, err := repo.FindByClassroom(context.Background(), "class-a")
	require.NoError(t, err)
	require.Equal(t, "Room 12 Growers", profile.DisplayName)
	require.Equal(t, models.VisibilityPublic, profile.Visibility)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (classroom_id) DO UPDATE SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	profile := &models.NetworkProfile{
		ClassroomID: "class-a",
		Enabled:     true,
		Visibility:  models.VisibilityNetworkOnly,
		DisplayName: "Room 12 Growers",
	}
	require.NoError(t, repo.Upsert(context.Background(), profile))
	require.False(t, profile.CreatedAt.IsZero())
	require.False(t, profile.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryDisable(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE network_profiles SET enabled = false")).
		WithArgs("class-a", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE network_profiles SET enabled = false")).
		WithArgs("class-missing", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	disabled, err := repo.Disable(context.Background(), "class-a")
	require.NoError(t, err)
	require.True(t, disabled)

	disabled, err = repo.Disable(context.Background(), "class-missing")
	require.NoError(t, err)
	require.False(t, disabled)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryDiscoverExcludesInviteOnly(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	columns := append(append([]string{}, profileColumns...), "classroom_name")
	rows := sqlmock.NewRows(columns).
		AddRow("class-b", true, models.VisibilityPublic, "Sprout Squad", "", "Midwest", "5", "public", true, false, false, time.Now(), time.Now(), "Room 7")
	// Visibility is constrained to the two discoverable levels in the query
	// itself; invite-only rows can never come back.
	mock.ExpectQuery(regexp.QuoteMeta("p.visibility IN ($1, $2) AND p.classroom_id <> $3")).
		WithArgs(models.VisibilityPublic, models.VisibilityNetworkOnly, "class-a").
		WillReturnRows(rows)

	summaries, err := repo.Discover(context.Background(), "class-a", models.DiscoveryFilter{})
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, "Room 7", summaries[0].ClassroomName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryDiscoverWithFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	columns := append(append([]string{}, profileColumns...), "classroom_name")
	mock.ExpectQuery(regexp.QuoteMeta("p.region = $4 AND p.grade_level = $5 AND (LOWER(p.display_name) LIKE $6 OR LOWER(p.bio) LIKE $6)")).
		WithArgs(models.VisibilityPublic, models.VisibilityNetworkOnly, "class-a", "Midwest", "5", "%tomato%").
		WillReturnRows(sqlmock.NewRows(columns))

	summaries, err := repo.Discover(context.Background(), "class-a", models.DiscoveryFilter{
		Region:     "Midwest",
		GradeLevel: "5",
		Search:     "Tomato",
	})
	require.NoError(t, err)
	require.Empty(t, summaries)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepositoryListSharing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewProfileRepository(db)

	rows := sqlmock.NewRows([]string{"classroom_id", "display_name", "region", "grade_level", "owner_teacher_id"}).
		AddRow("class-a", "Room 12 Growers", "Midwest", "5", "teacher-1").
		AddRow("class-b", "Sprout Squad", "Midwest", "5", "teacher-2")
	mock.ExpectQuery(regexp.QuoteMeta("p.enabled = true AND p.share_harvest_data = true")).
		WithArgs("Midwest").
		WillReturnRows(rows)

	candidates, err := repo.ListSharing(context.Background(), "Midwest", "")
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	require.Equal(t, "teacher-1", candidates[0].OwnerTeacherID)
	require.NoError(t, mock.ExpectationsWereMet())
}
