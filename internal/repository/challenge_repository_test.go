package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/garden-network-api/internal/models"
)

var challengeTestColumns = []string{"id", "title", "description", "challenge_type", "start_date", "end_date", "goal_description", "rewards", "is_active", "created_at"}

func TestChallengeRepositoryListActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewChallengeRepository(db)

	asOf := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(challengeTestColumns).
		AddRow("ch-1", "Spring Harvest Sprint", "Grow the most by weight.", models.ChallengeTypeHarvest,
			asOf.AddDate(0, -1, 0), asOf.AddDate(0, 1, 0), "Heaviest combined harvest wins.",
			[]byte(`{"Seed grant","Trophy"}`), true, asOf.AddDate(0, -2, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM challenges WHERE is_active = true AND end_date >= $1")).
		WithArgs(asOf).
		WillReturnRows(rows)

	challenges, err := repo.ListActive(context.Background(), asOf)
	require.NoError(t, err)
	require.Len(t, challenges, 1)
	require.Equal(t, pq.StringArray{"Seed grant", "Trophy"}, challenges[0].Rewards)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeRepositoryInsertParticipation(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewChallengeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (classroom_id, challenge_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	participation := &models.ChallengeParticipation{ClassroomID: "class-a", ChallengeID: "ch-1"}
	inserted, err := repo.InsertParticipation(context.Background(), participation)
	require.NoError(t, err)
	require.True(t, inserted)
	require.False(t, participation.JoinedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeRepositoryInsertParticipationConflict(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewChallengeRepository(db)

	// DO NOTHING swallows the conflict; zero rows affected means the pair
	// already existed.
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (classroom_id, challenge_id) DO NOTHING")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	participation := &models.ChallengeParticipation{ClassroomID: "class-a", ChallengeID: "ch-1", JoinedAt: time.Now()}
	inserted, err := repo.InsertParticipation(context.Background(), participation)
	require.NoError(t, err)
	require.False(t, inserted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeRepositoryDeleteParticipation(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewChallengeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM challenge_participations WHERE classroom_id = $1 AND challenge_id = $2")).
		WithArgs("class-a", "ch-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.DeleteParticipation(context.Background(), "class-a", "ch-1")
	require.NoError(t, err)
	require.False(t, deleted)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestChallengeRepositorySetFinalScore(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewChallengeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE challenge_participations SET final_score = $3 WHERE classroom_id = $1 AND challenge_id = $2")).
		WithArgs("class-a", "ch-1", 1500.0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetFinalScore(context.Background(), "class-a", "ch-1", 1500.0))
	require.NoError(t, mock.ExpectationsWereMet())
}
