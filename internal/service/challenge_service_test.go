package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/garden-network-api/internal/models"
	appErrors "github.com/noah-isme/garden-network-api/pkg/errors"
)

type participationKey struct {
	classroomID string
	challengeID string
}

type mockChallengeRepo struct {
	challenges     map[string]*models.Challenge
	participations map[participationKey]*models.ChallengeParticipation
}

func newMockChallengeRepo() *mockChallengeRepo {
	return &mockChallengeRepo{
		challenges:     make(map[string]*models.Challenge),
		participations: make(map[participationKey]*models.ChallengeParticipation),
	}
}

func (m *mockChallengeRepo) ListActive(ctx context.Context, asOf time.Time) ([]models.Challenge, error) {
	var active []models.Challenge
	for _, challenge := range m.challenges {
		if challenge.IsActive && !challenge.Ended(asOf) {
			active = append(active, *challenge)
		}
	}
	return active, nil
}

func (m *mockChallengeRepo) FindByID(ctx context.Context, id string) (*models.Challenge, error) {
	if challenge, ok := m.challenges[id]; ok {
		found := *challenge
		return &found, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockChallengeRepo) Deactivate(ctx context.Context, id string) error {
	m.challenges[id].IsActive = false
	return nil
}

func (m *mockChallengeRepo) InsertParticipation(ctx context.Context, participation *models.ChallengeParticipation) (bool, error) {
	key := participationKey{participation.ClassroomID, participation.ChallengeID}
	if _, exists := m.participations[key]; exists {
		return false, nil
	}
	stored := *participation
	m.participations[key] = &stored
	return true, nil
}

func (m *mockChallengeRepo) DeleteParticipation(ctx context.Context, classroomID, challengeID string) (bool, error) {
	key := participationKey{classroomID, challengeID}
	if _, exists := m.participations[key]; !exists {
		return false, nil
	}
	delete(m.participations, key)
	return true, nil
}

func (m *mockChallengeRepo) FindParticipation(ctx context.Context, classroomID, challengeID string) (*models.ChallengeParticipation, error) {
	if participation, ok := m.participations[participationKey{classroomID, challengeID}]; ok {
		found := *participation
		return &found, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockChallengeRepo) CountParticipants(ctx context.Context, challengeID string) (int, error) {
	count := 0
	for key := range m.participations {
		if key.challengeID == challengeID {
			count++
		}
	}
	return count, nil
}

func (m *mockChallengeRepo) ListParticipants(ctx context.Context, challengeID string) ([]models.ChallengeParticipation, error) {
	var participants []models.ChallengeParticipation
	for key, participation := range m.participations {
		if key.challengeID == challengeID {
			participants = append(participants, *participation)
		}
	}
	return participants, nil
}

func (m *mockChallengeRepo) SetFinalScore(ctx context.Context, classroomID, challengeID string, score float64) error {
	m.participations[participationKey{classroomID, challengeID}].FinalScore = &score
	return nil
}

type mockScorer struct {
	scores map[string]float64
	calls  int
}

func (m *mockScorer) ScoreClassroom(ctx context.Context, classroomID string) (float64, error) {
	m.calls++
	return m.scores[classroomID], nil
}

var challengeNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func challengeFixture(id string, active bool, endDate time.Time) *models.Challenge {
	return &models.Challenge{
		ID:            id,
		Title:         "Spring Harvest Sprint",
		ChallengeType: models.ChallengeTypeHarvest,
		StartDate:     challengeNow.AddDate(0, -1, 0),
		EndDate:       endDate,
		IsActive:      active,
	}
}

func newChallengeServiceForTest(repo *mockChallengeRepo, scorer challengeScorer) *ChallengeService {
	svc := NewChallengeService(repo, scorer, zap.NewNop())
	svc.now = func() time.Time { return challengeNow }
	return svc
}

func TestChallengeServiceJoinIsIdempotent(t *testing.T) {
	repo := newMockChallengeRepo()
	repo.challenges["ch-1"] = challengeFixture("ch-1", true, challengeNow.AddDate(0, 1, 0))
	svc := newChallengeServiceForTest(repo, &mockScorer{})

	first, err := svc.Join(context.Background(), "class-a", "ch-1")
	require.NoError(t, err)
	assert.Equal(t, challengeNow, first.JoinedAt)

	second, err := svc.Join(context.Background(), "class-a", "ch-1")
	require.NoError(t, err)
	assert.Equal(t, first.JoinedAt, second.JoinedAt)
	assert.Len(t, repo.participations, 1)
}

func TestChallengeServiceJoinInactive(t *testing.T) {
	repo := newMockChallengeRepo()
	repo.challenges["ch-1"] = challengeFixture("ch-1", false, challengeNow.AddDate(0, 1, 0))
	svc := newChallengeServiceForTest(repo, &mockScorer{})

	_, err := svc.Join(context.Background(), "class-a", "ch-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestChallengeServiceLeave(t *testing.T) {
	repo := newMockChallengeRepo()
	repo.challenges["ch-1"] = challengeFixture("ch-1", true, challengeNow.AddDate(0, 1, 0))
	svc := newChallengeServiceForTest(repo, &mockScorer{})

	_, err := svc.Join(context.Background(), "class-a", "ch-1")
	require.NoError(t, err)
	require.NoError(t, svc.Leave(context.Background(), "class-a", "ch-1"))
	assert.Empty(t, repo.participations)

	// Not participating anymore.
	err = svc.Leave(context.Background(), "class-a", "ch-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestChallengeServiceLeaveAfterWindowCloses(t *testing.T) {
	repo := newMockChallengeRepo()
	repo.challenges["ch-1"] = challengeFixture("ch-1", true, challengeNow.AddDate(0, -1, 0))
	repo.participations[participationKey{"class-a", "ch-1"}] = &models.ChallengeParticipation{ClassroomID: "class-a", ChallengeID: "ch-1"}
	svc := newChallengeServiceForTest(repo, &mockScorer{})

	err := svc.Leave(context.Background(), "class-a", "ch-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrChallengeClosed.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.participations, 1)
}

func TestChallengeServiceMyParticipation(t *testing.T) {
	repo := newMockChallengeRepo()
	repo.challenges["ch-1"] = challengeFixture("ch-1", true, challengeNow.AddDate(0, 1, 0))
	svc := newChallengeServiceForTest(repo, &mockScorer{})

	_, err := svc.Join(context.Background(), "class-a", "ch-1")
	require.NoError(t, err)
	_, err = svc.Join(context.Background(), "class-b", "ch-1")
	require.NoError(t, err)

	status, err := svc.MyParticipation(context.Background(), "class-a", "ch-1")
	require.NoError(t, err)
	require.NotNil(t, status.Participation)
	assert.Equal(t, 2, status.ParticipantCount)

	// Non-participant still gets the count, with no participation row.
	status, err = svc.MyParticipation(context.Background(), "class-z", "ch-1")
	require.NoError(t, err)
	assert.Nil(t, status.Participation)
	assert.Equal(t, 2, status.ParticipantCount)
}

func TestChallengeServiceCloseFreezesScores(t *testing.T) {
	repo := newMockChallengeRepo()
	repo.challenges["ch-1"] = challengeFixture("ch-1", true, challengeNow.AddDate(0, 1, 0))
	scorer := &mockScorer{scores: map[string]float64{"class-a": 1500, "class-b": 900}}
	svc := newChallengeServiceForTest(repo, scorer)

	_, err := svc.Join(context.Background(), "class-a", "ch-1")
	require.NoError(t, err)
	_, err = svc.Join(context.Background(), "class-b", "ch-1")
	require.NoError(t, err)

	closed, err := svc.Close(context.Background(), "ch-1")
	require.NoError(t, err)
	assert.False(t, closed.IsActive)
	assert.False(t, repo.challenges["ch-1"].IsActive)

	scoreA := repo.participations[participationKey{"class-a", "ch-1"}].FinalScore
	require.NotNil(t, scoreA)
	assert.Equal(t, 1500.0, *scoreA)

	// Closing again does not rescore already-frozen participants.
	scorer.calls = 0
	_, err = svc.Close(context.Background(), "ch-1")
	require.NoError(t, err)
	assert.Zero(t, scorer.calls)
}

func TestChallengeServiceListActiveDefaultsAsOf(t *testing.T) {
	repo := newMockChallengeRepo()
	repo.challenges["ch-open"] = challengeFixture("ch-open", true, challengeNow.AddDate(0, 1, 0))
	repo.challenges["ch-ended"] = challengeFixture("ch-ended", true, challengeNow.AddDate(0, -1, 0))
	repo.challenges["ch-inactive"] = challengeFixture("ch-inactive", false, challengeNow.AddDate(0, 1, 0))
	svc := newChallengeServiceForTest(repo, &mockScorer{})

	challenges, err := svc.ListActive(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, challenges, 1)
	assert.Equal(t, "ch-open", challenges[0].ID)
}
