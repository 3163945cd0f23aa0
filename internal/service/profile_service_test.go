package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/garden-network-api/internal/models"
	appErrors "github.com/noah-isme/garden-network-api/pkg/errors"
)

type mockProfileRepo struct {
	profiles map[string]*models.NetworkProfile
	upserted *models.NetworkProfile
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{profiles: make(map[string]*models.NetworkProfile)}
}

func (m *mockProfileRepo) FindByClassroom(ctx context.Context, classroomID string) (*models.NetworkProfile, error) {
	if profile, ok := m.profiles[classroomID]; ok {
		return profile, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProfileRepo) Upsert(ctx context.Context, profile *models.NetworkProfile) error {
	m.upserted = profile
	m.profiles[profile.ClassroomID] = profile
	return nil
}

func (m *mockProfileRepo) Disable(ctx context.Context, classroomID string) (bool, error) {
	profile, ok := m.profiles[classroomID]
	if !ok {
		return false, nil
	}
	profile.Enabled = false
	return true, nil
}

func validUpsertRequest() UpsertProfileRequest {
	return UpsertProfileRequest{
		Enabled:          true,
		Visibility:       models.VisibilityPublic,
		DisplayName:      "Room 12 Growers",
		Bio:              "Fifth graders growing basil and lettuce.",
		Region:           "Pacific Northwest",
		GradeLevel:       "5",
		SchoolType:       "public",
		ShareHarvestData: true,
	}
}

func TestProfileServiceUpsertCreates(t *testing.T) {
	repo := newMockProfileRepo()
	svc := NewProfileService(repo, nil, nil, zap.NewNop())

	profile, err := svc.Upsert(context.Background(), "class-a", validUpsertRequest())
	require.NoError(t, err)
	assert.Equal(t, "class-a", profile.ClassroomID)
	assert.Equal(t, models.VisibilityPublic, profile.Visibility)
	require.NotNil(t, repo.upserted)
}

func TestProfileServiceUpsertPreservesCreatedAt(t *testing.T) {
	repo := newMockProfileRepo()
	created := time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC)
	repo.profiles["class-a"] = &models.NetworkProfile{ClassroomID: "class-a", Enabled: true, Visibility: models.VisibilityPublic, DisplayName: "Old Name", CreatedAt: created}
	svc := NewProfileService(repo, nil, nil, zap.NewNop())

	profile, err := svc.Upsert(context.Background(), "class-a", validUpsertRequest())
	require.NoError(t, err)
	assert.Equal(t, created, profile.CreatedAt)
	assert.Equal(t, "Room 12 Growers", profile.DisplayName)
}

func TestProfileServiceUpsertValidation(t *testing.T) {
	svc := NewProfileService(newMockProfileRepo(), nil, nil, zap.NewNop())

	cases := []struct {
		name   string
		mutate func(*UpsertProfileRequest)
	}{
		{"unknown visibility", func(r *UpsertProfileRequest) { r.Visibility = "FRIENDS_ONLY" }},
		{"enabled without display name", func(r *UpsertProfileRequest) { r.DisplayName = "" }},
		{"display name too long", func(r *UpsertProfileRequest) { r.DisplayName = strings.Repeat("x", 101) }},
		{"bio too long", func(r *UpsertProfileRequest) { r.Bio = strings.Repeat("x", 501) }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validUpsertRequest()
			tc.mutate(&req)
			_, err := svc.Upsert(context.Background(), "class-a", req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestProfileServiceUpsertDisabledAllowsEmptyDisplayName(t *testing.T) {
	svc := NewProfileService(newMockProfileRepo(), nil, nil, zap.NewNop())

	req := validUpsertRequest()
	req.Enabled = false
	req.DisplayName = ""
	_, err := svc.Upsert(context.Background(), "class-a", req)
	require.NoError(t, err)
}

type mockCacheInvalidator struct {
	patterns []string
}

func (m *mockCacheInvalidator) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

func TestProfileServiceUpsertInvalidatesLeaderboards(t *testing.T) {
	caches := &mockCacheInvalidator{}
	svc := NewProfileService(newMockProfileRepo(), caches, nil, zap.NewNop())

	_, err := svc.Upsert(context.Background(), "class-a", validUpsertRequest())
	require.NoError(t, err)
	require.Len(t, caches.patterns, 1)
	assert.Equal(t, "leaderboard:*", caches.patterns[0])
}

func TestProfileServiceGetNotFound(t *testing.T) {
	svc := NewProfileService(newMockProfileRepo(), nil, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), "class-missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProfileServiceDisable(t *testing.T) {
	repo := newMockProfileRepo()
	repo.profiles["class-a"] = &models.NetworkProfile{ClassroomID: "class-a", Enabled: true, Visibility: models.VisibilityPublic, DisplayName: "Room 12"}
	svc := NewProfileService(repo, nil, nil, zap.NewNop())

	require.NoError(t, svc.Disable(context.Background(), "class-a"))
	assert.False(t, repo.profiles["class-a"].Enabled)

	err := svc.Disable(context.Background(), "class-missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
