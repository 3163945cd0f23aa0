package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/garden-network-api/internal/models"
)

type mockDiscoveryRepo struct {
	summaries  []models.ClassroomSummary
	lastFilter models.DiscoveryFilter
}

func (m *mockDiscoveryRepo) Discover(ctx context.Context, currentClassroomID string, filter models.DiscoveryFilter) ([]models.ClassroomSummary, error) {
	m.lastFilter = filter
	return m.summaries, nil
}

type mockPeerLookup struct {
	peers []string
}

func (m *mockPeerLookup) ConnectedPeerIDs(ctx context.Context, classroomID string) ([]string, error) {
	return m.peers, nil
}

func summaryFor(classroomID string) models.ClassroomSummary {
	return models.ClassroomSummary{
		NetworkProfile: models.NetworkProfile{
			ClassroomID: classroomID,
			Enabled:     true,
			Visibility:  models.VisibilityPublic,
			DisplayName: "Classroom " + classroomID,
		},
	}
}

func TestDiscoveryServiceCapsPageSize(t *testing.T) {
	repo := &mockDiscoveryRepo{}
	svc := NewDiscoveryService(repo, &mockPeerLookup{}, 25, zap.NewNop())

	_, err := svc.Discover(context.Background(), "class-a", models.DiscoveryFilter{Region: "Midwest"})
	require.NoError(t, err)
	assert.Equal(t, 25, repo.lastFilter.Limit)
	assert.Equal(t, "Midwest", repo.lastFilter.Region)
}

func TestDiscoveryServiceExcludesConnectedPeers(t *testing.T) {
	repo := &mockDiscoveryRepo{summaries: []models.ClassroomSummary{
		summaryFor("class-b"),
		summaryFor("class-c"),
		summaryFor("class-d"),
	}}
	peers := &mockPeerLookup{peers: []string{"class-c"}}
	svc := NewDiscoveryService(repo, peers, 50, zap.NewNop())

	results, err := svc.Discover(context.Background(), "class-a", models.DiscoveryFilter{ExcludeConnected: true})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "class-b", results[0].ClassroomID)
	assert.Equal(t, "class-d", results[1].ClassroomID)
}

func TestDiscoveryServiceKeepsConnectedWithoutFlag(t *testing.T) {
	repo := &mockDiscoveryRepo{summaries: []models.ClassroomSummary{
		summaryFor("class-b"),
		summaryFor("class-c"),
	}}
	peers := &mockPeerLookup{peers: []string{"class-c"}}
	svc := NewDiscoveryService(repo, peers, 50, zap.NewNop())

	results, err := svc.Discover(context.Background(), "class-a", models.DiscoveryFilter{})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestDiscoveryServiceEmptyResultIsNotNil(t *testing.T) {
	svc := NewDiscoveryService(&mockDiscoveryRepo{}, &mockPeerLookup{}, 50, zap.NewNop())

	results, err := svc.Discover(context.Background(), "class-a", models.DiscoveryFilter{Search: "no such classroom"})
	require.NoError(t, err)
	require.NotNil(t, results)
	assert.Empty(t, results)
}
