package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/garden-network-api/internal/models"
	appErrors "github.com/noah-isme/garden-network-api/pkg/errors"
)

type discoveryRepository interface {
	Discover(ctx context.Context, currentClassroomID string, filter models.DiscoveryFilter) ([]models.ClassroomSummary, error)
}

type peerLookup interface {
	ConnectedPeerIDs(ctx context.Context, classroomID string) ([]string, error)
}

// DiscoveryService answers which classrooms the acting classroom can see.
type DiscoveryService struct {
	repo     discoveryRepository
	peers    peerLookup
	pageSize int
	logger   *zap.Logger
}

// NewDiscoveryService constructs DiscoveryService.
func NewDiscoveryService(repo discoveryRepository, peers peerLookup, pageSize int, logger *zap.Logger) *DiscoveryService {
	if pageSize <= 0 {
		pageSize = 50
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiscoveryService{repo: repo, peers: peers, pageSize: pageSize, logger: logger}
}

// Discover returns enabled, discoverable profiles matching the filter. The
// result is capped as a guard against unbounded scans; callers needing more
// must filter more narrowly. Connection exclusion is applied as a post-filter
// over the shared connected-peer set so both browse and search reuse it.
func (s *DiscoveryService) Discover(ctx context.Context, classroomID string, filter models.DiscoveryFilter) ([]models.ClassroomSummary, error) {
	filter.Limit = s.pageSize

	summaries, err := s.repo.Discover(ctx, classroomID, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to discover classrooms")
	}

	if filter.ExcludeConnected && len(summaries) > 0 {
		peerIDs, err := s.peers.ConnectedPeerIDs(ctx, classroomID)
		if err != nil {
			return nil, err
		}
		connected := make(map[string]struct{}, len(peerIDs))
		for _, id := range peerIDs {
			connected[id] = struct{}{}
		}

		filtered := summaries[:0]
		for _, summary := range summaries {
			if _, ok := connected[summary.ClassroomID]; !ok {
				filtered = append(filtered, summary)
			}
		}
		summaries = filtered
	}

	if summaries == nil {
		summaries = []models.ClassroomSummary{}
	}
	return summaries, nil
}
