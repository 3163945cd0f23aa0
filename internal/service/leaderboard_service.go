package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/garden-network-api/internal/models"
	appErrors "github.com/noah-isme/garden-network-api/pkg/errors"
)

type leaderboardProfileRepo interface {
	ListSharing(ctx context.Context, region, gradeLevel string) ([]models.LeaderboardCandidate, error)
}

type harvestLedger interface {
	SumByTeacher(ctx context.Context, teacherID string) (*models.HarvestTotals, error)
	CountTowersByTeacher(ctx context.Context, teacherID string) (int, error)
}

type classroomDirectory interface {
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

type leaderboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// LeaderboardService computes ranked standings from harvest data joined
// against profiles and connection state.
type LeaderboardService struct {
	profiles   leaderboardProfileRepo
	harvests   harvestLedger
	classrooms classroomDirectory
	peers      peerLookup
	cache      leaderboardCache
	cacheTTL   time.Duration
	maxLimit   int
	logger     *zap.Logger
}

// NewLeaderboardService constructs LeaderboardService.
func NewLeaderboardService(profiles leaderboardProfileRepo, harvests harvestLedger, classrooms classroomDirectory, peers peerLookup, cache leaderboardCache, cacheTTL time.Duration, maxLimit int, logger *zap.Logger) *LeaderboardService {
	if maxLimit <= 0 {
		maxLimit = 100
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LeaderboardService{
		profiles:   profiles,
		harvests:   harvests,
		classrooms: classrooms,
		peers:      peers,
		cache:      cache,
		cacheTTL:   cacheTTL,
		maxLimit:   maxLimit,
		logger:     logger,
	}
}

// Rank returns leaderboard entries ordered by total harvest weight
// descending. Harvest totals are summed per owning teacher, not per
// classroom row: a teacher operating several classrooms contributes the same
// teacher-wide total to each of them. The sort is stable, so ties keep the
// deterministic candidate order.
func (s *LeaderboardService) Rank(ctx context.Context, classroomID string, filter models.LeaderboardFilter) ([]models.LeaderboardEntry, error) {
	if filter.Limit <= 0 || filter.Limit > s.maxLimit {
		filter.Limit = s.maxLimit
	}

	connected, err := s.connectedSet(ctx, classroomID)
	if err != nil {
		return nil, err
	}

	cacheKey := s.cacheKey(filter)
	var entries []models.LeaderboardEntry
	if s.cache != nil {
		if err := s.cache.Get(ctx, cacheKey, &entries); err == nil {
			return s.finalize(entries, classroomID, connected, filter), nil
		}
	}

	candidates, err := s.profiles.ListSharing(ctx, filter.Region, filter.GradeLevel)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to select leaderboard candidates")
	}

	// Harvest figures are aggregated per teacher; memoise so classrooms
	// sharing an owner cost a single ledger round-trip.
	type teacherFigures struct {
		totals *models.HarvestTotals
		towers int
	}
	byTeacher := make(map[string]teacherFigures)

	entries = make([]models.LeaderboardEntry, 0, len(candidates))
	for _, candidate := range candidates {
		figures, ok := byTeacher[candidate.OwnerTeacherID]
		if !ok {
			totals, err := s.harvests.SumByTeacher(ctx, candidate.OwnerTeacherID)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate harvests")
			}
			towers, err := s.harvests.CountTowersByTeacher(ctx, candidate.OwnerTeacherID)
			if err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count towers")
			}
			figures = teacherFigures{totals: totals, towers: towers}
			byTeacher[candidate.OwnerTeacherID] = figures
		}

		entries = append(entries, models.LeaderboardEntry{
			ClassroomID:        candidate.ClassroomID,
			DisplayName:        candidate.DisplayName,
			TotalHarvestWeight: figures.totals.TotalWeightGrams,
			TotalHarvestPlants: figures.totals.TotalPlantCount,
			TowerCount:         figures.towers,
			Region:             candidate.Region,
			GradeLevel:         candidate.GradeLevel,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalHarvestWeight > entries[j].TotalHarvestWeight
	})

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, entries, s.cacheTTL); err != nil {
			s.logger.Warn("failed to cache leaderboard", zap.Error(err))
		}
	}

	return s.finalize(entries, classroomID, connected, filter), nil
}

// ScoreClassroom resolves a classroom to its owning teacher and returns that
// teacher's total harvest weight. Used to freeze challenge scores.
func (s *LeaderboardService) ScoreClassroom(ctx context.Context, classroomID string) (float64, error) {
	classroom, err := s.classrooms.FindByID(ctx, classroomID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "classroom not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classroom")
	}

	totals, err := s.harvests.SumByTeacher(ctx, classroom.OwnerTeacherID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate harvests")
	}
	return totals.TotalWeightGrams, nil
}

// finalize applies the caller-specific connected flag and connected-only
// intersection over the (cacheable) ranked entries, then truncates.
func (s *LeaderboardService) finalize(entries []models.LeaderboardEntry, classroomID string, connected map[string]struct{}, filter models.LeaderboardFilter) []models.LeaderboardEntry {
	result := make([]models.LeaderboardEntry, 0, len(entries))
	for _, entry := range entries {
		_, isConnected := connected[entry.ClassroomID]
		if filter.ConnectedOnly && !isConnected {
			continue
		}
		entry.IsConnected = isConnected
		result = append(result, entry)
		if len(result) >= filter.Limit {
			break
		}
	}
	return result
}

func (s *LeaderboardService) connectedSet(ctx context.Context, classroomID string) (map[string]struct{}, error) {
	peerIDs, err := s.peers.ConnectedPeerIDs(ctx, classroomID)
	if err != nil {
		return nil, err
	}
	connected := make(map[string]struct{}, len(peerIDs))
	for _, id := range peerIDs {
		connected[id] = struct{}{}
	}
	return connected, nil
}

func (s *LeaderboardService) cacheKey(filter models.LeaderboardFilter) string {
	return fmt.Sprintf("leaderboard:%s:%s", orDash(filter.Region), orDash(filter.GradeLevel))
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}
