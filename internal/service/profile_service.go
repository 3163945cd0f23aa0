package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/garden-network-api/internal/models"
	appErrors "github.com/noah-isme/garden-network-api/pkg/errors"
)

const (
	maxDisplayNameLength = 100
	maxBioLength         = 500
)

type profileRepository interface {
	FindByClassroom(ctx context.Context, classroomID string) (*models.NetworkProfile, error)
	Upsert(ctx context.Context, profile *models.NetworkProfile) error
	Disable(ctx context.Context, classroomID string) (bool, error)
}

type cacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

// UpsertProfileRequest captures the profile write payload. Only the owning
// classroom's operator may write it.
type UpsertProfileRequest struct {
	Enabled          bool              `json:"enabled"`
	Visibility       models.Visibility `json:"visibility" validate:"required"`
	DisplayName      string            `json:"display_name"`
	Bio              string            `json:"bio"`
	Region           string            `json:"region" validate:"max=100"`
	GradeLevel       string            `json:"grade_level" validate:"max=50"`
	SchoolType       string            `json:"school_type" validate:"max=50"`
	ShareHarvestData bool              `json:"share_harvest_data"`
	SharePhotos      bool              `json:"share_photos"`
	ShareGrowthTips  bool              `json:"share_growth_tips"`
}

// ProfileService coordinates network profile reads and writes.
type ProfileService struct {
	repo      profileRepository
	caches    cacheInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs ProfileService.
func NewProfileService(repo profileRepository, caches cacheInvalidator, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{repo: repo, caches: caches, validator: validate, logger: logger}
}

// Get returns the classroom's own profile.
func (s *ProfileService) Get(ctx context.Context, classroomID string) (*models.NetworkProfile, error) {
	profile, err := s.repo.FindByClassroom(ctx, classroomID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "network profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}
	return profile, nil
}

// Upsert writes the classroom's profile. Violations are rejected wholesale;
// the row is never partially applied.
func (s *ProfileService) Upsert(ctx context.Context, classroomID string, req UpsertProfileRequest) (*models.NetworkProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid profile payload")
	}
	if !req.Visibility.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "visibility: unknown visibility level")
	}
	if req.Enabled && req.DisplayName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "display_name: required when the profile is enabled")
	}
	if len(req.DisplayName) > maxDisplayNameLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, "display_name: must be at most 100 characters")
	}
	if len(req.Bio) > maxBioLength {
		return nil, appErrors.Clone(appErrors.ErrValidation, "bio: must be at most 500 characters")
	}

	profile := &models.NetworkProfile{
		ClassroomID:      classroomID,
		Enabled:          req.Enabled,
		Visibility:       req.Visibility,
		DisplayName:      req.DisplayName,
		Bio:              req.Bio,
		Region:           req.Region,
		GradeLevel:       req.GradeLevel,
		SchoolType:       req.SchoolType,
		ShareHarvestData: req.ShareHarvestData,
		SharePhotos:      req.SharePhotos,
		ShareGrowthTips:  req.ShareGrowthTips,
	}
	if existing, err := s.repo.FindByClassroom(ctx, classroomID); err == nil {
		profile.CreatedAt = existing.CreatedAt
	} else if err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load profile")
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save profile")
	}
	s.invalidateLeaderboards(ctx)

	s.logger.Info("profile saved",
		zap.String("classroom_id", classroomID),
		zap.Bool("enabled", profile.Enabled),
		zap.String("visibility", string(profile.Visibility)))
	return profile, nil
}

// Disable soft-disables the profile. Accepted connections stay valid; the
// classroom simply stops appearing in discovery and rankings.
func (s *ProfileService) Disable(ctx context.Context, classroomID string) error {
	disabled, err := s.repo.Disable(ctx, classroomID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to disable profile")
	}
	if !disabled {
		return appErrors.Clone(appErrors.ErrNotFound, "network profile not found")
	}
	s.invalidateLeaderboards(ctx)

	s.logger.Info("profile disabled", zap.String("classroom_id", classroomID))
	return nil
}

// invalidateLeaderboards drops cached rankings after a profile write; the
// sharing flags and display names feed directly into them. Best effort, the
// cache TTL is the backstop.
func (s *ProfileService) invalidateLeaderboards(ctx context.Context) {
	if s.caches == nil {
		return
	}
	if err := s.caches.DeleteByPattern(ctx, "leaderboard:*"); err != nil {
		s.logger.Warn("failed to invalidate leaderboard cache", zap.Error(err))
	}
}
