package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/garden-network-api/internal/models"
	appErrors "github.com/noah-isme/garden-network-api/pkg/errors"
)

type challengeRepository interface {
	ListActive(ctx context.Context, asOf time.Time) ([]models.Challenge, error)
	FindByID(ctx context.Context, id string) (*models.Challenge, error)
	Deactivate(ctx context.Context, id string) error
	InsertParticipation(ctx context.Context, participation *models.ChallengeParticipation) (bool, error)
	DeleteParticipation(ctx context.Context, classroomID, challengeID string) (bool, error)
	FindParticipation(ctx context.Context, classroomID, challengeID string) (*models.ChallengeParticipation, error)
	CountParticipants(ctx context.Context, challengeID string) (int, error)
	ListParticipants(ctx context.Context, challengeID string) ([]models.ChallengeParticipation, error)
	SetFinalScore(ctx context.Context, classroomID, challengeID string, score float64) error
}

type challengeScorer interface {
	ScoreClassroom(ctx context.Context, classroomID string) (float64, error)
}

// ParticipationStatus combines a classroom's own participation with the
// challenge-wide participant count.
type ParticipationStatus struct {
	Participation    *models.ChallengeParticipation `json:"participation"`
	ParticipantCount int                            `json:"participant_count"`
}

// ChallengeService manages time-boxed competitions and classroom
// participation.
type ChallengeService struct {
	repo   challengeRepository
	scorer challengeScorer
	logger *zap.Logger
	now    func() time.Time
}

// NewChallengeService constructs ChallengeService.
func NewChallengeService(repo challengeRepository, scorer challengeScorer, logger *zap.Logger) *ChallengeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChallengeService{repo: repo, scorer: scorer, logger: logger, now: time.Now}
}

// ListActive returns active challenges still open as of the given date.
func (s *ChallengeService) ListActive(ctx context.Context, asOf time.Time) ([]models.Challenge, error) {
	if asOf.IsZero() {
		asOf = s.now().UTC()
	}
	challenges, err := s.repo.ListActive(ctx, asOf)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list challenges")
	}
	if challenges == nil {
		challenges = []models.Challenge{}
	}
	return challenges, nil
}

// Join enrolls the classroom in a challenge. Joining twice is a no-op
// success so UI retries never surface spurious failures. Join is gated only
// on is_active, not on end_date; leave is the date-gated side.
func (s *ChallengeService) Join(ctx context.Context, classroomID, challengeID string) (*models.ChallengeParticipation, error) {
	challenge, err := s.findChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}
	if !challenge.IsActive {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "challenge is not active")
	}

	participation := &models.ChallengeParticipation{
		ClassroomID: classroomID,
		ChallengeID: challengeID,
		JoinedAt:    s.now().UTC(),
	}
	inserted, err := s.repo.InsertParticipation(ctx, participation)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to join challenge")
	}
	if !inserted {
		existing, err := s.repo.FindParticipation(ctx, classroomID, challengeID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participation")
		}
		return existing, nil
	}

	s.logger.Info("challenge joined",
		zap.String("classroom_id", classroomID),
		zap.String("challenge_id", challengeID))
	return participation, nil
}

// Leave removes the classroom from a still-open challenge. Once the window
// has closed, scores are frozen and leaving is refused.
func (s *ChallengeService) Leave(ctx context.Context, classroomID, challengeID string) error {
	challenge, err := s.findChallenge(ctx, challengeID)
	if err != nil {
		return err
	}
	if challenge.Ended(s.now().UTC()) {
		return appErrors.ErrChallengeClosed
	}

	deleted, err := s.repo.DeleteParticipation(ctx, classroomID, challengeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to leave challenge")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "classroom is not participating in this challenge")
	}

	s.logger.Info("challenge left",
		zap.String("classroom_id", classroomID),
		zap.String("challenge_id", challengeID))
	return nil
}

// MyParticipation returns the classroom's participation row, if any, and the
// challenge-wide participant count. Absence is a valid result, not an error.
func (s *ChallengeService) MyParticipation(ctx context.Context, classroomID, challengeID string) (*ParticipationStatus, error) {
	if _, err := s.findChallenge(ctx, challengeID); err != nil {
		return nil, err
	}

	count, err := s.repo.CountParticipants(ctx, challengeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count participants")
	}

	status := &ParticipationStatus{ParticipantCount: count}
	participation, err := s.repo.FindParticipation(ctx, classroomID, challengeID)
	if err != nil {
		if err != sql.ErrNoRows {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load participation")
		}
		return status, nil
	}
	status.Participation = participation
	return status, nil
}

// Close deactivates the challenge and freezes every participant's final
// score from the current harvest aggregate. Platform operators only; the
// handler enforces the role.
func (s *ChallengeService) Close(ctx context.Context, challengeID string) (*models.Challenge, error) {
	challenge, err := s.findChallenge(ctx, challengeID)
	if err != nil {
		return nil, err
	}

	participants, err := s.repo.ListParticipants(ctx, challengeID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list participants")
	}

	for _, participation := range participants {
		if participation.FinalScore != nil {
			continue
		}
		score, err := s.scorer.ScoreClassroom(ctx, participation.ClassroomID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to score participant")
		}
		if err := s.repo.SetFinalScore(ctx, participation.ClassroomID, challengeID, score); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to freeze score")
		}
	}

	if challenge.IsActive {
		if err := s.repo.Deactivate(ctx, challengeID); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate challenge")
		}
		challenge.IsActive = false
	}

	s.logger.Info("challenge closed",
		zap.String("challenge_id", challengeID),
		zap.Int("participants", len(participants)))
	return challenge, nil
}

func (s *ChallengeService) findChallenge(ctx context.Context, id string) (*models.Challenge, error) {
	challenge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "challenge not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load challenge")
	}
	return challenge, nil
}
