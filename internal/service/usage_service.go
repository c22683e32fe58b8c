package service

import (
	"context"
	"errors"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/metrics"
	"github.com/dom/lightprompt/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrTokenLimitReached = errors.New("token limit reached")
	ErrInvalidTier       = errors.New("invalid tier")
)

// UsageService enforces per-user token limits and tier changes
type UsageService struct {
	users   repository.UserStore
	metrics metrics.Recorder
}

func NewUsageService(users repository.UserStore, recorder metrics.Recorder) *UsageService {
	return &UsageService{
		users:   users,
		metrics: recorder,
	}
}

// Consume spends one token. The limit check and the increment are separate
// statements, so concurrent requests at the boundary can overshoot by the
// number of requests in flight. The counter itself never loses updates.
func (s *UsageService) Consume(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.HasTokensRemaining() {
		return nil, ErrTokenLimitReached
	}

	user, err = s.users.IncrementTokenUsage(ctx, userID)
	if err != nil {
		return nil, notFoundAsUser(err)
	}
	s.metrics.RecordTokenConsumed()
	return user, nil
}

func (s *UsageService) Reset(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	user, err := s.users.ResetTokenUsage(ctx, userID)
	if err != nil {
		return nil, notFoundAsUser(err)
	}
	return user, nil
}

func (s *UsageService) Upgrade(ctx context.Context, userID uuid.UUID, tier domain.Tier) (*domain.User, error) {
	if !tier.IsValid() {
		return nil, ErrInvalidTier
	}
	user, err := s.users.UpgradeTier(ctx, userID, tier)
	if err != nil {
		return nil, notFoundAsUser(err)
	}
	return user, nil
}

func notFoundAsUser(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}
