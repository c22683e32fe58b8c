package service

import (
	"context"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/repository"
	"github.com/google/uuid"
)

// WellnessService guards updates to rows addressed by their own id, which
// would otherwise let a caller edit another user's data. Rows owned by
// someone else are reported as domain.ErrNotFound.
type WellnessService struct {
	store repository.Storage
}

func NewWellnessService(store repository.Storage) *WellnessService {
	return &WellnessService{store: store}
}

func (s *WellnessService) UpdateMetric(ctx context.Context, userID, id uuid.UUID, changes domain.WellnessMetricChanges) (*domain.WellnessMetric, error) {
	metric, err := s.store.GetWellnessMetric(ctx, id)
	if err != nil {
		return nil, err
	}
	if metric == nil || metric.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return s.store.UpdateWellnessMetric(ctx, id, changes)
}

// Habit returns an owned habit, including deleted ones
func (s *WellnessService) Habit(ctx context.Context, userID, id uuid.UUID) (*domain.Habit, error) {
	habit, err := s.store.GetHabit(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit == nil || habit.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return habit, nil
}

func (s *WellnessService) UpdateHabit(ctx context.Context, userID, id uuid.UUID, changes domain.HabitChanges) (*domain.Habit, error) {
	if _, err := s.Habit(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.store.UpdateHabit(ctx, id, changes)
}

func (s *WellnessService) DeleteHabit(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Habit(ctx, userID, id); err != nil {
		return err
	}
	return s.store.DeleteHabit(ctx, id)
}

func (s *WellnessService) HabitEntries(ctx context.Context, userID, habitID uuid.UUID, days int) ([]*domain.HabitEntry, error) {
	if _, err := s.Habit(ctx, userID, habitID); err != nil {
		return nil, err
	}
	return s.store.GetHabitEntries(ctx, habitID, days)
}

func (s *WellnessService) AddHabitEntry(ctx context.Context, userID uuid.UUID, entry *domain.HabitEntry) error {
	if _, err := s.Habit(ctx, userID, entry.HabitID); err != nil {
		return err
	}
	return s.store.CreateHabitEntry(ctx, entry)
}

func (s *WellnessService) UpdateHabitEntry(ctx context.Context, userID, id uuid.UUID, changes domain.HabitEntryChanges) (*domain.HabitEntry, error) {
	entry, err := s.store.GetHabitEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := s.Habit(ctx, userID, entry.HabitID); err != nil {
		return nil, err
	}
	return s.store.UpdateHabitEntry(ctx, id, changes)
}

func (s *WellnessService) UpdateRecommendation(ctx context.Context, userID, id uuid.UUID, changes domain.RecommendationChanges) (*domain.Recommendation, error) {
	rec, err := s.store.GetRecommendation(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil || rec.UserID != userID {
		return nil, domain.ErrNotFound
	}
	return s.store.UpdateRecommendation(ctx, id, changes)
}
