package postgres

import (
	"context"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type wellnessRepository struct {
	metrics table[domain.WellnessMetric]
	habits  table[domain.Habit]
	entries table[domain.HabitEntry]
}

func NewWellnessRepository(db *gorm.DB) *wellnessRepository {
	return &wellnessRepository{
		metrics: table[domain.WellnessMetric]{db: db, dateCol: "date"},
		habits:  table[domain.Habit]{db: db, dateCol: "created_at", activeCol: "is_active"},
		entries: table[domain.HabitEntry]{db: db, dateCol: "date"},
	}
}

func (r *wellnessRepository) GetWellnessMetric(ctx context.Context, id uuid.UUID) (*domain.WellnessMetric, error) {
	return r.metrics.find(ctx, whereEq("id", id))
}

func (r *wellnessRepository) GetWellnessMetrics(ctx context.Context, userID uuid.UUID, days int) ([]*domain.WellnessMetric, error) {
	return r.metrics.list(ctx, whereEq("user_id", userID), r.metrics.since(days), r.metrics.newestFirst)
}

func (r *wellnessRepository) CreateWellnessMetric(ctx context.Context, metric *domain.WellnessMetric) error {
	return r.metrics.create(ctx, metric)
}

func (r *wellnessRepository) UpdateWellnessMetric(ctx context.Context, id uuid.UUID, changes domain.WellnessMetricChanges) (*domain.WellnessMetric, error) {
	return r.metrics.update(ctx, changes.Columns(), whereEq("id", id))
}

// GetHabit returns the habit even if it has been deleted
func (r *wellnessRepository) GetHabit(ctx context.Context, id uuid.UUID) (*domain.Habit, error) {
	return r.habits.find(ctx, whereEq("id", id))
}

func (r *wellnessRepository) GetUserHabits(ctx context.Context, userID uuid.UUID) ([]*domain.Habit, error) {
	return r.habits.list(ctx, whereEq("user_id", userID), r.habits.oldestFirst)
}

func (r *wellnessRepository) CreateHabit(ctx context.Context, habit *domain.Habit) error {
	return r.habits.create(ctx, habit)
}

func (r *wellnessRepository) UpdateHabit(ctx context.Context, id uuid.UUID, changes domain.HabitChanges) (*domain.Habit, error) {
	return r.habits.update(ctx, changes.Columns(), whereEq("id", id))
}

// DeleteHabit deactivates the habit. The row and its entries are kept.
func (r *wellnessRepository) DeleteHabit(ctx context.Context, id uuid.UUID) error {
	_, err := r.habits.update(ctx, map[string]any{"is_active": false}, whereEq("id", id))
	return err
}

func (r *wellnessRepository) GetHabitEntry(ctx context.Context, id uuid.UUID) (*domain.HabitEntry, error) {
	return r.entries.find(ctx, whereEq("id", id))
}

func (r *wellnessRepository) GetHabitEntries(ctx context.Context, habitID uuid.UUID, days int) ([]*domain.HabitEntry, error) {
	return r.entries.list(ctx, whereEq("habit_id", habitID), r.entries.since(days), r.entries.newestFirst)
}

func (r *wellnessRepository) CreateHabitEntry(ctx context.Context, entry *domain.HabitEntry) error {
	return r.entries.create(ctx, entry)
}

func (r *wellnessRepository) UpdateHabitEntry(ctx context.Context, id uuid.UUID, changes domain.HabitEntryChanges) (*domain.HabitEntry, error) {
	return r.entries.update(ctx, changes.Columns(), whereEq("id", id))
}
