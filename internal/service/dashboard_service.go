package service

import (
	"context"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const DefaultDashboardDays = 30

// maxEntryQueries bounds the per-habit entry lookups running at once
const maxEntryQueries = 4

type Dashboard struct {
	Metrics      []*domain.WellnessMetric           `json:"metrics"`
	Habits       []*domain.Habit                    `json:"habits"`
	HabitEntries map[uuid.UUID][]*domain.HabitEntry `json:"habitEntries"`
	Patterns     []*domain.WellnessPattern          `json:"patterns"`
	AppleHealth  []*domain.AppleHealthData          `json:"appleHealth"`
	HomeKit      []*domain.HomeKitData              `json:"homeKit"`
}

type DashboardService struct {
	store repository.Storage
}

func NewDashboardService(store repository.Storage) *DashboardService {
	return &DashboardService{store: store}
}

// Dashboard loads everything the wellness dashboard shows over the last
// days. It reads stored patterns and never runs detection.
func (s *DashboardService) Dashboard(ctx context.Context, userID uuid.UUID, days int) (*Dashboard, error) {
	if days <= 0 {
		days = DefaultDashboardDays
	}

	d := &Dashboard{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		d.Metrics, err = s.store.GetWellnessMetrics(gctx, userID, days)
		return err
	})
	g.Go(func() (err error) {
		d.Habits, err = s.store.GetUserHabits(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.Patterns, err = s.store.GetWellnessPatterns(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		d.AppleHealth, err = s.store.GetAppleHealthData(gctx, userID, days)
		return err
	})
	g.Go(func() (err error) {
		d.HomeKit, err = s.store.GetHomeKitData(gctx, userID, days)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([][]*domain.HabitEntry, len(d.Habits))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(maxEntryQueries)
	for i, habit := range d.Habits {
		i, habit := i, habit
		g.Go(func() (err error) {
			entries[i], err = s.store.GetHabitEntries(gctx, habit.ID, days)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	d.HabitEntries = make(map[uuid.UUID][]*domain.HabitEntry, len(d.Habits))
	for i, habit := range d.Habits {
		d.HabitEntries[habit.ID] = entries[i]
	}
	return d, nil
}
