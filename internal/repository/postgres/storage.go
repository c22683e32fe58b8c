package postgres

import (
	"github.com/dom/lightprompt/internal/repository"
	"gorm.io/gorm"
)

var _ repository.Storage = (*Storage)(nil)

// Storage is the Postgres implementation of repository.Storage
type Storage struct {
	*userRepository
	*chatRepository
	*accessCodeRepository
	*wellnessRepository
	*healthRepository
	*insightRepository
	*deviceRepository
	journeyRepository
}

func NewStorage(db *gorm.DB) *Storage {
	return &Storage{
		userRepository:       NewUserRepository(db),
		chatRepository:       NewChatRepository(db),
		accessCodeRepository: NewAccessCodeRepository(db),
		wellnessRepository:   NewWellnessRepository(db),
		healthRepository:     NewHealthRepository(db),
		insightRepository:    NewInsightRepository(db),
		deviceRepository:     NewDeviceRepository(db),
	}
}
