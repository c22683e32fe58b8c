package service

import (
	"github.com/dom/lightprompt/internal/config"
	"github.com/dom/lightprompt/internal/metrics"
	"github.com/dom/lightprompt/internal/repository"
)

type Services struct {
	Store       repository.Storage
	Auth        *AuthService
	Usage       *UsageService
	AccessCodes *AccessCodeService
	Chat        *ChatService
	Wellness    *WellnessService
	Dashboard   *DashboardService
}

// NewServices wires every service over one store. recorder may be nil, and
// so may publisher when no live stream is running.
func NewServices(store repository.Storage, cfg *config.Config, recorder metrics.Recorder, publisher MessagePublisher) *Services {
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	usage := NewUsageService(store, recorder)
	return &Services{
		Store:       store,
		Auth:        NewAuthService(store, cfg),
		Usage:       usage,
		AccessCodes: NewAccessCodeService(store, store, cfg, recorder),
		Chat:        NewChatService(store, usage, publisher, recorder),
		Wellness:    NewWellnessService(store),
		Dashboard:   NewDashboardService(store),
	}
}
