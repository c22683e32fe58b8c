package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dom/lightprompt/internal/config"
	"github.com/dom/lightprompt/internal/domain"
	"github.com/dom/lightprompt/internal/metrics"
	"github.com/dom/lightprompt/internal/repository"
	"gorm.io/datatypes"
)

const (
	maxCodeAttempts  = 10
	courseTitle      = "LightPrompt:Ed"
	courseTokenLimit = 50
	metadataTokenKey = "tokenLimit"
)

var ErrCodeSpaceExhausted = errors.New("could not generate a unique access code")

type AccessCodeService struct {
	codes   repository.AccessCodeStore
	users   repository.UserStore
	cfg     *config.Config
	metrics metrics.Recorder
}

func NewAccessCodeService(codes repository.AccessCodeStore, users repository.UserStore, cfg *config.Config, recorder metrics.Recorder) *AccessCodeService {
	return &AccessCodeService{
		codes:   codes,
		users:   users,
		cfg:     cfg,
		metrics: recorder,
	}
}

type GenerateCodeInput struct {
	Type     string
	Metadata datatypes.JSON
}

type RedeemResult struct {
	User       *domain.User       `json:"user"`
	AccessCode *domain.AccessCode `json:"accessCode"`
}

// Generate creates a new unused code valid for the configured TTL. Course
// codes without metadata get the default course metadata.
func (s *AccessCodeService) Generate(ctx context.Context, input GenerateCodeInput) (*domain.AccessCode, error) {
	codeType := input.Type
	if codeType == "" {
		codeType = domain.AccessCodeTypeCourse
	}

	metadata := input.Metadata
	if len(metadata) == 0 && codeType == domain.AccessCodeTypeCourse {
		raw, err := json.Marshal(map[string]any{
			"courseTitle":    courseTitle,
			"generatedAt":    time.Now().UTC().Format(time.RFC3339),
			metadataTokenKey: courseTokenLimit,
		})
		if err != nil {
			return nil, err
		}
		metadata = datatypes.JSON(raw)
	}

	expiresAt := time.Now().Add(s.cfg.AccessCodeTTL)

	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := domain.GenerateAccessCode()
		if err != nil {
			return nil, err
		}

		existing, err := s.codes.GetAccessCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			continue
		}

		accessCode := &domain.AccessCode{
			Code:      code,
			Type:      codeType,
			ExpiresAt: &expiresAt,
			Metadata:  metadata,
		}
		if err := s.codes.CreateAccessCode(ctx, accessCode); err != nil {
			// lost a race with another generator for the same code
			if IsUniqueViolation(err) {
				continue
			}
			return nil, err
		}
		return accessCode, nil
	}

	return nil, ErrCodeSpaceExhausted
}

// Redeem finds or creates the account for email and claims the code for it.
// If the code carries a tokenLimit higher than the account's, the limit is raised.
func (s *AccessCodeService) Redeem(ctx context.Context, code, email string) (*RedeemResult, error) {
	code = strings.ToUpper(strings.TrimSpace(code))

	user, err := s.findOrCreateUser(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}

	redeemed, err := s.codes.RedeemAccessCode(ctx, code, user.ID)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAccessCodeRedeemed()

	if limit, ok := tokenLimitFrom(redeemed.Metadata); ok && limit > user.TokenLimit {
		user, err = s.users.UpdateUser(ctx, user.ID, domain.UserChanges{TokenLimit: &limit})
		if err != nil {
			return nil, fmt.Errorf("apply code token limit: %w", err)
		}
	}

	return &RedeemResult{User: user, AccessCode: redeemed}, nil
}

func (s *AccessCodeService) Get(ctx context.Context, code string) (*domain.AccessCode, error) {
	accessCode, err := s.codes.GetAccessCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if accessCode == nil {
		return nil, domain.ErrNotFound
	}
	return accessCode, nil
}

func (s *AccessCodeService) findOrCreateUser(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil || user != nil {
		return user, err
	}

	user = &domain.User{
		Email:      email,
		Name:       emailLocalPart(email),
		Tier:       domain.TierFree,
		Role:       domain.RoleUser,
		TokenLimit: s.cfg.DefaultTokenLimit,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if !IsUniqueViolation(err) {
			return nil, err
		}
		// created concurrently by another redemption
		return s.users.GetUserByEmail(ctx, email)
	}
	return user, nil
}

func tokenLimitFrom(metadata datatypes.JSON) (int, bool) {
	if len(metadata) == 0 {
		return 0, false
	}
	var fields struct {
		TokenLimit *int `json:"tokenLimit"`
	}
	if err := json.Unmarshal(metadata, &fields); err != nil || fields.TokenLimit == nil {
		return 0, false
	}
	return *fields.TokenLimit, true
}
