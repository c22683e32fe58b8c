package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type accessCodeRepository struct {
	codes table[domain.AccessCode]
}

func NewAccessCodeRepository(db *gorm.DB) *accessCodeRepository {
	return &accessCodeRepository{
		codes: table[domain.AccessCode]{db: db, dateCol: "created_at"},
	}
}

func (r *accessCodeRepository) GetAccessCode(ctx context.Context, code string) (*domain.AccessCode, error) {
	return r.codes.find(ctx, whereEq("code", code))
}

func (r *accessCodeRepository) CreateAccessCode(ctx context.Context, code *domain.AccessCode) error {
	return r.codes.create(ctx, code)
}

// RedeemAccessCode claims the code only while it is unused and unexpired, so
// two concurrent redemptions can never both succeed.
func (r *accessCodeRepository) RedeemAccessCode(ctx context.Context, code string, userID uuid.UUID) (*domain.AccessCode, error) {
	now := time.Now()
	redeemed, err := r.codes.update(ctx, map[string]any{
		"is_used": true,
		"used_by": userID,
		"used_at": now,
	},
		whereEq("code", code),
		whereEq("is_used", false),
		notExpiredAt(now),
	)
	if err == nil {
		return redeemed, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	existing, err := r.GetAccessCode(ctx, code)
	switch {
	case err != nil:
		return nil, err
	case existing == nil:
		return nil, domain.ErrNotFound
	case existing.IsUsed:
		return nil, domain.ErrAccessCodeRedeemed
	default:
		return nil, domain.ErrAccessCodeExpired
	}
}

func notExpiredAt(now time.Time) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("(expires_at IS NULL OR expires_at > ?)", now)
	}
}
