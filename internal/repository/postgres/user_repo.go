package postgres

import (
	"context"
	"time"

	"github.com/dom/lightprompt/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct {
	db       *gorm.DB
	users    table[domain.User]
	profiles table[domain.UserProfile]
}

func NewUserRepository(db *gorm.DB) *userRepository {
	return &userRepository{
		db:       db,
		users:    table[domain.User]{db: db},
		profiles: table[domain.UserProfile]{db: db, touchCol: "updated_at"},
	}
}

func (r *userRepository) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.users.find(ctx, whereEq("id", id))
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.users.find(ctx, whereEq("email", email))
}

// CreateUser inserts the user and its default profile in one transaction
func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(domain.NewDefaultUserProfile(user.ID)).Error
	})
}

func (r *userRepository) UpdateUser(ctx context.Context, id uuid.UUID, changes domain.UserChanges) (*domain.User, error) {
	return r.users.update(ctx, changes.Columns(), whereEq("id", id))
}

// IncrementTokenUsage adds one to tokens_used in the database so concurrent calls never lose an update
func (r *userRepository) IncrementTokenUsage(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return r.users.update(ctx, map[string]any{
		"tokens_used": gorm.Expr("tokens_used + ?", 1),
	}, whereEq("id", userID))
}

func (r *userRepository) ResetTokenUsage(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return r.users.update(ctx, map[string]any{
		"tokens_used": 0,
		"reset_date":  time.Now(),
	}, whereEq("id", userID))
}

// UpgradeTier overwrites the tier without checking it
func (r *userRepository) UpgradeTier(ctx context.Context, userID uuid.UUID, tier domain.Tier) (*domain.User, error) {
	return r.users.update(ctx, map[string]any{"tier": string(tier)}, whereEq("id", userID))
}

func (r *userRepository) GetUserProfile(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	return r.profiles.find(ctx, whereEq("user_id", userID))
}

func (r *userRepository) CreateUserProfile(ctx context.Context, profile *domain.UserProfile) error {
	return r.profiles.create(ctx, profile)
}

func (r *userRepository) UpdateUserProfile(ctx context.Context, userID uuid.UUID, changes domain.UserProfileChanges) (*domain.UserProfile, error) {
	return r.profiles.update(ctx, changes.Columns(), whereEq("user_id", userID))
}
