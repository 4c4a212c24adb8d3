package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, params ports.CreateUserParams) (domain.User, error) {
	rec := userModel{
		Email:             strings.ToLower(strings.TrimSpace(params.Email)),
		PasswordHash:      params.PasswordHash,
		DisplayName:       params.DisplayName,
		Role:              string(params.Role),
		PreferredCurrency: params.PreferredCurrency,
		CreatedAt:         params.CreatedAt,
		UpdatedAt:         params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return domain.User{}, err
	}
	return userToDomain(rec), nil
}

func (r *userRepository) GetByID(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("user_id = ? AND deleted_at IS NULL", userID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return userToDomain(rec), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	var rec userModel
	if err := r.db.WithContext(ctx).Where("email = ? AND deleted_at IS NULL", strings.ToLower(strings.TrimSpace(email))).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return userToDomain(rec), nil
}

func (r *userRepository) Update(ctx context.Context, params ports.UpdateUserParams) (domain.User, error) {
	updates := map[string]any{
		"updated_at": params.UpdatedAt,
	}
	if params.DisplayName != nil {
		updates["display_name"] = strings.TrimSpace(*params.DisplayName)
	}
	if params.PreferredCurrency != nil {
		updates["preferred_currency"] = *params.PreferredCurrency
	}
	res := r.db.WithContext(ctx).Model(&userModel{}).
		Where("user_id = ? AND deleted_at IS NULL", params.UserID).
		Updates(updates)
	if res.Error != nil {
		return domain.User{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.User{}, domain.ErrNotFound
	}
	return r.GetByID(ctx, params.UserID)
}
