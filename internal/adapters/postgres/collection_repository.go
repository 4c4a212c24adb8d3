package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mintmesh/marketplace/internal/domain"
	"github.com/mintmesh/marketplace/internal/ports"
	"gorm.io/gorm"
)

type collectionRepository struct {
	db *gorm.DB
}

func (r *collectionRepository) Create(ctx context.Context, params ports.CreateCollectionParams) (domain.Collection, error) {
	rec := collectionModel{
		CreatorID:   params.CreatorID,
		Name:        params.Name,
		Description: params.Description,
		CreatedAt:   params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Collection{}, fmt.Errorf("%w: collection name taken", domain.ErrConflict)
		}
		return domain.Collection{}, err
	}
	return collectionToDomain(rec), nil
}

func (r *collectionRepository) GetByID(ctx context.Context, collectionID uuid.UUID) (domain.Collection, error) {
	var rec collectionModel
	if err := r.db.WithContext(ctx).Where("collection_id = ?", collectionID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Collection{}, domain.ErrNotFound
		}
		return domain.Collection{}, err
	}
	return collectionToDomain(rec), nil
}

func (r *collectionRepository) List(ctx context.Context, limit, offset int) ([]domain.Collection, error) {
	var rows []collectionModel
	if err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Collection, 0, len(rows))
	for _, row := range rows {
		out = append(out, collectionToDomain(row))
	}
	return out, nil
}
