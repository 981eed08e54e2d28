package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/safebite/backend/internal/domain"
)

type nutritionRepo struct {
	db *gorm.DB
}

func (r *nutritionRepo) GetByFoodID(ctx context.Context, foodItemID uint) (*domain.NutritionData, error) {
	var data domain.NutritionData
	err := r.db.WithContext(ctx).Where("food_item_id = ?", foodItemID).First(&data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (r *nutritionRepo) GetBySourceID(ctx context.Context, source domain.DataSource, sourceID string) (*domain.NutritionData, error) {
	var data domain.NutritionData
	err := r.db.WithContext(ctx).
		Where("data_source = ? AND source_id = ?", source, sourceID).
		First(&data).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &data, nil
}

func (r *nutritionRepo) Create(ctx context.Context, data *domain.NutritionData) error {
	return r.db.WithContext(ctx).Create(data).Error
}

func (r *nutritionRepo) Update(ctx context.Context, data *domain.NutritionData) error {
	return r.db.WithContext(ctx).Save(data).Error
}
