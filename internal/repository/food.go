package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/safebite/backend/internal/domain"
)

type foodRepo struct {
	db *gorm.DB
}

func (r *foodRepo) List(ctx context.Context, category string, offset, limit int) ([]domain.FoodItem, error) {
	q := r.db.WithContext(ctx).Model(&domain.FoodItem{})
	if category != "" {
		q = q.Where("category = ?", category)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var items []domain.FoodItem
	if err := q.Offset(offset).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *foodRepo) Search(ctx context.Context, query string, limit int) ([]domain.FoodItem, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"

	var items []domain.FoodItem
	err := r.db.WithContext(ctx).
		Preload("Nutrition").
		Where("LOWER(canonical_name) LIKE ?", pattern).
		Order("id ASC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *foodRepo) GetByID(ctx context.Context, id uint) (*domain.FoodItem, error) {
	var item domain.FoodItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *foodRepo) GetByName(ctx context.Context, name string) (*domain.FoodItem, error) {
	var item domain.FoodItem
	err := r.db.WithContext(ctx).Where("canonical_name = ?", name).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// MatchByLabel runs the approximate name resolution query. The label is
// wrapped in wildcards on both sides; ordering by id keeps ties deterministic.
func (r *foodRepo) MatchByLabel(ctx context.Context, label string) (*domain.FoodItem, error) {
	pattern := "%" + strings.ToLower(label) + "%"

	var item domain.FoodItem
	err := r.db.WithContext(ctx).
		Where("LOWER(canonical_name) LIKE ?", pattern).
		Order("id ASC").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *foodRepo) Create(ctx context.Context, item *domain.FoodItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}
