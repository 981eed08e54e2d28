package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/safebite/backend/internal/domain"
)

// Store implements domain.Store on top of a *gorm.DB. A Store built inside
// WithinTransaction shares the transaction handle, so every repository
// obtained from it participates in the same transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Foods() domain.FoodRepository           { return &foodRepo{db: s.db} }
func (s *Store) Nutrition() domain.NutritionRepository  { return &nutritionRepo{db: s.db} }
func (s *Store) Users() domain.UserRepository           { return &userRepo{db: s.db} }
func (s *Store) Tokens() domain.TokenRepository         { return &tokenRepo{db: s.db} }
func (s *Store) Inferences() domain.InferenceRepository { return &inferenceRepo{db: s.db} }

// WithinTransaction runs fn atomically: any error rolls back every write
// performed through the Store passed to fn.
func (s *Store) WithinTransaction(ctx context.Context, fn func(domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
