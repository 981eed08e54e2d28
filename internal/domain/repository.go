package domain

import (
	"context"
	"time"
)

// FoodRepository is the persistence interface for the food catalog.
type FoodRepository interface {
	List(ctx context.Context, category string, offset, limit int) ([]FoodItem, error)
	// Search returns items whose canonical name contains the query,
	// case-insensitively, with nutrition preloaded.
	Search(ctx context.Context, query string, limit int) ([]FoodItem, error)
	GetByID(ctx context.Context, id uint) (*FoodItem, error)
	GetByName(ctx context.Context, name string) (*FoodItem, error)
	// MatchByLabel returns the first item whose canonical name contains the
	// label, case-insensitively, ordered by id ascending so repeated calls
	// with identical stored data resolve the same row.
	MatchByLabel(ctx context.Context, label string) (*FoodItem, error)
	Create(ctx context.Context, item *FoodItem) error
}

// NutritionRepository is the persistence interface for nutrition records.
type NutritionRepository interface {
	GetByFoodID(ctx context.Context, foodItemID uint) (*NutritionData, error)
	GetBySourceID(ctx context.Context, source DataSource, sourceID string) (*NutritionData, error)
	Create(ctx context.Context, data *NutritionData) error
	Update(ctx context.Context, data *NutritionData) error
}

// UserRepository is the persistence interface for accounts.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
}

// TokenRepository persists refresh tokens and OTP codes.
type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
	SaveOTP(ctx context.Context, code *OTPCode) error
	// LatestOTP returns the most recent unused code for the address.
	LatestOTP(ctx context.Context, email string) (*OTPCode, error)
	MarkOTPUsed(ctx context.Context, id uint) error
}

// InferenceRepository persists prediction round-trips.
type InferenceRepository interface {
	Create(ctx context.Context, inf *Inference) error
	GetByID(ctx context.Context, id uint) (*Inference, error)
}

// Store bundles the repositories and provides batch atomicity. Within the
// callback every repository obtained from the passed Store operates on the
// same transaction; returning an error rolls everything back.
type Store interface {
	Foods() FoodRepository
	Nutrition() NutritionRepository
	Users() UserRepository
	Tokens() TokenRepository
	Inferences() InferenceRepository
	WithinTransaction(ctx context.Context, fn func(Store) error) error
}

// Predictor is the external ML component that accepts an image and returns a
// label plus confidence and contamination scores. Its internals are out of
// scope; callers bound it with a context deadline.
type Predictor interface {
	Predict(ctx context.Context, filename string, image []byte) (*Prediction, error)
}

// Mailer delivers OTP codes to admin users.
type Mailer interface {
	SendOTP(ctx context.Context, to, code string, expiresIn time.Duration) error
}

// ReportCache caches shaped nutrition documents per food item.
type ReportCache interface {
	Get(foodItemID uint) (*NutritionReport, bool)
	Set(foodItemID uint, report *NutritionReport)
	Delete(foodItemID uint)
}
