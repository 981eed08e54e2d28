package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/safebite/backend/internal/domain"
)

type userRepo struct {
	db *gorm.DB
}

func (r *userRepo) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepo) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

type tokenRepo struct {
	db *gorm.DB
}

func (r *tokenRepo) SaveRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

func (r *tokenRepo) GetRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	var rt domain.RefreshToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&rt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

func (r *tokenRepo) RevokeRefreshToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Model(&domain.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error
}

func (r *tokenRepo) SaveOTP(ctx context.Context, code *domain.OTPCode) error {
	return r.db.WithContext(ctx).Create(code).Error
}

func (r *tokenRepo) LatestOTP(ctx context.Context, email string) (*domain.OTPCode, error) {
	var otp domain.OTPCode
	err := r.db.WithContext(ctx).
		Where("email = ? AND used = ?", email, false).
		Order("id DESC").
		First(&otp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (r *tokenRepo) MarkOTPUsed(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&domain.OTPCode{}).
		Where("id = ?", id).
		Update("used", true).Error
}

type inferenceRepo struct {
	db *gorm.DB
}

func (r *inferenceRepo) Create(ctx context.Context, inf *domain.Inference) error {
	return r.db.WithContext(ctx).Create(inf).Error
}

func (r *inferenceRepo) GetByID(ctx context.Context, id uint) (*domain.Inference, error) {
	var inf domain.Inference
	err := r.db.WithContext(ctx).First(&inf, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inf, nil
}
