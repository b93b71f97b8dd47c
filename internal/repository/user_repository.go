package repository

import (
	"context"

	"github.com/tradebridge/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	CreateSellerProfile(ctx context.Context, p *model.SellerProfile) error
	FindSellerProfile(ctx context.Context, userID uint64) (*model.SellerProfile, error)
	UpdateSellerProfile(ctx context.Context, p *model.SellerProfile) error
	CreateBuyerProfile(ctx context.Context, p *model.BuyerProfile) error
	FindBuyerProfile(ctx context.Context, userID uint64) (*model.BuyerProfile, error)

	CreateRefreshToken(ctx context.Context, t *model.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) CreateSellerProfile(ctx context.Context, p *model.SellerProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *userRepository) FindSellerProfile(ctx context.Context, userID uint64) (*model.SellerProfile, error) {
	var p model.SellerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userRepository) UpdateSellerProfile(ctx context.Context, p *model.SellerProfile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *userRepository) CreateBuyerProfile(ctx context.Context, p *model.BuyerProfile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *userRepository) FindBuyerProfile(ctx context.Context, userID uint64) (*model.BuyerProfile, error) {
	var p model.BuyerProfile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *userRepository) CreateRefreshToken(ctx context.Context, t *model.RefreshToken) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *userRepository) FindRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	var t model.RefreshToken
	if err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *userRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).
		Model(&model.RefreshToken{}).
		Where("token = ?", token).
		Update("revoked", true).Error
}
