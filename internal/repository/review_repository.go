package repository

import (
	"context"
	"errors"

	"github.com/tradebridge/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ListByProduct(ctx context.Context, productID uint64, limit, offset int) ([]model.Review, int64, error)
	ExistsForBuyer(ctx context.Context, buyerID, productID uint64) (bool, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uint64, limit, offset int) ([]model.Review, int64, error) {
	var (
		reviews []model.Review
		total   int64
	)
	q := r.db.WithContext(ctx).Model(&model.Review{}).Where("product_id = ?", productID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&reviews).Error; err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *reviewRepository) ExistsForBuyer(ctx context.Context, buyerID, productID uint64) (bool, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Where("buyer_id = ? AND product_id = ?", buyerID, productID).
		First(&review).Error
	if err == nil {
		return true, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	return false, err
}
