package repository

import (
	"context"

	"github.com/tradebridge/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uint64) (*model.Product, error)
	ListByCategory(ctx context.Context, categorySlug string, status model.ProductStatus, limit, offset int) ([]model.Product, int64, error)
	ListByStatus(ctx context.Context, status model.ProductStatus, limit, offset int) ([]model.Product, int64, error)
	ListBySeller(ctx context.Context, sellerID uint64) ([]model.Product, error)
	// TransitionStatus applies a moderation transition guarded by the
	// optimistic version token. Returns the number of rows updated; zero
	// means the row moved underneath the caller.
	TransitionStatus(ctx context.Context, id, version uint64, status model.ProductStatus, reason string) (int64, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uint64) (*model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) ListByCategory(ctx context.Context, categorySlug string, status model.ProductStatus, limit, offset int) ([]model.Product, int64, error) {
	var (
		products []model.Product
		total    int64
	)
	q := r.db.WithContext(ctx).Model(&model.Product{}).Where("status = ?", status)
	if categorySlug != "" {
		q = q.Where("category_slug = ?", categorySlug)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) ListByStatus(ctx context.Context, status model.ProductStatus, limit, offset int) ([]model.Product, int64, error) {
	var (
		products []model.Product
		total    int64
	)
	q := r.db.WithContext(ctx).Model(&model.Product{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&products).Error; err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) ListBySeller(ctx context.Context, sellerID uint64) ([]model.Product, error) {
	var products []model.Product
	if err := r.db.WithContext(ctx).
		Where("seller_id = ?", sellerID).
		Order("id DESC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) TransitionStatus(ctx context.Context, id, version uint64, status model.ProductStatus, reason string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND version = ? AND status = ?", id, version, model.ProductStatusPending).
		Updates(map[string]interface{}{
			"status":           status,
			"rejection_reason": reason,
			"version":          version + 1,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
