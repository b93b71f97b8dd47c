package service

import (
	"context"
	"strings"

	"github.com/tradebridge/marketplace-backend/internal/apperr"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"github.com/tradebridge/marketplace-backend/internal/repository"
)

type ReviewService interface {
	Create(ctx context.Context, buyerID, productID uint64, rating int, comment string) (*model.Review, error)
	ListByProduct(ctx context.Context, productID uint64, limit, offset int) ([]model.Review, int64, error)
}

type reviewService struct {
	reviews  repository.ReviewRepository
	products repository.ProductRepository
}

func NewReviewService(reviews repository.ReviewRepository, products repository.ProductRepository) ReviewService {
	return &reviewService{reviews: reviews, products: products}
}

func (s *reviewService) Create(ctx context.Context, buyerID, productID uint64, rating int, comment string) (*model.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, apperr.Validation("rating must be between 1 and 5")
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, apperr.NotFound("product")
	}
	if product.Status != model.ProductStatusActive {
		return nil, apperr.Validation("product is not active")
	}
	exists, err := s.reviews.ExistsForBuyer(ctx, buyerID, productID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflict("you have already reviewed this product")
	}
	review := &model.Review{
		BuyerID:   buyerID,
		ProductID: productID,
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListByProduct(ctx context.Context, productID uint64, limit, offset int) ([]model.Review, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.reviews.ListByProduct(ctx, productID, limit, offset)
}
