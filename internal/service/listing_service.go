package service

import (
	"context"
	"errors"
	"strings"

	"github.com/tradebridge/marketplace-backend/internal/apperr"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"github.com/tradebridge/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

type NewListing struct {
	Name            string
	CategorySlug    string
	Description     string
	Price           int64
	Quantity        int64
	HSNCode         string
	CountryOfSource string
	Specifications  string
	ImageURL        *string
}

// ListingSummary is the admin moderation view: the product joined with its
// seller's business name and how many RFQs reference it.
type ListingSummary struct {
	Product      model.Product `json:"product"`
	BusinessName string        `json:"businessName"`
	RFQCount     int64         `json:"rfqCount"`
}

type ListingService interface {
	Submit(ctx context.Context, sellerID uint64, listing NewListing) (*model.Product, error)
	Get(ctx context.Context, id uint64) (*model.Product, error)
	Browse(ctx context.Context, categorySlug string, limit, offset int) ([]model.Product, int64, error)
	ListForModeration(ctx context.Context, status model.ProductStatus, limit, offset int) ([]ListingSummary, int64, error)
	Approve(ctx context.Context, id uint64) (*model.Product, error)
	Reject(ctx context.Context, id uint64, reason string) (*model.Product, error)
}

type listingService struct {
	products      repository.ProductRepository
	rfqs          repository.RFQRepository
	users         repository.UserRepository
	notifications NotificationService
}

func NewListingService(products repository.ProductRepository, rfqs repository.RFQRepository, users repository.UserRepository, notifications NotificationService) ListingService {
	return &listingService{products: products, rfqs: rfqs, users: users, notifications: notifications}
}

func (s *listingService) Submit(ctx context.Context, sellerID uint64, listing NewListing) (*model.Product, error) {
	name := strings.TrimSpace(listing.Name)
	if name == "" || len(name) > 255 {
		return nil, apperr.Validation("invalid product name")
	}
	if strings.TrimSpace(listing.Description) == "" {
		return nil, apperr.Validation("description is required")
	}
	if strings.TrimSpace(listing.CategorySlug) == "" {
		return nil, apperr.Validation("category is required")
	}
	if listing.Price <= 0 {
		return nil, apperr.Validation("price must be positive")
	}
	if listing.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}

	p := &model.Product{
		SellerID:        sellerID,
		Name:            name,
		CategorySlug:    strings.TrimSpace(listing.CategorySlug),
		Description:     strings.TrimSpace(listing.Description),
		Price:           listing.Price,
		Quantity:        listing.Quantity,
		HSNCode:         strings.TrimSpace(listing.HSNCode),
		CountryOfSource: strings.TrimSpace(listing.CountryOfSource),
		Specifications:  listing.Specifications,
		ImageURL:        listing.ImageURL,
		Status:          model.ProductStatusPending,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *listingService) Get(ctx context.Context, id uint64) (*model.Product, error) {
	p, err := s.products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product")
		}
		return nil, err
	}
	return p, nil
}

func (s *listingService) Browse(ctx context.Context, categorySlug string, limit, offset int) ([]model.Product, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.products.ListByCategory(ctx, strings.TrimSpace(categorySlug), model.ProductStatusActive, limit, offset)
}

func (s *listingService) ListForModeration(ctx context.Context, status model.ProductStatus, limit, offset int) ([]ListingSummary, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	products, total, err := s.products.ListByStatus(ctx, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	summaries := make([]ListingSummary, 0, len(products))
	for _, p := range products {
		summary := ListingSummary{Product: p}
		if profile, err := s.users.FindSellerProfile(ctx, p.SellerID); err == nil {
			summary.BusinessName = profile.BusinessName
		}
		if cnt, err := s.rfqs.CountByProduct(ctx, p.ID); err == nil {
			summary.RFQCount = cnt
		}
		summaries = append(summaries, summary)
	}
	return summaries, total, nil
}

func (s *listingService) transition(ctx context.Context, id uint64, next model.ProductStatus, reason string) (*model.Product, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanTransitionTo(next) {
		return nil, apperr.Conflict("listing is not pending review")
	}
	rows, err := s.products.TransitionStatus(ctx, p.ID, p.Version, next, reason)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		// Another admin won the race between our read and write.
		return nil, apperr.Conflict("listing was updated concurrently")
	}
	return s.Get(ctx, id)
}

func (s *listingService) Approve(ctx context.Context, id uint64) (*model.Product, error) {
	p, err := s.transition(ctx, id, model.ProductStatusActive, "")
	if err != nil {
		return nil, err
	}
	pid := p.ID
	s.notifications.Notify(ctx, p.SellerID, model.NotificationTypeListingApproved,
		"Listing approved", "Your listing "+p.Name+" is now live.", &pid, nil, nil)
	return p, nil
}

func (s *listingService) Reject(ctx context.Context, id uint64, reason string) (*model.Product, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, apperr.Validation("a rejection reason is required")
	}
	p, err := s.transition(ctx, id, model.ProductStatusRejected, reason)
	if err != nil {
		return nil, err
	}
	pid := p.ID
	s.notifications.Notify(ctx, p.SellerID, model.NotificationTypeListingRejected,
		"Listing rejected", reason, &pid, nil, nil)
	return p, nil
}
