package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tradebridge/marketplace-backend/internal/apperr"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"github.com/tradebridge/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

type NewRFQ struct {
	ProductID     uint64
	Quantity      int64
	PaymentTerms  []model.PaymentTerm
	DeliveryTerms string
}

// RFQWithProduct pairs an RFQ with its product for list views.
type RFQWithProduct struct {
	RFQ     model.RFQ      `json:"rfq"`
	Product *model.Product `json:"product,omitempty"`
}

type RFQService interface {
	Create(ctx context.Context, buyerID uint64, req NewRFQ) (*model.RFQ, error)
	Get(ctx context.Context, id uint64) (*model.RFQ, error)
	ListByBuyer(ctx context.Context, buyerID uint64) ([]RFQWithProduct, error)
	ListForwarded(ctx context.Context, limit, offset int) ([]RFQWithProduct, int64, error)
	// Forward routes a pending RFQ to the seller side: the RFQ moves to
	// FORWARDED and the SELLER chat room is created idempotently.
	Forward(ctx context.Context, rfqID, adminID uint64) (*model.RFQ, *model.ChatRoom, error)
	ConvertToTrade(ctx context.Context, rfqID uint64, price int64, deliveryDate *time.Time) (*model.Trade, error)
}

type rfqService struct {
	rfqs          repository.RFQRepository
	products      repository.ProductRepository
	chats         repository.ChatRepository
	notifications NotificationService
}

func NewRFQService(rfqs repository.RFQRepository, products repository.ProductRepository, chats repository.ChatRepository, notifications NotificationService) RFQService {
	return &rfqService{rfqs: rfqs, products: products, chats: chats, notifications: notifications}
}

func validatePaymentTerms(terms []model.PaymentTerm) error {
	var sum float64
	for _, leg := range terms {
		if leg.Percent <= 0 || leg.Percent > 100 {
			return apperr.Validation(fmt.Sprintf("payment leg %q must be between 0 and 100 percent", leg.Stage))
		}
		sum += leg.Percent
	}
	if sum > 100 {
		return apperr.Validation("payment term percentages exceed 100")
	}
	return nil
}

func (s *rfqService) Create(ctx context.Context, buyerID uint64, req NewRFQ) (*model.RFQ, error) {
	if req.Quantity <= 0 {
		return nil, apperr.Validation("quantity must be positive")
	}
	if err := validatePaymentTerms(req.PaymentTerms); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product")
		}
		return nil, err
	}
	if product.Status != model.ProductStatusActive {
		return nil, apperr.Validation("product is not available for quotation")
	}
	// Insufficient availability is an error, never a silent clamp.
	if req.Quantity > product.Quantity {
		return nil, apperr.Validation(fmt.Sprintf("requested quantity %d exceeds available %d", req.Quantity, product.Quantity))
	}

	termsJSON, err := json.Marshal(req.PaymentTerms)
	if err != nil {
		return nil, apperr.Internal("failed to encode payment terms", err)
	}
	rfq := &model.RFQ{
		BuyerID:       buyerID,
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		PaymentTerms:  string(termsJSON),
		DeliveryTerms: req.DeliveryTerms,
		Status:        model.RFQStatusPending,
	}
	if err := s.rfqs.Create(ctx, rfq); err != nil {
		return nil, err
	}
	return rfq, nil
}

func (s *rfqService) Get(ctx context.Context, id uint64) (*model.RFQ, error) {
	rfq, err := s.rfqs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("rfq")
		}
		return nil, err
	}
	return rfq, nil
}

func (s *rfqService) ListByBuyer(ctx context.Context, buyerID uint64) ([]RFQWithProduct, error) {
	rfqs, err := s.rfqs.ListByBuyer(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	resp := make([]RFQWithProduct, 0, len(rfqs))
	for _, rfq := range rfqs {
		product, _ := s.products.FindByID(ctx, rfq.ProductID)
		resp = append(resp, RFQWithProduct{RFQ: rfq, Product: product})
	}
	return resp, nil
}

func (s *rfqService) ListForwarded(ctx context.Context, limit, offset int) ([]RFQWithProduct, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	rfqs, total, err := s.rfqs.ListByStatus(ctx, model.RFQStatusForwarded, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	resp := make([]RFQWithProduct, 0, len(rfqs))
	for _, rfq := range rfqs {
		product, _ := s.products.FindByID(ctx, rfq.ProductID)
		resp = append(resp, RFQWithProduct{RFQ: rfq, Product: product})
	}
	return resp, total, nil
}

func (s *rfqService) Forward(ctx context.Context, rfqID, adminID uint64) (*model.RFQ, *model.ChatRoom, error) {
	rfq, err := s.Get(ctx, rfqID)
	if err != nil {
		return nil, nil, err
	}
	product, err := s.products.FindByID(ctx, rfq.ProductID)
	if err != nil {
		return nil, nil, err
	}

	switch rfq.Status {
	case model.RFQStatusPending:
		rows, err := s.rfqs.UpdateStatusIf(ctx, rfq.ID, model.RFQStatusPending, model.RFQStatusForwarded)
		if err != nil {
			return nil, nil, err
		}
		if rows == 0 {
			// Lost a race with another admin; the room lookup below still
			// returns the single existing room.
			break
		}
		rfq.Status = model.RFQStatusForwarded
	case model.RFQStatusForwarded:
		// Re-forwarding is idempotent.
	default:
		return nil, nil, apperr.Conflict("rfq can no longer be forwarded")
	}

	room, err := s.chats.FindOrCreateRoom(ctx, &model.ChatRoom{
		RFQID:         rfq.ID,
		Type:          model.ChatRoomTypeSeller,
		AdminID:       adminID,
		CounterpartID: product.SellerID,
		Status:        model.ChatRoomStatusActive,
	})
	if err != nil {
		return nil, nil, err
	}

	rid := rfq.ID
	roomID := room.ID
	s.notifications.Notify(ctx, product.SellerID, model.NotificationTypeRFQForwarded,
		"New quotation request", fmt.Sprintf("An RFQ for %s was forwarded to you.", product.Name), nil, &rid, &roomID)
	return rfq, room, nil
}

func (s *rfqService) ConvertToTrade(ctx context.Context, rfqID uint64, price int64, deliveryDate *time.Time) (*model.Trade, error) {
	if price <= 0 {
		return nil, apperr.Validation("price must be positive")
	}
	rfq, err := s.Get(ctx, rfqID)
	if err != nil {
		return nil, err
	}
	if rfq.Status != model.RFQStatusForwarded {
		return nil, apperr.Conflict("rfq must be forwarded before conversion")
	}
	product, err := s.products.FindByID(ctx, rfq.ProductID)
	if err != nil {
		return nil, err
	}

	trade := &model.Trade{
		RFQID:        rfq.ID,
		BuyerID:      rfq.BuyerID,
		SellerID:     product.SellerID,
		ProductID:    product.ID,
		Quantity:     rfq.Quantity,
		Price:        price,
		DeliveryDate: deliveryDate,
		Status:       model.TradeStatusInProgress,
	}
	if err := s.rfqs.CreateTrade(ctx, trade); err != nil {
		if errors.Is(err, repository.ErrTradeExists) {
			return nil, apperr.Conflict("rfq has already been converted to a trade")
		}
		return nil, err
	}

	rid := rfq.ID
	s.notifications.Notify(ctx, rfq.BuyerID, model.NotificationTypeTradeCreated,
		"Trade confirmed", fmt.Sprintf("Your RFQ for %s was converted to a trade.", product.Name), nil, &rid, nil)
	s.notifications.Notify(ctx, product.SellerID, model.NotificationTypeTradeCreated,
		"Trade confirmed", fmt.Sprintf("The RFQ for %s was converted to a trade.", product.Name), nil, &rid, nil)
	return trade, nil
}
