package repository

import (
	"context"
	"errors"

	"github.com/tradebridge/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

var ErrTradeExists = errors.New("trade already exists for rfq")

type RFQRepository interface {
	Create(ctx context.Context, rfq *model.RFQ) error
	FindByID(ctx context.Context, id uint64) (*model.RFQ, error)
	ListByBuyer(ctx context.Context, buyerID uint64) ([]model.RFQ, error)
	ListByStatus(ctx context.Context, status model.RFQStatus, limit, offset int) ([]model.RFQ, int64, error)
	CountByProduct(ctx context.Context, productID uint64) (int64, error)
	// UpdateStatusIf moves the RFQ from one status to another; zero rows
	// affected means it was not in the expected state.
	UpdateStatusIf(ctx context.Context, id uint64, from, to model.RFQStatus) (int64, error)

	// CreateTrade inserts the trade and completes the RFQ in one
	// transaction. A pre-existing trade for the RFQ aborts with
	// ErrTradeExists; the unique index on rfq_id backstops races.
	CreateTrade(ctx context.Context, trade *model.Trade) error
	FindTradeByRFQ(ctx context.Context, rfqID uint64) (*model.Trade, error)
}

type rfqRepository struct {
	db *gorm.DB
}

func NewRFQRepository(db *gorm.DB) RFQRepository {
	return &rfqRepository{db: db}
}

func (r *rfqRepository) Create(ctx context.Context, rfq *model.RFQ) error {
	return r.db.WithContext(ctx).Create(rfq).Error
}

func (r *rfqRepository) FindByID(ctx context.Context, id uint64) (*model.RFQ, error) {
	var rfq model.RFQ
	if err := r.db.WithContext(ctx).First(&rfq, id).Error; err != nil {
		return nil, err
	}
	return &rfq, nil
}

func (r *rfqRepository) ListByBuyer(ctx context.Context, buyerID uint64) ([]model.RFQ, error) {
	var list []model.RFQ
	if err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("id DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *rfqRepository) ListByStatus(ctx context.Context, status model.RFQStatus, limit, offset int) ([]model.RFQ, int64, error) {
	var (
		list  []model.RFQ
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.RFQ{}).Where("status = ?", status)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *rfqRepository) CountByProduct(ctx context.Context, productID uint64) (int64, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.RFQ{}).
		Where("product_id = ?", productID).
		Count(&cnt).Error; err != nil {
		return 0, err
	}
	return cnt, nil
}

func (r *rfqRepository) UpdateStatusIf(ctx context.Context, id uint64, from, to model.RFQStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.RFQ{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *rfqRepository) CreateTrade(ctx context.Context, trade *model.Trade) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Trade
		err := tx.Where("rfq_id = ?", trade.RFQID).First(&existing).Error
		if err == nil {
			return ErrTradeExists
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := tx.Create(trade).Error; err != nil {
			return err
		}
		res := tx.Model(&model.RFQ{}).
			Where("id = ? AND status = ?", trade.RFQID, model.RFQStatusForwarded).
			Update("status", model.RFQStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTradeExists
		}
		return nil
	})
}

func (r *rfqRepository) FindTradeByRFQ(ctx context.Context, rfqID uint64) (*model.Trade, error) {
	var t model.Trade
	if err := r.db.WithContext(ctx).Where("rfq_id = ?", rfqID).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}
