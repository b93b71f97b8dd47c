package model

import "time"

type RFQStatus string

const (
	RFQStatusPending   RFQStatus = "PENDING"
	RFQStatusForwarded RFQStatus = "FORWARDED"
	RFQStatusCompleted RFQStatus = "COMPLETED"
	RFQStatusRejected  RFQStatus = "REJECTED"
)

// PaymentTerm is one leg of an RFQ's payment breakdown, e.g. 30% advance,
// 70% on delivery. Legs are stored as a JSON column on the RFQ row.
type PaymentTerm struct {
	Stage   string  `json:"stage"`
	Percent float64 `json:"percent"`
}

type RFQ struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID       uint64    `gorm:"column:buyer_id;index;not null" json:"buyerId"`
	ProductID     uint64    `gorm:"column:product_id;index;not null" json:"productId"`
	Quantity      int64     `gorm:"not null" json:"quantity"`
	PaymentTerms  string    `gorm:"column:payment_terms;type:json" json:"-"`
	DeliveryTerms string    `gorm:"column:delivery_terms;size:512" json:"deliveryTerms"`
	Status        RFQStatus `gorm:"size:16;not null;index" json:"status"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (RFQ) TableName() string {
	return "rfqs"
}

type TradeStatus string

const (
	TradeStatusInProgress TradeStatus = "IN_PROGRESS"
	TradeStatusCompleted  TradeStatus = "COMPLETED"
	TradeStatusCanceled   TradeStatus = "CANCELED"
)

// Trade is the materialized agreement for an accepted RFQ. The unique index
// on rfq_id is what makes the 1:1 relationship an invariant instead of a
// convention.
type Trade struct {
	ID           uint64      `gorm:"primaryKey;autoIncrement" json:"id"`
	RFQID        uint64      `gorm:"column:rfq_id;uniqueIndex;not null" json:"rfqId"`
	BuyerID      uint64      `gorm:"column:buyer_id;index;not null" json:"buyerId"`
	SellerID     uint64      `gorm:"column:seller_id;index;not null" json:"sellerId"`
	ProductID    uint64      `gorm:"column:product_id;index;not null" json:"productId"`
	Quantity     int64       `gorm:"not null" json:"quantity"`
	Price        int64       `gorm:"not null" json:"price"`
	DeliveryDate *time.Time  `gorm:"column:delivery_date" json:"deliveryDate,omitempty"`
	Status       TradeStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt    time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Trade) TableName() string {
	return "trades"
}
