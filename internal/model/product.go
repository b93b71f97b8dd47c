package model

import "time"

type ProductStatus string

const (
	ProductStatusPending  ProductStatus = "PENDING"
	ProductStatusActive   ProductStatus = "ACTIVE"
	ProductStatusRejected ProductStatus = "REJECTED"
)

type Product struct {
	ID              uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID        uint64        `gorm:"column:seller_id;index;not null" json:"sellerId"`
	Name            string        `gorm:"size:255;not null" json:"name"`
	CategorySlug    string        `gorm:"column:category_slug;size:64;index;not null" json:"categorySlug"`
	Description     string        `gorm:"type:text;not null" json:"description"`
	Price           int64         `gorm:"not null" json:"price"`
	Quantity        int64         `gorm:"not null" json:"quantity"`
	HSNCode         string        `gorm:"column:hsn_code;size:16" json:"hsnCode"`
	CountryOfSource string        `gorm:"column:country_of_source;size:120" json:"countryOfSource"`
	Specifications  string        `gorm:"type:text" json:"specifications"`
	ImageURL        *string       `gorm:"column:image_url;size:512" json:"imageUrl"`
	Status          ProductStatus `gorm:"size:16;not null;index" json:"status"`
	RejectionReason string        `gorm:"column:rejection_reason;size:512" json:"rejectionReason,omitempty"`
	Version         uint64        `gorm:"not null;default:0" json:"-"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}

// CanTransitionTo encodes the one-way review cycle: a listing leaves PENDING
// exactly once, to ACTIVE or REJECTED, and never moves between the two
// terminal states.
func (p *Product) CanTransitionTo(next ProductStatus) bool {
	if p.Status != ProductStatusPending {
		return false
	}
	return next == ProductStatusActive || next == ProductStatusRejected
}
