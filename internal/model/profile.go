package model

import "time"

type SellerProfile struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       uint64    `gorm:"column:user_id;uniqueIndex;not null" json:"userId"`
	BusinessName string    `gorm:"column:business_name;size:255;not null" json:"businessName"`
	BusinessType string    `gorm:"column:business_type;size:64" json:"businessType"`
	TaxID        string    `gorm:"column:tax_id;size:64" json:"taxId"`
	Address      string    `gorm:"size:512" json:"address"`
	Verified     bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (SellerProfile) TableName() string {
	return "seller_profiles"
}

type BuyerProfile struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          uint64    `gorm:"column:user_id;uniqueIndex;not null" json:"userId"`
	ShippingAddress string    `gorm:"column:shipping_address;size:512" json:"shippingAddress"`
	City            string    `gorm:"size:120" json:"city"`
	Country         string    `gorm:"size:120" json:"country"`
	PostalCode      string    `gorm:"column:postal_code;size:32" json:"postalCode"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (BuyerProfile) TableName() string {
	return "buyer_profiles"
}
