package model

import "time"

type Review struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID   uint64    `gorm:"column:buyer_id;uniqueIndex:uk_reviews_buyer_product;not null" json:"buyerId"`
	ProductID uint64    `gorm:"column:product_id;uniqueIndex:uk_reviews_buyer_product;index;not null" json:"productId"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Review) TableName() string {
	return "reviews"
}
