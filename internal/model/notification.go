package model

import "time"

const (
	NotificationTypeListingApproved = "listing_approved"
	NotificationTypeListingRejected = "listing_rejected"
	NotificationTypeRFQForwarded    = "rfq_forwarded"
	NotificationTypeTradeCreated    = "trade_created"
	NotificationTypeChatMessage     = "chat_message"
)

type Notification struct {
	ID        uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint64     `gorm:"column:user_id;index;not null" json:"userId"`
	Type      string     `gorm:"size:64;not null" json:"type"`
	Title     string     `gorm:"size:255" json:"title"`
	Body      string     `gorm:"type:text" json:"body"`
	ProductID *uint64    `gorm:"column:product_id;index" json:"productId,omitempty"`
	RFQID     *uint64    `gorm:"column:rfq_id;index" json:"rfqId,omitempty"`
	RoomID    *uint64    `gorm:"column:room_id;index" json:"roomId,omitempty"`
	ReadAt    *time.Time `gorm:"column:read_at" json:"readAt,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

func (Notification) TableName() string {
	return "notifications"
}
