package model

import "time"

type ChatRoomType string

const (
	ChatRoomTypeBuyer  ChatRoomType = "BUYER"
	ChatRoomTypeSeller ChatRoomType = "SELLER"
)

func ParseChatRoomType(s string) (ChatRoomType, bool) {
	switch ChatRoomType(s) {
	case ChatRoomTypeBuyer, ChatRoomTypeSeller:
		return ChatRoomType(s), true
	}
	return "", false
}

type ChatRoomStatus string

const (
	ChatRoomStatusActive ChatRoomStatus = "ACTIVE"
	ChatRoomStatusClosed ChatRoomStatus = "CLOSED"
)

// ChatRoom scopes a conversation to an RFQ. The type discriminator selects
// the non-admin party: a BUYER room pairs the admin with the RFQ's buyer, a
// SELLER room with the product's seller. The (rfq_id, type) unique index
// collapses concurrent creates into one row.
type ChatRoom struct {
	ID            uint64         `gorm:"primaryKey;autoIncrement" json:"id"`
	RFQID         uint64         `gorm:"column:rfq_id;uniqueIndex:uk_rooms_rfq_type;not null" json:"rfqId"`
	Type          ChatRoomType   `gorm:"size:16;uniqueIndex:uk_rooms_rfq_type;not null" json:"type"`
	AdminID       uint64         `gorm:"column:admin_id;index;not null" json:"adminId"`
	CounterpartID uint64         `gorm:"column:counterpart_id;index;not null" json:"counterpartId"`
	Status        ChatRoomStatus `gorm:"size:16;not null" json:"status"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ChatRoom) TableName() string {
	return "chat_rooms"
}

// IsParticipant reports whether a principal may read or write in the room.
func (r *ChatRoom) IsParticipant(userID uint64, role Role) bool {
	if role == RoleAdmin {
		return true
	}
	return r.CounterpartID == userID
}

type AttachmentType string

const (
	AttachmentTypeImage AttachmentType = "image"
	AttachmentTypeFile  AttachmentType = "file"
)

type ChatMessage struct {
	ID             uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	RoomID         uint64          `gorm:"column:room_id;index;not null" json:"roomId"`
	SenderID       uint64          `gorm:"column:sender_id;index;not null" json:"senderId"`
	SenderRole     Role            `gorm:"column:sender_role;size:16;not null" json:"senderRole"`
	Content        *string         `gorm:"type:text" json:"-"`
	AttachmentType *AttachmentType `gorm:"column:attachment_type;size:16" json:"attachmentType,omitempty"`
	AttachmentURL  *string         `gorm:"column:attachment_url;size:512" json:"attachmentUrl,omitempty"`
	Read           bool            `gorm:"not null;default:false" json:"read"`
	Edited         bool            `gorm:"not null;default:false" json:"edited"`
	Deleted        bool            `gorm:"not null;default:false" json:"deleted"`
	Pinned         bool            `gorm:"not null;default:false" json:"pinned"`
	Starred        bool            `gorm:"not null;default:false" json:"starred"`
	Version        uint64          `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time       `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime" json:"updatedAt"`

	Reactions []MessageReaction `gorm:"foreignKey:MessageID" json:"reactions,omitempty"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

const deletedPlaceholder = "This message was deleted"

// DisplayContent is the single place that decides what a consumer may see.
// Deleted messages keep their content in storage for audit but always render
// as a placeholder.
func (m *ChatMessage) DisplayContent() string {
	if m.Deleted {
		return deletedPlaceholder
	}
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// CanEdit gates edits to the original sender of a live text message.
func (m *ChatMessage) CanEdit(userID uint64) bool {
	return !m.Deleted && m.SenderID == userID && m.Content != nil
}

type MessageReaction struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID   uint64    `gorm:"column:message_id;uniqueIndex:uk_reactions_msg_user;not null" json:"messageId"`
	ReactorID   uint64    `gorm:"column:reactor_id;uniqueIndex:uk_reactions_msg_user;not null" json:"reactorId"`
	ReactorRole Role      `gorm:"column:reactor_role;size:16;not null" json:"reactorRole"`
	Emoji       string    `gorm:"size:16;not null" json:"emoji"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (MessageReaction) TableName() string {
	return "message_reactions"
}
