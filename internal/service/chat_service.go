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

// Principal is the authenticated caller, resolved once at the HTTP boundary
// and passed explicitly through every operation.
type Principal struct {
	UserID uint64
	Role   model.Role
}

type SendMessageInput struct {
	RoomID         uint64
	Content        *string
	AttachmentType *model.AttachmentType
	AttachmentURL  *string
}

// MessageView is the API shape of a message: the render decision for deleted
// content is applied here, in one place, so storage keeps the original while
// every consumer sees the placeholder.
type MessageView struct {
	ID             uint64                  `json:"id"`
	RoomID         uint64                  `json:"roomId"`
	SenderID       uint64                  `json:"senderId"`
	SenderRole     model.Role              `json:"senderRole"`
	Content        string                  `json:"content"`
	AttachmentType *model.AttachmentType   `json:"attachmentType,omitempty"`
	AttachmentURL  *string                 `json:"attachmentUrl,omitempty"`
	Read           bool                    `json:"read"`
	Edited         bool                    `json:"edited"`
	Deleted        bool                    `json:"deleted"`
	Pinned         bool                    `json:"pinned"`
	Reactions      []model.MessageReaction `json:"reactions"`
	CreatedAt      string                  `json:"createdAt"`
}

type ChatService interface {
	CreateRoom(ctx context.Context, admin Principal, rfqID uint64, roomType model.ChatRoomType) (*model.ChatRoom, error)
	ListRooms(ctx context.Context, caller Principal) ([]model.ChatRoom, error)
	ListMessages(ctx context.Context, caller Principal, roomID uint64) ([]MessageView, error)
	Send(ctx context.Context, caller Principal, in SendMessageInput) (*MessageView, error)
	Edit(ctx context.Context, caller Principal, messageID uint64, content string) (*MessageView, error)
	Delete(ctx context.Context, caller Principal, messageID uint64) error
	Pin(ctx context.Context, caller Principal, messageID uint64, pinned bool) (*MessageView, error)
	React(ctx context.Context, caller Principal, messageID uint64, emoji string) (*MessageView, error)
	MarkRead(ctx context.Context, caller Principal, roomID uint64, messageIDs []uint64) error
}

type chatService struct {
	chats         repository.ChatRepository
	rfqs          repository.RFQRepository
	products      repository.ProductRepository
	notifications NotificationService
}

func NewChatService(chats repository.ChatRepository, rfqs repository.RFQRepository, products repository.ProductRepository, notifications NotificationService) ChatService {
	return &chatService{chats: chats, rfqs: rfqs, products: products, notifications: notifications}
}

func toMessageView(m *model.ChatMessage) *MessageView {
	v := &MessageView{
		ID:         m.ID,
		RoomID:     m.RoomID,
		SenderID:   m.SenderID,
		SenderRole: m.SenderRole,
		Content:    m.DisplayContent(),
		Read:       m.Read,
		Edited:     m.Edited,
		Deleted:    m.Deleted,
		Pinned:     m.Pinned,
		Reactions:  m.Reactions,
		CreatedAt:  m.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
	if v.Reactions == nil {
		v.Reactions = []model.MessageReaction{}
	}
	if !m.Deleted {
		v.AttachmentType = m.AttachmentType
		v.AttachmentURL = m.AttachmentURL
	}
	return v
}

func (s *chatService) CreateRoom(ctx context.Context, admin Principal, rfqID uint64, roomType model.ChatRoomType) (*model.ChatRoom, error) {
	rfq, err := s.rfqs.FindByID(ctx, rfqID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("rfq")
		}
		return nil, err
	}

	var counterpart uint64
	switch roomType {
	case model.ChatRoomTypeBuyer:
		counterpart = rfq.BuyerID
	case model.ChatRoomTypeSeller:
		product, err := s.products.FindByID(ctx, rfq.ProductID)
		if err != nil {
			return nil, err
		}
		counterpart = product.SellerID
	default:
		return nil, apperr.Validation("invalid chat room type")
	}

	return s.chats.FindOrCreateRoom(ctx, &model.ChatRoom{
		RFQID:         rfqID,
		Type:          roomType,
		AdminID:       admin.UserID,
		CounterpartID: counterpart,
		Status:        model.ChatRoomStatusActive,
	})
}

func (s *chatService) ListRooms(ctx context.Context, caller Principal) ([]model.ChatRoom, error) {
	if caller.Role == model.RoleAdmin {
		return s.chats.ListRooms(ctx)
	}
	return s.chats.ListRoomsByCounterpart(ctx, caller.UserID)
}

func (s *chatService) roomForParticipant(ctx context.Context, caller Principal, roomID uint64) (*model.ChatRoom, error) {
	room, err := s.chats.FindRoomByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("chat room")
		}
		return nil, err
	}
	if !room.IsParticipant(caller.UserID, caller.Role) {
		return nil, apperr.Forbidden("not a participant of this chat room")
	}
	return room, nil
}

func (s *chatService) ListMessages(ctx context.Context, caller Principal, roomID uint64) ([]MessageView, error) {
	if _, err := s.roomForParticipant(ctx, caller, roomID); err != nil {
		return nil, err
	}
	msgs, err := s.chats.ListMessages(ctx, roomID)
	if err != nil {
		return nil, err
	}
	views := make([]MessageView, 0, len(msgs))
	for i := range msgs {
		views = append(views, *toMessageView(&msgs[i]))
	}
	return views, nil
}

func (s *chatService) Send(ctx context.Context, caller Principal, in SendMessageInput) (*MessageView, error) {
	hasContent := in.Content != nil && strings.TrimSpace(*in.Content) != ""
	hasAttachment := in.AttachmentType != nil && in.AttachmentURL != nil && *in.AttachmentURL != ""
	if !hasContent && !hasAttachment {
		return nil, apperr.Validation("message needs content or an attachment")
	}

	room, err := s.roomForParticipant(ctx, caller, in.RoomID)
	if err != nil {
		return nil, err
	}
	if room.Status != model.ChatRoomStatusActive {
		return nil, apperr.Conflict("chat room is closed")
	}

	msg := &model.ChatMessage{
		RoomID:     room.ID,
		SenderID:   caller.UserID,
		SenderRole: caller.Role,
	}
	if hasContent {
		trimmed := strings.TrimSpace(*in.Content)
		msg.Content = &trimmed
	}
	if hasAttachment {
		msg.AttachmentType = in.AttachmentType
		msg.AttachmentURL = in.AttachmentURL
	}
	if err := s.chats.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}

	// The other party gets a best-effort heads-up.
	recipient := room.CounterpartID
	if caller.UserID == room.CounterpartID {
		recipient = room.AdminID
	}
	roomID := room.ID
	s.notifications.Notify(ctx, recipient, model.NotificationTypeChatMessage,
		"New message", msg.DisplayContent(), nil, nil, &roomID)

	return toMessageView(msg), nil
}

func (s *chatService) messageForParticipant(ctx context.Context, caller Principal, messageID uint64) (*model.ChatMessage, *model.ChatRoom, error) {
	msg, err := s.chats.FindMessageByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.NotFound("message")
		}
		return nil, nil, err
	}
	room, err := s.roomForParticipant(ctx, caller, msg.RoomID)
	if err != nil {
		return nil, nil, err
	}
	return msg, room, nil
}

func (s *chatService) Edit(ctx context.Context, caller Principal, messageID uint64, content string) (*MessageView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("message content cannot be empty")
	}
	msg, _, err := s.messageForParticipant(ctx, caller, messageID)
	if err != nil {
		return nil, err
	}
	if !msg.CanEdit(caller.UserID) {
		return nil, apperr.Forbidden("only the sender may edit this message")
	}
	rows, err := s.chats.UpdateContentIf(ctx, msg.ID, msg.Version, content)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, apperr.Conflict("message was updated concurrently")
	}
	updated, err := s.chats.FindMessageByID(ctx, msg.ID)
	if err != nil {
		return nil, err
	}
	return toMessageView(updated), nil
}

func (s *chatService) Delete(ctx context.Context, caller Principal, messageID uint64) error {
	msg, _, err := s.messageForParticipant(ctx, caller, messageID)
	if err != nil {
		return err
	}
	if msg.SenderID != caller.UserID && caller.Role != model.RoleAdmin {
		return apperr.Forbidden("only the sender may delete this message")
	}
	if msg.Deleted {
		return nil
	}
	return s.chats.SoftDeleteMessage(ctx, msg.ID)
}

func (s *chatService) Pin(ctx context.Context, caller Principal, messageID uint64, pinned bool) (*MessageView, error) {
	msg, _, err := s.messageForParticipant(ctx, caller, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Deleted {
		return nil, apperr.Conflict("cannot pin a deleted message")
	}
	if err := s.chats.SetPinned(ctx, msg.ID, pinned); err != nil {
		return nil, err
	}
	updated, err := s.chats.FindMessageByID(ctx, msg.ID)
	if err != nil {
		return nil, err
	}
	return toMessageView(updated), nil
}

// React applies the one-reaction-per-reactor policy: the same emoji toggles
// the reaction off, a different emoji replaces it.
func (s *chatService) React(ctx context.Context, caller Principal, messageID uint64, emoji string) (*MessageView, error) {
	emoji = strings.TrimSpace(emoji)
	if emoji == "" {
		return nil, apperr.Validation("emoji is required")
	}
	msg, _, err := s.messageForParticipant(ctx, caller, messageID)
	if err != nil {
		return nil, err
	}
	if msg.Deleted {
		return nil, apperr.Conflict("cannot react to a deleted message")
	}

	existing, err := s.chats.FindReaction(ctx, msg.ID, caller.UserID)
	switch {
	case err == nil && existing.Emoji == emoji:
		if err := s.chats.DeleteReaction(ctx, existing.ID); err != nil {
			return nil, err
		}
	case err == nil:
		existing.Emoji = emoji
		if err := s.chats.SaveReaction(ctx, existing); err != nil {
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		reaction := &model.MessageReaction{
			MessageID:   msg.ID,
			ReactorID:   caller.UserID,
			ReactorRole: caller.Role,
			Emoji:       emoji,
		}
		if err := s.chats.SaveReaction(ctx, reaction); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	updated, err := s.chats.FindMessageByID(ctx, msg.ID)
	if err != nil {
		return nil, err
	}
	return toMessageView(updated), nil
}

func (s *chatService) MarkRead(ctx context.Context, caller Principal, roomID uint64, messageIDs []uint64) error {
	if _, err := s.roomForParticipant(ctx, caller, roomID); err != nil {
		return err
	}
	return s.chats.MarkRead(ctx, roomID, messageIDs, caller.UserID)
}
