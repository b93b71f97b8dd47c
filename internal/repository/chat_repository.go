package repository

import (
	"context"

	"github.com/tradebridge/marketplace-backend/internal/model"
	"gorm.io/gorm"
)

type ChatRepository interface {
	// FindOrCreateRoom is idempotent on (rfq_id, type): concurrent calls
	// collapse onto the unique index and return the surviving row.
	FindOrCreateRoom(ctx context.Context, room *model.ChatRoom) (*model.ChatRoom, error)
	FindRoomByID(ctx context.Context, id uint64) (*model.ChatRoom, error)
	ListRooms(ctx context.Context) ([]model.ChatRoom, error)
	ListRoomsByCounterpart(ctx context.Context, userID uint64) ([]model.ChatRoom, error)

	CreateMessage(ctx context.Context, msg *model.ChatMessage) error
	FindMessageByID(ctx context.Context, id uint64) (*model.ChatMessage, error)
	ListMessages(ctx context.Context, roomID uint64) ([]model.ChatMessage, error)
	UpdateContentIf(ctx context.Context, id, version uint64, content string) (int64, error)
	SoftDeleteMessage(ctx context.Context, id uint64) error
	SetPinned(ctx context.Context, id uint64, pinned bool) error
	MarkRead(ctx context.Context, roomID uint64, messageIDs []uint64, readerID uint64) error

	FindReaction(ctx context.Context, messageID, reactorID uint64) (*model.MessageReaction, error)
	SaveReaction(ctx context.Context, reaction *model.MessageReaction) error
	DeleteReaction(ctx context.Context, id uint64) error
}

type chatRepository struct {
	db *gorm.DB
}

func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) FindOrCreateRoom(ctx context.Context, room *model.ChatRoom) (*model.ChatRoom, error) {
	if err := r.db.WithContext(ctx).
		Where("rfq_id = ? AND type = ?", room.RFQID, room.Type).
		FirstOrCreate(room).Error; err != nil {
		return nil, err
	}
	return room, nil
}

func (r *chatRepository) FindRoomByID(ctx context.Context, id uint64) (*model.ChatRoom, error) {
	var room model.ChatRoom
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *chatRepository) ListRooms(ctx context.Context) ([]model.ChatRoom, error) {
	var rooms []model.ChatRoom
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *chatRepository) ListRoomsByCounterpart(ctx context.Context, userID uint64) ([]model.ChatRoom, error) {
	var rooms []model.ChatRoom
	if err := r.db.WithContext(ctx).
		Where("counterpart_id = ?", userID).
		Order("id DESC").
		Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *chatRepository) CreateMessage(ctx context.Context, msg *model.ChatMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *chatRepository) FindMessageByID(ctx context.Context, id uint64) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	if err := r.db.WithContext(ctx).Preload("Reactions").First(&msg, id).Error; err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *chatRepository) ListMessages(ctx context.Context, roomID uint64) ([]model.ChatMessage, error) {
	var msgs []model.ChatMessage
	if err := r.db.WithContext(ctx).
		Preload("Reactions").
		Where("room_id = ?", roomID).
		Order("id ASC").
		Find(&msgs).Error; err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *chatRepository) UpdateContentIf(ctx context.Context, id, version uint64, content string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("id = ? AND version = ? AND deleted = ?", id, version, false).
		Updates(map[string]interface{}{
			"content": content,
			"edited":  true,
			"version": version + 1,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *chatRepository) SoftDeleteMessage(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("id = ?", id).
		Update("deleted", true).Error
}

func (r *chatRepository) SetPinned(ctx context.Context, id uint64, pinned bool) error {
	return r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("id = ?", id).
		Update("pinned", pinned).Error
}

func (r *chatRepository) MarkRead(ctx context.Context, roomID uint64, messageIDs []uint64, readerID uint64) error {
	if len(messageIDs) == 0 {
		return nil
	}
	// Never marks the reader's own messages; re-running over already-read
	// rows is a no-op.
	return r.db.WithContext(ctx).
		Model(&model.ChatMessage{}).
		Where("room_id = ? AND id IN ? AND sender_id <> ? AND `read` = ?", roomID, messageIDs, readerID, false).
		Update("read", true).Error
}

func (r *chatRepository) FindReaction(ctx context.Context, messageID, reactorID uint64) (*model.MessageReaction, error) {
	var reaction model.MessageReaction
	if err := r.db.WithContext(ctx).
		Where("message_id = ? AND reactor_id = ?", messageID, reactorID).
		First(&reaction).Error; err != nil {
		return nil, err
	}
	return &reaction, nil
}

func (r *chatRepository) SaveReaction(ctx context.Context, reaction *model.MessageReaction) error {
	return r.db.WithContext(ctx).Save(reaction).Error
}

func (r *chatRepository) DeleteReaction(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&model.MessageReaction{}, id).Error
}
