package service

import (
	"context"

	"github.com/tradebridge/marketplace-backend/internal/model"
	"github.com/tradebridge/marketplace-backend/internal/repository"
	"go.uber.org/zap"
)

type NotificationService interface {
	Notify(ctx context.Context, userID uint64, typ, title, body string, productID, rfqID, roomID *uint64)
	List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, int64, error)
	MarkAllRead(ctx context.Context, userID uint64) error
}

type notificationService struct {
	repo repository.NotificationRepository
	log  *zap.SugaredLogger
}

func NewNotificationService(repo repository.NotificationRepository, log *zap.SugaredLogger) NotificationService {
	return &notificationService{repo: repo, log: log}
}

// Notify is best-effort; a failed insert is logged and never breaks the
// mutation that triggered it.
func (s *notificationService) Notify(ctx context.Context, userID uint64, typ, title, body string, productID, rfqID, roomID *uint64) {
	if userID == 0 || typ == "" {
		return
	}
	n := &model.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Body:      body,
		ProductID: productID,
		RFQID:     rfqID,
		RoomID:    roomID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Warnw("notification insert failed", "user_id", userID, "type", typ, "err", err)
	}
}

func (s *notificationService) List(ctx context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, int64, error) {
	list, err := s.repo.ListByUser(ctx, userID, unreadOnly, limit)
	if err != nil {
		return nil, 0, err
	}
	cnt, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return list, 0, err
	}
	return list, cnt, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.repo.MarkAllRead(ctx, userID)
}
