package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tradebridge/marketplace-backend/internal/model"
	"github.com/tradebridge/marketplace-backend/internal/repository"
	"gorm.io/gorm"
)

// In-memory repository fakes shared by the service tests.

type fakeUserRepo struct {
	users          map[uint64]*model.User
	sellerProfiles map[uint64]*model.SellerProfile
	buyerProfiles  map[uint64]*model.BuyerProfile
	refreshTokens  map[string]*model.RefreshToken
	nextID         uint64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:          map[uint64]*model.User{},
		sellerProfiles: map[uint64]*model.SellerProfile{},
		buyerProfiles:  map[uint64]*model.BuyerProfile{},
		refreshTokens:  map[string]*model.RefreshToken{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uint64) (*model.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) CreateSellerProfile(_ context.Context, p *model.SellerProfile) error {
	f.sellerProfiles[p.UserID] = p
	return nil
}

func (f *fakeUserRepo) FindSellerProfile(_ context.Context, userID uint64) (*model.SellerProfile, error) {
	p, ok := f.sellerProfiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeUserRepo) UpdateSellerProfile(_ context.Context, p *model.SellerProfile) error {
	f.sellerProfiles[p.UserID] = p
	return nil
}

func (f *fakeUserRepo) CreateBuyerProfile(_ context.Context, p *model.BuyerProfile) error {
	f.buyerProfiles[p.UserID] = p
	return nil
}

func (f *fakeUserRepo) FindBuyerProfile(_ context.Context, userID uint64) (*model.BuyerProfile, error) {
	p, ok := f.buyerProfiles[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakeUserRepo) CreateRefreshToken(_ context.Context, t *model.RefreshToken) error {
	f.refreshTokens[t.Token] = t
	return nil
}

func (f *fakeUserRepo) FindRefreshToken(_ context.Context, token string) (*model.RefreshToken, error) {
	t, ok := f.refreshTokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (f *fakeUserRepo) RevokeRefreshToken(_ context.Context, token string) error {
	if t, ok := f.refreshTokens[token]; ok {
		t.Revoked = true
	}
	return nil
}

type fakeProductRepo struct {
	products map[uint64]*model.Product
	nextID   uint64
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: map[uint64]*model.Product{}}
}

func (f *fakeProductRepo) Create(_ context.Context, p *model.Product) error {
	f.nextID++
	p.ID = f.nextID
	f.products[p.ID] = p
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id uint64) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) ListByCategory(_ context.Context, slug string, status model.ProductStatus, limit, offset int) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range f.products {
		if p.Status == status && (slug == "" || p.CategorySlug == slug) {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) ListByStatus(_ context.Context, status model.ProductStatus, limit, offset int) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range f.products {
		if status == "" || p.Status == status {
			out = append(out, *p)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeProductRepo) ListBySeller(_ context.Context, sellerID uint64) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.products {
		if p.SellerID == sellerID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) TransitionStatus(_ context.Context, id, version uint64, status model.ProductStatus, reason string) (int64, error) {
	p, ok := f.products[id]
	if !ok || p.Version != version || p.Status != model.ProductStatusPending {
		return 0, nil
	}
	p.Status = status
	p.RejectionReason = reason
	p.Version = version + 1
	return 1, nil
}

type fakeRFQRepo struct {
	rfqs   map[uint64]*model.RFQ
	trades map[uint64]*model.Trade // keyed by rfq id
	nextID uint64
}

func newFakeRFQRepo() *fakeRFQRepo {
	return &fakeRFQRepo{rfqs: map[uint64]*model.RFQ{}, trades: map[uint64]*model.Trade{}}
}

func (f *fakeRFQRepo) Create(_ context.Context, rfq *model.RFQ) error {
	f.nextID++
	rfq.ID = f.nextID
	f.rfqs[rfq.ID] = rfq
	return nil
}

func (f *fakeRFQRepo) FindByID(_ context.Context, id uint64) (*model.RFQ, error) {
	rfq, ok := f.rfqs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *rfq
	return &cp, nil
}

func (f *fakeRFQRepo) ListByBuyer(_ context.Context, buyerID uint64) ([]model.RFQ, error) {
	var out []model.RFQ
	for _, rfq := range f.rfqs {
		if rfq.BuyerID == buyerID {
			out = append(out, *rfq)
		}
	}
	return out, nil
}

func (f *fakeRFQRepo) ListByStatus(_ context.Context, status model.RFQStatus, limit, offset int) ([]model.RFQ, int64, error) {
	var out []model.RFQ
	for _, rfq := range f.rfqs {
		if rfq.Status == status {
			out = append(out, *rfq)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRFQRepo) CountByProduct(_ context.Context, productID uint64) (int64, error) {
	var cnt int64
	for _, rfq := range f.rfqs {
		if rfq.ProductID == productID {
			cnt++
		}
	}
	return cnt, nil
}

func (f *fakeRFQRepo) UpdateStatusIf(_ context.Context, id uint64, from, to model.RFQStatus) (int64, error) {
	rfq, ok := f.rfqs[id]
	if !ok || rfq.Status != from {
		return 0, nil
	}
	rfq.Status = to
	return 1, nil
}

func (f *fakeRFQRepo) CreateTrade(_ context.Context, trade *model.Trade) error {
	if _, exists := f.trades[trade.RFQID]; exists {
		return repository.ErrTradeExists
	}
	rfq, ok := f.rfqs[trade.RFQID]
	if !ok || rfq.Status != model.RFQStatusForwarded {
		return repository.ErrTradeExists
	}
	trade.ID = trade.RFQID
	f.trades[trade.RFQID] = trade
	rfq.Status = model.RFQStatusCompleted
	return nil
}

func (f *fakeRFQRepo) FindTradeByRFQ(_ context.Context, rfqID uint64) (*model.Trade, error) {
	t, ok := f.trades[rfqID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

type fakeChatRepo struct {
	rooms       map[string]*model.ChatRoom
	messages    map[uint64]*model.ChatMessage
	reactions   map[uint64]*model.MessageReaction
	nextRoomID  uint64
	nextMsgID   uint64
	nextReactID uint64
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		rooms:     map[string]*model.ChatRoom{},
		messages:  map[uint64]*model.ChatMessage{},
		reactions: map[uint64]*model.MessageReaction{},
	}
}

func roomKey(rfqID uint64, typ model.ChatRoomType) string {
	return fmt.Sprintf("%d/%s", rfqID, typ)
}

func (f *fakeChatRepo) FindOrCreateRoom(_ context.Context, room *model.ChatRoom) (*model.ChatRoom, error) {
	key := roomKey(room.RFQID, room.Type)
	if existing, ok := f.rooms[key]; ok {
		return existing, nil
	}
	f.nextRoomID++
	room.ID = f.nextRoomID
	f.rooms[key] = room
	return room, nil
}

func (f *fakeChatRepo) FindRoomByID(_ context.Context, id uint64) (*model.ChatRoom, error) {
	for _, room := range f.rooms {
		if room.ID == id {
			return room, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChatRepo) ListRooms(_ context.Context) ([]model.ChatRoom, error) {
	var out []model.ChatRoom
	for _, room := range f.rooms {
		out = append(out, *room)
	}
	return out, nil
}

func (f *fakeChatRepo) ListRoomsByCounterpart(_ context.Context, userID uint64) ([]model.ChatRoom, error) {
	var out []model.ChatRoom
	for _, room := range f.rooms {
		if room.CounterpartID == userID {
			out = append(out, *room)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) CreateMessage(_ context.Context, msg *model.ChatMessage) error {
	f.nextMsgID++
	msg.ID = f.nextMsgID
	f.messages[msg.ID] = msg
	return nil
}

func (f *fakeChatRepo) reactionsFor(messageID uint64) []model.MessageReaction {
	out := []model.MessageReaction{}
	for _, r := range f.reactions {
		if r.MessageID == messageID {
			out = append(out, *r)
		}
	}
	return out
}

func (f *fakeChatRepo) FindMessageByID(_ context.Context, id uint64) (*model.ChatMessage, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *msg
	cp.Reactions = f.reactionsFor(id)
	return &cp, nil
}

func (f *fakeChatRepo) ListMessages(_ context.Context, roomID uint64) ([]model.ChatMessage, error) {
	var out []model.ChatMessage
	for i := uint64(1); i <= f.nextMsgID; i++ {
		if msg, ok := f.messages[i]; ok && msg.RoomID == roomID {
			cp := *msg
			cp.Reactions = f.reactionsFor(msg.ID)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeChatRepo) UpdateContentIf(_ context.Context, id, version uint64, content string) (int64, error) {
	msg, ok := f.messages[id]
	if !ok || msg.Version != version || msg.Deleted {
		return 0, nil
	}
	msg.Content = &content
	msg.Edited = true
	msg.Version = version + 1
	return 1, nil
}

func (f *fakeChatRepo) SoftDeleteMessage(_ context.Context, id uint64) error {
	if msg, ok := f.messages[id]; ok {
		msg.Deleted = true
	}
	return nil
}

func (f *fakeChatRepo) SetPinned(_ context.Context, id uint64, pinned bool) error {
	if msg, ok := f.messages[id]; ok {
		msg.Pinned = pinned
	}
	return nil
}

func (f *fakeChatRepo) MarkRead(_ context.Context, roomID uint64, messageIDs []uint64, readerID uint64) error {
	for _, id := range messageIDs {
		if msg, ok := f.messages[id]; ok && msg.RoomID == roomID && msg.SenderID != readerID {
			msg.Read = true
		}
	}
	return nil
}

func (f *fakeChatRepo) FindReaction(_ context.Context, messageID, reactorID uint64) (*model.MessageReaction, error) {
	for _, r := range f.reactions {
		if r.MessageID == messageID && r.ReactorID == reactorID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeChatRepo) SaveReaction(_ context.Context, reaction *model.MessageReaction) error {
	if reaction.ID == 0 {
		f.nextReactID++
		reaction.ID = f.nextReactID
	}
	f.reactions[reaction.ID] = reaction
	return nil
}

func (f *fakeChatRepo) DeleteReaction(_ context.Context, id uint64) error {
	delete(f.reactions, id)
	return nil
}

type fakeReviewRepo struct {
	reviews []model.Review
	nextID  uint64
}

func (f *fakeReviewRepo) Create(_ context.Context, review *model.Review) error {
	f.nextID++
	review.ID = f.nextID
	f.reviews = append(f.reviews, *review)
	return nil
}

func (f *fakeReviewRepo) ListByProduct(_ context.Context, productID uint64, limit, offset int) ([]model.Review, int64, error) {
	var out []model.Review
	for _, r := range f.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeReviewRepo) ExistsForBuyer(_ context.Context, buyerID, productID uint64) (bool, error) {
	for _, r := range f.reviews {
		if r.BuyerID == buyerID && r.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

type fakeNotificationRepo struct {
	created []model.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	f.created = append(f.created, *n)
	return nil
}

func (f *fakeNotificationRepo) ListByUser(_ context.Context, userID uint64, unreadOnly bool, limit int) ([]model.Notification, error) {
	var out []model.Notification
	for _, n := range f.created {
		if n.UserID == userID && (!unreadOnly || n.ReadAt == nil) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, userID uint64) error {
	return nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, userID uint64) (int64, error) {
	var cnt int64
	for _, n := range f.created {
		if n.UserID == userID && n.ReadAt == nil {
			cnt++
		}
	}
	return cnt, nil
}
