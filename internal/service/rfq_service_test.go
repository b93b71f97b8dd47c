package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradebridge/marketplace-backend/internal/apperr"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"go.uber.org/zap"
)

type rfqFixture struct {
	svc       RFQService
	rfqs      *fakeRFQRepo
	products  *fakeProductRepo
	chats     *fakeChatRepo
	notifRepo *fakeNotificationRepo
	product   *model.Product
}

func newRFQFixture(t *testing.T) *rfqFixture {
	t.Helper()
	f := &rfqFixture{
		rfqs:      newFakeRFQRepo(),
		products:  newFakeProductRepo(),
		chats:     newFakeChatRepo(),
		notifRepo: &fakeNotificationRepo{},
	}
	notifications := NewNotificationService(f.notifRepo, zap.NewNop().Sugar())
	f.svc = NewRFQService(f.rfqs, f.products, f.chats, notifications)

	f.product = &model.Product{
		SellerID:     3,
		Name:         "Corrugated boxes",
		CategorySlug: "packaging",
		Description:  "5-ply export grade",
		Price:        90,
		Quantity:     1000,
		Status:       model.ProductStatusActive,
	}
	require.NoError(t, f.products.Create(context.Background(), f.product))
	return f
}

func validTerms() []model.PaymentTerm {
	return []model.PaymentTerm{
		{Stage: "advance", Percent: 30},
		{Stage: "on delivery", Percent: 70},
	}
}

func TestCreateRFQ(t *testing.T) {
	f := newRFQFixture(t)

	rfq, err := f.svc.Create(context.Background(), 5, NewRFQ{
		ProductID:     f.product.ID,
		Quantity:      200,
		PaymentTerms:  validTerms(),
		DeliveryTerms: "FOB Mundra",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RFQStatusPending, rfq.Status)
	assert.JSONEq(t, `[{"stage":"advance","percent":30},{"stage":"on delivery","percent":70}]`, rfq.PaymentTerms)
}

func TestCreateRFQQuantityExceedsAvailable(t *testing.T) {
	f := newRFQFixture(t)

	_, err := f.svc.Create(context.Background(), 5, NewRFQ{
		ProductID:    f.product.ID,
		Quantity:     1001,
		PaymentTerms: validTerms(),
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
	assert.Contains(t, err.Error(), "requested quantity 1001 exceeds available 1000")
}

func TestCreateRFQRejectsInactiveProduct(t *testing.T) {
	f := newRFQFixture(t)
	pending := &model.Product{SellerID: 3, Name: "x", CategorySlug: "packaging", Description: "y", Price: 1, Quantity: 10, Status: model.ProductStatusPending}
	require.NoError(t, f.products.Create(context.Background(), pending))

	_, err := f.svc.Create(context.Background(), 5, NewRFQ{ProductID: pending.ID, Quantity: 1, PaymentTerms: validTerms()})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestPaymentTermValidation(t *testing.T) {
	tests := []struct {
		name    string
		terms   []model.PaymentTerm
		wantErr bool
	}{
		{"empty is fine", nil, false},
		{"single full", []model.PaymentTerm{{Stage: "advance", Percent: 100}}, false},
		{"partial sum", []model.PaymentTerm{{Stage: "advance", Percent: 30}}, false},
		{"zero leg", []model.PaymentTerm{{Stage: "advance", Percent: 0}}, true},
		{"negative leg", []model.PaymentTerm{{Stage: "advance", Percent: -10}}, true},
		{"leg over 100", []model.PaymentTerm{{Stage: "advance", Percent: 101}}, true},
		{"sum over 100", []model.PaymentTerm{{Stage: "advance", Percent: 60}, {Stage: "on delivery", Percent: 50}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePaymentTerms(tt.terms)
			if tt.wantErr {
				assert.True(t, apperr.Is(err, apperr.CodeValidation), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestForwardRFQ(t *testing.T) {
	f := newRFQFixture(t)
	rfq, err := f.svc.Create(context.Background(), 5, NewRFQ{ProductID: f.product.ID, Quantity: 100, PaymentTerms: validTerms()})
	require.NoError(t, err)

	forwarded, room, err := f.svc.Forward(context.Background(), rfq.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.RFQStatusForwarded, forwarded.Status)
	assert.Equal(t, model.ChatRoomTypeSeller, room.Type)
	assert.Equal(t, f.product.SellerID, room.CounterpartID)
	assert.Equal(t, uint64(1), room.AdminID)

	require.Len(t, f.notifRepo.created, 1)
	assert.Equal(t, model.NotificationTypeRFQForwarded, f.notifRepo.created[0].Type)
	assert.Equal(t, f.product.SellerID, f.notifRepo.created[0].UserID)
}

func TestForwardIsIdempotent(t *testing.T) {
	f := newRFQFixture(t)
	rfq, err := f.svc.Create(context.Background(), 5, NewRFQ{ProductID: f.product.ID, Quantity: 100, PaymentTerms: validTerms()})
	require.NoError(t, err)

	_, room1, err := f.svc.Forward(context.Background(), rfq.ID, 1)
	require.NoError(t, err)
	_, room2, err := f.svc.Forward(context.Background(), rfq.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, room1.ID, room2.ID, "re-forwarding must reuse the existing room")
}

func TestForwardCompletedRFQConflicts(t *testing.T) {
	f := newRFQFixture(t)
	rfq, err := f.svc.Create(context.Background(), 5, NewRFQ{ProductID: f.product.ID, Quantity: 100, PaymentTerms: validTerms()})
	require.NoError(t, err)
	_, _, err = f.svc.Forward(context.Background(), rfq.ID, 1)
	require.NoError(t, err)
	_, err = f.svc.ConvertToTrade(context.Background(), rfq.ID, 9000, nil)
	require.NoError(t, err)

	_, _, err = f.svc.Forward(context.Background(), rfq.ID, 1)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestConvertToTrade(t *testing.T) {
	f := newRFQFixture(t)
	rfq, err := f.svc.Create(context.Background(), 5, NewRFQ{ProductID: f.product.ID, Quantity: 100, PaymentTerms: validTerms()})
	require.NoError(t, err)
	_, _, err = f.svc.Forward(context.Background(), rfq.ID, 1)
	require.NoError(t, err)
	f.notifRepo.created = nil

	trade, err := f.svc.ConvertToTrade(context.Background(), rfq.ID, 9000, nil)
	require.NoError(t, err)
	assert.Equal(t, rfq.ID, trade.RFQID)
	assert.Equal(t, uint64(5), trade.BuyerID)
	assert.Equal(t, f.product.SellerID, trade.SellerID)
	assert.Equal(t, int64(100), trade.Quantity)
	assert.Equal(t, model.TradeStatusInProgress, trade.Status)

	updated, err := f.svc.Get(context.Background(), rfq.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RFQStatusCompleted, updated.Status)

	// Both parties hear about the trade.
	require.Len(t, f.notifRepo.created, 2)
	assert.Equal(t, model.NotificationTypeTradeCreated, f.notifRepo.created[0].Type)
	assert.Equal(t, model.NotificationTypeTradeCreated, f.notifRepo.created[1].Type)
}

func TestConvertBeforeForwardConflicts(t *testing.T) {
	f := newRFQFixture(t)
	rfq, err := f.svc.Create(context.Background(), 5, NewRFQ{ProductID: f.product.ID, Quantity: 100, PaymentTerms: validTerms()})
	require.NoError(t, err)

	_, err = f.svc.ConvertToTrade(context.Background(), rfq.ID, 9000, nil)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestConvertTwiceConflicts(t *testing.T) {
	f := newRFQFixture(t)
	rfq, err := f.svc.Create(context.Background(), 5, NewRFQ{ProductID: f.product.ID, Quantity: 100, PaymentTerms: validTerms()})
	require.NoError(t, err)
	_, _, err = f.svc.Forward(context.Background(), rfq.ID, 1)
	require.NoError(t, err)

	_, err = f.svc.ConvertToTrade(context.Background(), rfq.ID, 9000, nil)
	require.NoError(t, err)
	_, err = f.svc.ConvertToTrade(context.Background(), rfq.ID, 9500, nil)
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestConvertRequiresPositivePrice(t *testing.T) {
	f := newRFQFixture(t)
	_, err := f.svc.ConvertToTrade(context.Background(), 1, 0, nil)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}
