package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tradebridge/marketplace-backend/internal/apperr"
	"github.com/tradebridge/marketplace-backend/internal/middleware"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"github.com/tradebridge/marketplace-backend/internal/service"
)

type RFQHandler struct {
	svc service.RFQService
}

func NewRFQHandler(svc service.RFQService) *RFQHandler {
	return &RFQHandler{svc: svc}
}

type CreateRFQRequest struct {
	ProductID     uint64              `json:"productId" validate:"required"`
	Quantity      int64               `json:"quantity" validate:"required,gt=0"`
	PaymentTerms  []model.PaymentTerm `json:"paymentTerms"`
	DeliveryTerms string              `json:"deliveryTerms"`
}

func (h *RFQHandler) Create(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	var req CreateRFQRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}
	rfq, err := h.svc.Create(c.Request().Context(), p.UserID, service.NewRFQ{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		PaymentTerms:  req.PaymentTerms,
		DeliveryTerms: req.DeliveryTerms,
	})
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusCreated, M{"rfq": rfq})
}

func (h *RFQHandler) ListByBuyer(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	buyerID, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	// Buyers may only read their own RFQs; admins may read anyone's.
	if p.Role != model.RoleAdmin && p.UserID != buyerID {
		return Fail(c, apperr.Forbidden("cannot read another buyer's rfqs"))
	}
	rfqs, err := h.svc.ListByBuyer(c.Request().Context(), buyerID)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"rfqs": rfqs})
}

func (h *RFQHandler) ListForwarded(c echo.Context) error {
	limit, offset := parsePage(c)
	rfqs, total, err := h.svc.ListForwarded(c.Request().Context(), limit, offset)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"rfqs": rfqs, "total": total})
}

func (h *RFQHandler) Forward(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	id, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	rfq, room, err := h.svc.Forward(c.Request().Context(), id, p.UserID)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"rfq": rfq, "chatRoom": room})
}

type ConvertRFQRequest struct {
	Price        int64      `json:"price" validate:"required,gt=0"`
	DeliveryDate *time.Time `json:"deliveryDate"`
}

func (h *RFQHandler) Convert(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req ConvertRFQRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}
	trade, err := h.svc.ConvertToTrade(c.Request().Context(), id, req.Price, req.DeliveryDate)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusCreated, M{"trade": trade})
}
