package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tradebridge/marketplace-backend/internal/apperr"
	"github.com/tradebridge/marketplace-backend/internal/middleware"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"github.com/tradebridge/marketplace-backend/internal/service"
)

type ListingHandler struct {
	listings service.ListingService
	reviews  service.ReviewService
}

func NewListingHandler(listings service.ListingService, reviews service.ReviewService) *ListingHandler {
	return &ListingHandler{listings: listings, reviews: reviews}
}

func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0, apperr.Validation("invalid " + name)
	}
	return id, nil
}

func parsePage(c echo.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	offset, _ = strconv.Atoi(c.QueryParam("offset"))
	return limit, offset
}

type CreateListingRequest struct {
	Name            string  `json:"name" validate:"required"`
	CategorySlug    string  `json:"categorySlug" validate:"required"`
	Description     string  `json:"description" validate:"required"`
	Price           int64   `json:"price" validate:"required,gt=0"`
	Quantity        int64   `json:"quantity" validate:"required,gt=0"`
	HSNCode         string  `json:"hsnCode"`
	CountryOfSource string  `json:"countryOfSource"`
	Specifications  string  `json:"specifications"`
	ImageURL        *string `json:"imageUrl"`
}

func (h *ListingHandler) Create(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	var req CreateListingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}
	product, err := h.listings.Submit(c.Request().Context(), p.UserID, service.NewListing{
		Name:            req.Name,
		CategorySlug:    req.CategorySlug,
		Description:     req.Description,
		Price:           req.Price,
		Quantity:        req.Quantity,
		HSNCode:         req.HSNCode,
		CountryOfSource: req.CountryOfSource,
		Specifications:  req.Specifications,
		ImageURL:        req.ImageURL,
	})
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusCreated, M{"product": product})
}

func (h *ListingHandler) Browse(c echo.Context) error {
	limit, offset := parsePage(c)
	products, total, err := h.listings.Browse(c.Request().Context(), c.Param("category"), limit, offset)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"products": products, "total": total})
}

func (h *ListingHandler) Detail(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	product, err := h.listings.Get(c.Request().Context(), id)
	if err != nil {
		return Fail(c, err)
	}
	if product.Status != model.ProductStatusActive {
		return Fail(c, apperr.NotFound("product"))
	}
	reviews, _, rerr := h.reviews.ListByProduct(c.Request().Context(), id, 20, 0)
	if rerr != nil {
		reviews = nil
	}
	return OK(c, http.StatusOK, M{"product": product, "reviews": reviews})
}

func (h *ListingHandler) ListAll(c echo.Context) error {
	limit, offset := parsePage(c)
	status := model.ProductStatus(c.QueryParam("status"))
	switch status {
	case "", model.ProductStatusPending, model.ProductStatusActive, model.ProductStatusRejected:
	default:
		return Fail(c, apperr.Validation("invalid status filter"))
	}
	listings, total, err := h.listings.ListForModeration(c.Request().Context(), status, limit, offset)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"listings": listings, "total": total})
}

func (h *ListingHandler) Approve(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	product, err := h.listings.Approve(c.Request().Context(), id)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"product": product})
}

type RejectListingRequest struct {
	Reason string `json:"reason"`
}

func (h *ListingHandler) Reject(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req RejectListingRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.Validation("invalid request body"))
	}
	product, err := h.listings.Reject(c.Request().Context(), id, req.Reason)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"product": product})
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

func (h *ListingHandler) CreateReview(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	id, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req CreateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}
	review, err := h.reviews.Create(c.Request().Context(), p.UserID, id, req.Rating, req.Comment)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusCreated, M{"review": review})
}
