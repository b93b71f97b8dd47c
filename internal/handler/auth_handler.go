package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tradebridge/marketplace-backend/internal/config"
	"github.com/tradebridge/marketplace-backend/internal/middleware"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"github.com/tradebridge/marketplace-backend/internal/service"
)

const refreshTokenCookie = "refresh_token"

type AuthHandler struct {
	svc service.AuthService
	cfg *config.Config
}

func NewAuthHandler(svc service.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{svc: svc, cfg: cfg}
}

type SellerRegisterRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	Name         string `json:"name" validate:"required"`
	BusinessName string `json:"businessName" validate:"required"`
	BusinessType string `json:"businessType"`
	TaxID        string `json:"taxId"`
	Address      string `json:"address"`
}

type BuyerSignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	Name            string `json:"name" validate:"required"`
	ShippingAddress string `json:"shippingAddress"`
	City            string `json:"city"`
	Country         string `json:"country"`
	PostalCode      string `json:"postalCode"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) RegisterSeller(c echo.Context) error {
	var req SellerRegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}
	user, err := h.svc.RegisterSeller(c.Request().Context(), service.SellerRegistration{
		Email:        req.Email,
		Password:     req.Password,
		Name:         req.Name,
		BusinessName: req.BusinessName,
		BusinessType: req.BusinessType,
		TaxID:        req.TaxID,
		Address:      req.Address,
	})
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusCreated, M{"user": user})
}

func (h *AuthHandler) SignupBuyer(c echo.Context) error {
	var req BuyerSignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}
	user, err := h.svc.RegisterBuyer(c.Request().Context(), service.BuyerRegistration{
		Email:           req.Email,
		Password:        req.Password,
		Name:            req.Name,
		ShippingAddress: req.ShippingAddress,
		City:            req.City,
		Country:         req.Country,
		PostalCode:      req.PostalCode,
	})
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusCreated, M{"user": user})
}

func (h *AuthHandler) setSessionCookies(c echo.Context, pair *service.TokenPair) {
	secure := !h.cfg.IsDevelopment()
	c.SetCookie(&http.Cookie{
		Name:     middleware.AccessTokenCookie,
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWTExpirationMinutes * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	c.SetCookie(&http.Cookie{
		Name:     refreshTokenCookie,
		Value:    pair.RefreshToken,
		Path:     "/auth",
		MaxAge:   h.cfg.JWTRefreshExpirationHours * 60 * 60,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookies(c echo.Context) {
	c.SetCookie(&http.Cookie{Name: middleware.AccessTokenCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	c.SetCookie(&http.Cookie{Name: refreshTokenCookie, Value: "", Path: "/auth", MaxAge: -1, HttpOnly: true})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}
	user, pair, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return Fail(c, err)
	}
	h.setSessionCookies(c, pair)
	return OK(c, http.StatusOK, M{"user": user})
}

func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(refreshTokenCookie)
	if err != nil || cookie.Value == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing refresh token"})
	}
	user, pair, err := h.svc.Refresh(c.Request().Context(), cookie.Value)
	if err != nil {
		h.clearSessionCookies(c)
		return Fail(c, err)
	}
	h.setSessionCookies(c, pair)
	return OK(c, http.StatusOK, M{"user": user})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
		_ = h.svc.Logout(c.Request().Context(), cookie.Value)
	}
	h.clearSessionCookies(c)
	return OK(c, http.StatusOK, nil)
}

type SellerProfileRequest struct {
	BusinessName string `json:"businessName" validate:"required"`
	BusinessType string `json:"businessType"`
	TaxID        string `json:"taxId"`
	Address      string `json:"address"`
}

func (h *AuthHandler) GetSellerProfile(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	profile, err := h.svc.SellerProfile(c.Request().Context(), p.UserID)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"profile": profile})
}

func (h *AuthHandler) UpdateSellerProfile(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	var req SellerProfileRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}
	profile, err := h.svc.UpdateSellerProfile(c.Request().Context(), p.UserID, &model.SellerProfile{
		BusinessName: req.BusinessName,
		BusinessType: req.BusinessType,
		TaxID:        req.TaxID,
		Address:      req.Address,
	})
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"profile": profile})
}
