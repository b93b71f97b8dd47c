package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tradebridge/marketplace-backend/internal/apperr"
	"github.com/tradebridge/marketplace-backend/internal/config"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"github.com/tradebridge/marketplace-backend/internal/repository"
	"github.com/tradebridge/marketplace-backend/internal/token"
	"gorm.io/gorm"
)

type SellerRegistration struct {
	Email        string
	Password     string
	Name         string
	BusinessName string
	BusinessType string
	TaxID        string
	Address      string
}

type BuyerRegistration struct {
	Email           string
	Password        string
	Name            string
	ShippingAddress string
	City            string
	Country         string
	PostalCode      string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthService interface {
	RegisterSeller(ctx context.Context, reg SellerRegistration) (*model.User, error)
	RegisterBuyer(ctx context.Context, reg BuyerRegistration) (*model.User, error)
	Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*model.User, *TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error

	SellerProfile(ctx context.Context, userID uint64) (*model.SellerProfile, error)
	UpdateSellerProfile(ctx context.Context, userID uint64, p *model.SellerProfile) (*model.SellerProfile, error)
}

type authService struct {
	users repository.UserRepository
	cfg   *config.Config
}

func NewAuthService(users repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{users: users, cfg: cfg}
}

func (s *authService) registerUser(ctx context.Context, email, password, name string, role model.Role) (*model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, apperr.Validation("a valid email is required")
	}
	if len(password) < 8 {
		return nil, apperr.Validation("password must be at least 8 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Validation("name is required")
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, apperr.Conflict("an account with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := &model.User{Email: email, Name: strings.TrimSpace(name), Role: role}
	if err := user.SetPassword(password); err != nil {
		return nil, apperr.Internal("failed to hash password", err)
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) RegisterSeller(ctx context.Context, reg SellerRegistration) (*model.User, error) {
	if strings.TrimSpace(reg.BusinessName) == "" {
		return nil, apperr.Validation("business name is required")
	}
	user, err := s.registerUser(ctx, reg.Email, reg.Password, reg.Name, model.RoleSeller)
	if err != nil {
		return nil, err
	}
	profile := &model.SellerProfile{
		UserID:       user.ID,
		BusinessName: strings.TrimSpace(reg.BusinessName),
		BusinessType: strings.TrimSpace(reg.BusinessType),
		TaxID:        strings.TrimSpace(reg.TaxID),
		Address:      strings.TrimSpace(reg.Address),
	}
	if err := s.users.CreateSellerProfile(ctx, profile); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) RegisterBuyer(ctx context.Context, reg BuyerRegistration) (*model.User, error) {
	user, err := s.registerUser(ctx, reg.Email, reg.Password, reg.Name, model.RoleBuyer)
	if err != nil {
		return nil, err
	}
	profile := &model.BuyerProfile{
		UserID:          user.ID,
		ShippingAddress: strings.TrimSpace(reg.ShippingAddress),
		City:            strings.TrimSpace(reg.City),
		Country:         strings.TrimSpace(reg.Country),
		PostalCode:      strings.TrimSpace(reg.PostalCode),
	}
	if err := s.users.CreateBuyerProfile(ctx, profile); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	access, err := token.Generate(user, s.cfg.JWTSecret, time.Duration(s.cfg.JWTExpirationMinutes)*time.Minute)
	if err != nil {
		return nil, apperr.Internal("failed to issue access token", err)
	}
	refreshTTL := time.Duration(s.cfg.JWTRefreshExpirationHours) * time.Hour
	refresh, err := token.Generate(user, s.cfg.JWTRefreshSecret, refreshTTL)
	if err != nil {
		return nil, apperr.Internal("failed to issue refresh token", err)
	}
	record := &model.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(refreshTTL),
	}
	if err := s.users.CreateRefreshToken(ctx, record); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.Unauthorized("invalid email or password")
		}
		return nil, nil, err
	}
	if !user.CheckPassword(password) {
		return nil, nil, apperr.Unauthorized("invalid email or password")
	}
	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*model.User, *TokenPair, error) {
	claims, err := token.Validate(refreshToken, s.cfg.JWTRefreshSecret)
	if err != nil {
		return nil, nil, apperr.Unauthorized("invalid refresh token")
	}
	record, err := s.users.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperr.Unauthorized("unknown refresh token")
		}
		return nil, nil, err
	}
	if record.Revoked || time.Now().After(record.ExpiresAt) {
		return nil, nil, apperr.Unauthorized("refresh token expired or revoked")
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, apperr.Unauthorized("account no longer exists")
	}
	// Rotation: the presented token is retired before new ones are issued.
	if err := s.users.RevokeRefreshToken(ctx, refreshToken); err != nil {
		return nil, nil, err
	}
	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.users.RevokeRefreshToken(ctx, refreshToken)
}

func (s *authService) SellerProfile(ctx context.Context, userID uint64) (*model.SellerProfile, error) {
	p, err := s.users.FindSellerProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("seller profile")
		}
		return nil, err
	}
	return p, nil
}

func (s *authService) UpdateSellerProfile(ctx context.Context, userID uint64, incoming *model.SellerProfile) (*model.SellerProfile, error) {
	p, err := s.users.FindSellerProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("seller profile")
		}
		return nil, err
	}
	if strings.TrimSpace(incoming.BusinessName) == "" {
		return nil, apperr.Validation("business name is required")
	}
	p.BusinessName = strings.TrimSpace(incoming.BusinessName)
	p.BusinessType = strings.TrimSpace(incoming.BusinessType)
	p.TaxID = strings.TrimSpace(incoming.TaxID)
	p.Address = strings.TrimSpace(incoming.Address)
	if err := s.users.UpdateSellerProfile(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
