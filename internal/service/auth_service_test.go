package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradebridge/marketplace-backend/internal/apperr"
	"github.com/tradebridge/marketplace-backend/internal/config"
	"github.com/tradebridge/marketplace-backend/internal/model"
)

func newAuthFixture() (AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	cfg := &config.Config{
		JWTSecret:                 "access-secret",
		JWTRefreshSecret:          "refresh-secret",
		JWTExpirationMinutes:      15,
		JWTRefreshExpirationHours: 168,
	}
	return NewAuthService(users, cfg), users
}

func validSellerReg() SellerRegistration {
	return SellerRegistration{
		Email:        "Seller@Example.com",
		Password:     "correct horse",
		Name:         "Asha Mehta",
		BusinessName: "Mehta Industrial Supplies",
		BusinessType: "manufacturer",
	}
}

func TestRegisterSeller(t *testing.T) {
	svc, users := newAuthFixture()

	user, err := svc.RegisterSeller(context.Background(), validSellerReg())
	require.NoError(t, err)
	assert.Equal(t, model.RoleSeller, user.Role)
	assert.Equal(t, "seller@example.com", user.Email, "emails are stored lowercased")
	assert.NotEqual(t, "correct horse", user.PasswordHash)

	profile, err := users.FindSellerProfile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mehta Industrial Supplies", profile.BusinessName)
}

func TestRegisterSellerRequiresBusinessName(t *testing.T) {
	svc, _ := newAuthFixture()
	reg := validSellerReg()
	reg.BusinessName = "  "
	_, err := svc.RegisterSeller(context.Background(), reg)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _ := newAuthFixture()
	reg := validSellerReg()
	reg.Password = "short"
	_, err := svc.RegisterSeller(context.Background(), reg)
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.RegisterSeller(context.Background(), validSellerReg())
	require.NoError(t, err)

	// Same email, different case.
	_, err = svc.RegisterBuyer(context.Background(), BuyerRegistration{
		Email:    "seller@example.COM",
		Password: "another pass",
		Name:     "Someone Else",
	})
	assert.True(t, apperr.Is(err, apperr.CodeConflict))
}

func TestLoginAndRefreshRotation(t *testing.T) {
	svc, users := newAuthFixture()
	_, err := svc.RegisterSeller(context.Background(), validSellerReg())
	require.NoError(t, err)

	user, pair, err := svc.Login(context.Background(), "seller@example.com", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, model.RoleSeller, user.Role)

	refreshed, next, err := svc.Refresh(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.ID)
	assert.NotEqual(t, pair.RefreshToken, next.RefreshToken, "rotation must mint a fresh token")

	// The presented token is retired on rotation.
	old, err := users.FindRefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, old.Revoked)

	_, _, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized), "a rotated token cannot be replayed")
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.RegisterSeller(context.Background(), validSellerReg())
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), "seller@example.com", "wrong pass")
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))

	_, _, err = svc.Login(context.Background(), "nobody@example.com", "whatever pw")
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))
}

func TestRefreshRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture()
	_, _, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newAuthFixture()
	_, err := svc.RegisterSeller(context.Background(), validSellerReg())
	require.NoError(t, err)
	_, pair, err := svc.Login(context.Background(), "seller@example.com", "correct horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.RefreshToken))
	_, _, err = svc.Refresh(context.Background(), pair.RefreshToken)
	assert.True(t, apperr.Is(err, apperr.CodeUnauthorized))
}

func TestUpdateSellerProfile(t *testing.T) {
	svc, _ := newAuthFixture()
	user, err := svc.RegisterSeller(context.Background(), validSellerReg())
	require.NoError(t, err)

	updated, err := svc.UpdateSellerProfile(context.Background(), user.ID, &model.SellerProfile{
		BusinessName: "Mehta Exports",
		Address:      "Plot 4, GIDC Vapi",
	})
	require.NoError(t, err)
	assert.Equal(t, "Mehta Exports", updated.BusinessName)

	_, err = svc.UpdateSellerProfile(context.Background(), user.ID, &model.SellerProfile{BusinessName: " "})
	assert.True(t, apperr.Is(err, apperr.CodeValidation))
}
