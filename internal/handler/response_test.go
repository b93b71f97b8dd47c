package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tradebridge/marketplace-backend/internal/apperr"
)

func newTestContext(t *testing.T) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestOKStampsEnvelope(t *testing.T) {
	c, rec := newTestContext(t)

	require.NoError(t, OK(c, http.StatusCreated, M{"id": 7}))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success": true, "id": 7}`, rec.Body.String())
}

func TestOKWithNilPayload(t *testing.T) {
	c, rec := newTestContext(t)

	require.NoError(t, OK(c, http.StatusOK, nil))
	assert.JSONEq(t, `{"success": true}`, rec.Body.String())
}

func TestFailMapsAppErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{"validation", apperr.Validation("quantity must be positive"), http.StatusBadRequest, `{"error": "quantity must be positive"}`},
		{"unauthorized", apperr.Unauthorized("invalid email or password"), http.StatusUnauthorized, `{"error": "invalid email or password"}`},
		{"forbidden", apperr.Forbidden("admins only"), http.StatusForbidden, `{"error": "admins only"}`},
		{"not found", apperr.NotFound("product"), http.StatusNotFound, `{"error": "product not found"}`},
		{"conflict", apperr.Conflict("rfq has already been converted to a trade"), http.StatusConflict, `{"error": "rfq has already been converted to a trade"}`},
		{"rate limited", apperr.RateLimited("too many messages"), http.StatusTooManyRequests, `{"error": "too many messages"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newTestContext(t)
			require.NoError(t, Fail(c, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestFailHidesInternalDetail(t *testing.T) {
	c, rec := newTestContext(t)

	require.NoError(t, Fail(c, errors.New("dial tcp 10.0.0.5:3306: connection refused")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error": "internal server error"}`, rec.Body.String())
}
