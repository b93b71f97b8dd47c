package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/tradebridge/marketplace-backend/internal/apperr"
)

// M is the success payload shape; OK stamps success=true onto it so every
// 2xx body carries the envelope the frontend expects.
type M map[string]interface{}

func OK(c echo.Context, status int, payload M) error {
	if payload == nil {
		payload = M{}
	}
	payload["success"] = true
	return c.JSON(status, payload)
}

// Fail maps any error onto the JSON error contract. Unknown errors become a
// generic 500; their detail stays in the logs, not the response.
func Fail(c echo.Context, err error) error {
	appErr := apperr.From(err)
	msg := appErr.Message
	if appErr.Status == http.StatusInternalServerError {
		c.Logger().Errorf("internal error: %v", appErr.Unwrap())
		msg = "internal server error"
	}
	return c.JSON(appErr.Status, map[string]string{"error": msg})
}

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return apperr.Validation(err.Error())
	}
	return nil
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperr.Validation("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}
