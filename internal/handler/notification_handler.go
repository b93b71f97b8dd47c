package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tradebridge/marketplace-backend/internal/middleware"
	"github.com/tradebridge/marketplace-backend/internal/service"
)

type NotificationHandler struct {
	svc service.NotificationService
}

func NewNotificationHandler(svc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) List(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	unreadOnly := c.QueryParam("unread") == "true"
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	list, unread, err := h.svc.List(c.Request().Context(), p.UserID, unreadOnly, limit)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"notifications": list, "unreadCount": unread})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	if err := h.svc.MarkAllRead(c.Request().Context(), p.UserID); err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, nil)
}
