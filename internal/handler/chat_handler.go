package handler

import (
	"bytes"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/tradebridge/marketplace-backend/internal/apperr"
	"github.com/tradebridge/marketplace-backend/internal/middleware"
	"github.com/tradebridge/marketplace-backend/internal/model"
	"github.com/tradebridge/marketplace-backend/internal/service"
	"github.com/tradebridge/marketplace-backend/internal/storage"
)

type ChatHandler struct {
	svc      service.ChatService
	uploader storage.Uploader
}

func NewChatHandler(svc service.ChatService, uploader storage.Uploader) *ChatHandler {
	return &ChatHandler{svc: svc, uploader: uploader}
}

type CreateRoomRequest struct {
	RFQID uint64 `json:"rfqId" validate:"required"`
	Type  string `json:"type" validate:"required"`
}

func (h *ChatHandler) CreateRoom(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	var req CreateRoomRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}
	roomType, ok := model.ParseChatRoomType(req.Type)
	if !ok {
		return Fail(c, apperr.Validation("type must be BUYER or SELLER"))
	}
	room, err := h.svc.CreateRoom(c.Request().Context(), p, req.RFQID, roomType)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusCreated, M{"chatRoom": room})
}

func (h *ChatHandler) ListRooms(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	rooms, err := h.svc.ListRooms(c.Request().Context(), p)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"chatRooms": rooms})
}

func (h *ChatHandler) ListMessages(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	roomID, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	messages, err := h.svc.ListMessages(c.Request().Context(), p, roomID)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"messages": messages})
}

type SendMessageRequest struct {
	RoomID         uint64  `json:"roomId" validate:"required"`
	Content        *string `json:"content"`
	AttachmentType *string `json:"attachmentType"`
	AttachmentURL  *string `json:"attachmentUrl"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	var req SendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}
	in := service.SendMessageInput{
		RoomID:        req.RoomID,
		Content:       req.Content,
		AttachmentURL: req.AttachmentURL,
	}
	if req.AttachmentType != nil {
		at := model.AttachmentType(*req.AttachmentType)
		if at != model.AttachmentTypeImage && at != model.AttachmentTypeFile {
			return Fail(c, apperr.Validation("attachmentType must be image or file"))
		}
		in.AttachmentType = &at
	}
	msg, err := h.svc.Send(c.Request().Context(), p, in)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusCreated, M{"message": msg})
}

type EditMessageRequest struct {
	Content string `json:"content"`
}

func (h *ChatHandler) EditMessage(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	id, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req EditMessageRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.Validation("invalid request body"))
	}
	msg, err := h.svc.Edit(c.Request().Context(), p, id, req.Content)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"message": msg})
}

func (h *ChatHandler) DeleteMessage(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	id, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	if err := h.svc.Delete(c.Request().Context(), p, id); err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, nil)
}

type PinMessageRequest struct {
	Pinned bool `json:"pinned"`
}

func (h *ChatHandler) PinMessage(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	id, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req PinMessageRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.Validation("invalid request body"))
	}
	msg, err := h.svc.Pin(c.Request().Context(), p, id, req.Pinned)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"message": msg})
}

type ReactRequest struct {
	Emoji string `json:"emoji" validate:"required"`
}

func (h *ChatHandler) ReactToMessage(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	id, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req ReactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return Fail(c, err)
	}
	msg, err := h.svc.React(c.Request().Context(), p, id, req.Emoji)
	if err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, M{"message": msg})
}

type MarkReadRequest struct {
	MessageIDs []uint64 `json:"messageIds"`
}

func (h *ChatHandler) MarkRead(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	roomID, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	var req MarkReadRequest
	if err := c.Bind(&req); err != nil {
		return Fail(c, apperr.Validation("invalid request body"))
	}
	if err := h.svc.MarkRead(c.Request().Context(), p, roomID, req.MessageIDs); err != nil {
		return Fail(c, err)
	}
	return OK(c, http.StatusOK, nil)
}

// Upload validates the attachment against the server-side allowlist before a
// byte touches object storage; the MIME type comes from sniffing the file,
// not from the multipart header.
func (h *ChatHandler) Upload(c echo.Context) error {
	p, _ := middleware.GetPrincipal(c)
	roomID, err := parseID(c, "id")
	if err != nil {
		return Fail(c, err)
	}
	// Participation check before any upload work.
	if _, err := h.svc.ListMessages(c.Request().Context(), p, roomID); err != nil {
		return Fail(c, err)
	}
	if h.uploader == nil {
		return Fail(c, apperr.Internal("attachment storage is not configured", nil))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return Fail(c, apperr.Validation("file is required"))
	}
	if fileHeader.Size > storage.MaxAttachmentSize {
		return Fail(c, apperr.Validation("attachment exceeds the 10 MB limit"))
	}
	f, err := fileHeader.Open()
	if err != nil {
		return Fail(c, apperr.Internal("failed to read upload", err))
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && err != io.EOF {
		return Fail(c, apperr.Internal("failed to read upload", err))
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	kind, err := storage.ValidateAttachment(contentType, fileHeader.Size)
	if err != nil {
		return Fail(c, err)
	}

	body := io.MultiReader(bytes.NewReader(head), io.LimitReader(f, storage.MaxAttachmentSize))
	url, err := h.uploader.Upload(c.Request().Context(), roomID, contentType, body)
	if err != nil {
		return Fail(c, apperr.Internal("failed to store attachment", err))
	}
	return OK(c, http.StatusCreated, M{
		"attachmentType": kind,
		"attachmentUrl":  url,
	})
}
