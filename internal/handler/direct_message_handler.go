package handler

import (
	"net/http"

	"mindhaven/internal/service"
	"mindhaven/pkg/response"

	"github.com/gin-gonic/gin"
)

// DirectMessageHandler 私信
type DirectMessageHandler struct {
	service *service.DirectMessageService
}

func NewDirectMessageHandler(s *service.DirectMessageService) *DirectMessageHandler {
	return &DirectMessageHandler{service: s}
}

type sendDirectRequest struct {
	SenderID    uint   `json:"sender_id"`
	RecipientID uint   `json:"recipient_id"`
	Content     string `json:"content"`
}

// Send POST /community/message/direct
func (h *DirectMessageHandler) Send(c *gin.Context) {
	var req sendDirectRequest
	if !bindJSON(c, &req) {
		return
	}
	dm, err := h.service.Send(c.Request.Context(), req.SenderID, req.RecipientID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, dm)
}

// Inbox GET /community/messages/inbox/:user_id
func (h *DirectMessageHandler) Inbox(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	list, err := h.service.Inbox(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// UnreadCount GET /community/messages/inbox/:user_id/unread
func (h *DirectMessageHandler) UnreadCount(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, gin.H{"user_id": userID, "unread_count": count})
}

// MarkRead POST /community/message/:id/read
func (h *DirectMessageHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req userRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), id, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Marked as read")
}
