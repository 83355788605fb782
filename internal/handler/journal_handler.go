package handler

import (
	"net/http"

	"mindhaven/internal/service"
	"mindhaven/pkg/jwt"
	"mindhaven/pkg/response"

	"github.com/gin-gonic/gin"
)

// JournalHandler 日记，作者取自令牌
type JournalHandler struct {
	service *service.JournalService
}

func NewJournalHandler(s *service.JournalService) *JournalHandler {
	return &JournalHandler{service: s}
}

type journalRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	MoodID    *uint   `json:"mood_id"`
	IsPrivate *bool   `json:"is_private"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// List GET /journals/
func (h *JournalHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), jwt.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// Get GET /journals/:id
func (h *JournalHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	j, err := h.service.Get(c.Request.Context(), id, jwt.GetUserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, j)
}

// Create POST /journals/
func (h *JournalHandler) Create(c *gin.Context) {
	var req journalRequest
	if !bindJSON(c, &req) {
		return
	}
	j, err := h.service.Create(c.Request.Context(), jwt.GetUserID(c), service.JournalInput{
		Title:     deref(req.Title),
		Content:   deref(req.Content),
		MoodID:    req.MoodID,
		IsPrivate: deref(req.IsPrivate),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, j)
}

// Update PUT /journals/:id
func (h *JournalHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req journalRequest
	if !bindJSON(c, &req) {
		return
	}
	j, err := h.service.Update(c.Request.Context(), id, jwt.GetUserID(c), service.JournalPatch{
		Title:     req.Title,
		Content:   req.Content,
		MoodID:    req.MoodID,
		IsPrivate: req.IsPrivate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, j)
}

// Delete DELETE /journals/:id
func (h *JournalHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, jwt.GetUserID(c)); err != nil {
		respondError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Journal entry deleted successfully")
}
