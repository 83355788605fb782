package handler

import (
	"mindhaven/internal/service"
	"mindhaven/pkg/response"

	"github.com/gin-gonic/gin"
)

// MoodHandler 心情记录
type MoodHandler struct {
	service *service.MoodService
}

func NewMoodHandler(s *service.MoodService) *MoodHandler {
	return &MoodHandler{service: s}
}

// Add POST /mood/add-mood
func (h *MoodHandler) Add(c *gin.Context) {
	var req struct {
		UserID       uint   `json:"user_id"`
		EmotionLabel string `json:"emotion_label"`
	}
	if !bindJSON(c, &req) {
		return
	}
	m, message, err := h.service.Add(c.Request.Context(), req.UserID, req.EmotionLabel)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, gin.H{
		"id":            m.ID,
		"user_id":       m.UserID,
		"emotion_label": m.EmotionLabel,
		"created_at":    m.CreatedAt,
		"message":       message,
	})
}

// List GET /mood/:user_id
func (h *MoodHandler) List(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	list, err := h.service.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if len(list) == 0 {
		response.OK(c, gin.H{"message": "No mood entries found", "moods": list})
		return
	}
	response.OK(c, gin.H{"moods": list, "count": len(list)})
}
