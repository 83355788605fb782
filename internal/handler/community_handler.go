package handler

import (
	"net/http"

	"mindhaven/internal/service"
	"mindhaven/pkg/response"

	"github.com/gin-gonic/gin"
)

// CommunityHandler 社区、成员与社区消息
type CommunityHandler struct {
	communities *service.CommunityService
	members     *service.MembershipService
	messages    *service.CommunityMessageService
}

func NewCommunityHandler(communities *service.CommunityService, members *service.MembershipService, messages *service.CommunityMessageService) *CommunityHandler {
	return &CommunityHandler{communities: communities, members: members, messages: messages}
}

type createCommunityRequest struct {
	Name        string `json:"name"`
	OwnerID     uint   `json:"owner_id"`
	Description string `json:"description"`
	IsPrivate   bool   `json:"is_private"`
}

type userRequest struct {
	UserID uint `json:"user_id"`
}

type postMessageRequest struct {
	UserID  uint   `json:"user_id"`
	Content string `json:"content"`
}

// List GET /community/
func (h *CommunityHandler) List(c *gin.Context) {
	list, err := h.communities.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// Create POST /community/create
func (h *CommunityHandler) Create(c *gin.Context) {
	var req createCommunityRequest
	if !bindJSON(c, &req) {
		return
	}
	community, err := h.communities.Create(c.Request.Context(), service.CreateCommunityInput{
		Name:        req.Name,
		OwnerID:     req.OwnerID,
		Description: req.Description,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, community)
}

// Get GET /community/:id
func (h *CommunityHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	community, err := h.communities.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, community)
}

// Delete DELETE /community/:id
func (h *CommunityHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req userRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.communities.Delete(c.Request.Context(), id, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Community deleted")
}

// Join POST /community/:id/join
func (h *CommunityHandler) Join(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req userRequest
	if !bindJSON(c, &req) {
		return
	}
	if _, err := h.members.Join(c.Request.Context(), id, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Joined successfully")
}

// Leave POST /community/:id/leave
func (h *CommunityHandler) Leave(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req userRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.members.Leave(c.Request.Context(), id, req.UserID); err != nil {
		respondError(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Left community")
}

// Members GET /community/:id/members
func (h *CommunityHandler) Members(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.members.Members(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// Messages GET /community/:id/messages
func (h *CommunityHandler) Messages(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	list, err := h.messages.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}

// PostMessage POST /community/:id/message
func (h *CommunityHandler) PostMessage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req postMessageRequest
	if !bindJSON(c, &req) {
		return
	}
	msg, err := h.messages.Post(c.Request.Context(), id, req.UserID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, msg)
}
