package handler

import (
	"net/http"

	"mindhaven/internal/service"
	"mindhaven/pkg/response"

	"github.com/gin-gonic/gin"
)

// ConnectionHandler 用户连接
type ConnectionHandler struct {
	service *service.ConnectionService
}

func NewConnectionHandler(s *service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{service: s}
}

type connectRequest struct {
	RequesterID uint `json:"requester_id"`
	AddresseeID uint `json:"addressee_id"`
}

// Connect POST /community/connect
// 新建返回 201；接受对方请求或关系已存在返回 200
func (h *ConnectionHandler) Connect(c *gin.Context) {
	var req connectRequest
	if !bindJSON(c, &req) {
		return
	}
	conn, outcome, err := h.service.Request(c.Request.Context(), req.RequesterID, req.AddresseeID)
	if err != nil {
		respondError(c, err)
		return
	}
	switch outcome {
	case service.ConnectAccepted:
		c.JSON(http.StatusOK, gin.H{"message": "Connection accepted!", "connection": conn})
	case service.ConnectExists:
		c.JSON(http.StatusOK, gin.H{"message": "Connection exists", "status": conn.Status})
	default:
		response.Created(c, conn)
	}
}

// List GET /community/connections/:user_id
func (h *ConnectionHandler) List(c *gin.Context) {
	userID, ok := pathID(c, "user_id")
	if !ok {
		return
	}
	list, err := h.service.ListAccepted(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, list)
}
