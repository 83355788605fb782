package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mindhaven/config"
	"mindhaven/pkg/jwt"
	"mindhaven/pkg/logger"
	"mindhaven/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ReadAcker 处理客户端的私信已读回执
type ReadAcker interface {
	MarkRead(ctx context.Context, messageID, userID uint) error
}

// Handler /ws 入口，使用 token 查询参数认证
type Handler struct {
	manager *Manager
	tokens  *jwt.JWTService
	cfg     config.WebSocketConfig
	acker   ReadAcker
}

func NewHandler(manager *Manager, tokens *jwt.JWTService, cfg config.WebSocketConfig, acker ReadAcker) *Handler {
	return &Handler{manager: manager, tokens: tokens, cfg: cfg, acker: acker}
}

// inbound 客户端上行消息
type inbound struct {
	Type  string          `json:"type"`
	MsgID json.RawMessage `json:"msg_id"`
}

// Serve Gin路由处理函数
func (h *Handler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Sec-WebSocket-Protocol"), "Bearer ")
	}
	if token == "" {
		response.Unauthorized(c, "Missing token")
		return
	}
	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		response.Unauthorized(c, "Invalid or expired token")
		return
	}
	userID, err := claims.UserID()
	if err != nil {
		response.Unauthorized(c, "Invalid token subject")
		return
	}

	// 回显子协议，避免客户端提示 "Server sent no subprotocol"
	respHeader := http.Header{}
	if protocol := c.GetHeader("Sec-WebSocket-Protocol"); protocol != "" {
		respHeader.Set("Sec-WebSocket-Protocol", protocol)
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, respHeader)
	if err != nil {
		logger.Warn("websocket升级失败", zap.Uint("user_id", userID), zap.Error(err))
		return
	}

	client := NewClient(userID, conn)
	h.manager.AddClient(client)
	logger.Info("websocket已连接", zap.Uint("user_id", userID))
	defer func() {
		h.manager.RemoveClient(client)
		_ = conn.Close()
		logger.Info("websocket已断开", zap.Uint("user_id", userID))
	}()

	go h.writeLoop(client)
	h.readLoop(c.Request.Context(), client)
}

// writeLoop 写协程，定时发送ping心跳；Send 关闭时退出
func (h *Handler) writeLoop(client *Client) {
	ticker := time.NewTicker(h.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				_ = client.Conn.WriteControl(websocket.CloseMessage, nil, time.Now().Add(time.Second))
				return
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := client.Conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(5*time.Second)); err != nil {
				return
			}
		}
	}
}

// readLoop 读协程，超时未收到任何读事件则断开
func (h *Handler) readLoop(ctx context.Context, client *Client) {
	conn := client.Conn
	_ = conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))
	})
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(h.cfg.ReadTimeout))

		var msg inbound
		if err := json.Unmarshal(payload, &msg); err != nil {
			continue
		}
		if msg.Type == "ack_read" && h.acker != nil {
			id := parseMsgID(msg.MsgID)
			if id == 0 {
				continue
			}
			if err := h.acker.MarkRead(ctx, id, client.UserID); err != nil {
				logger.Debug("已读回执失败", zap.Uint("user_id", client.UserID), zap.Uint("msg_id", id), zap.Error(err))
			}
		}
	}
}

// parseMsgID 兼容数字与字符串形式的ID
func parseMsgID(raw json.RawMessage) uint {
	s := strings.Trim(string(raw), `"`)
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}
