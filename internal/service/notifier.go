package service

import (
	"encoding/json"

	"mindhaven/pkg/logger"

	"go.uber.org/zap"
)

// 实时推送事件类型
const (
	PushDirectMessage      = "direct_message"
	PushCommunityMessage   = "community_message"
	PushConnectionAccepted = "connection_accepted"
)

// Notifier 向在线用户推送消息，离线用户直接丢弃
type Notifier interface {
	SendToUser(userID uint, msg []byte)
}

type nopNotifier struct{}

func (nopNotifier) SendToUser(uint, []byte) {}

func orNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

// push 序列化并推送，失败只记录日志
func push(n Notifier, pushType string, data interface{}, userIDs ...uint) {
	body, err := json.Marshal(map[string]interface{}{
		"type": pushType,
		"data": data,
	})
	if err != nil {
		logger.Warn("推送消息序列化失败", zap.String("type", pushType), zap.Error(err))
		return
	}
	for _, id := range userIDs {
		n.SendToUser(id, body)
	}
}
