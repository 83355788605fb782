package websocket

import (
	"sync"

	"mindhaven/pkg/metrics"

	"github.com/gorilla/websocket"
)

// Client 代表一个WebSocket连接的用户
type Client struct {
	UserID uint
	Conn   *websocket.Conn
	Send   chan []byte
}

// NewClient 创建客户端，Send 带缓冲
func NewClient(userID uint, conn *websocket.Conn) *Client {
	return &Client{UserID: userID, Conn: conn, Send: make(chan []byte, 256)}
}

// Manager 管理在线用户的WebSocket连接，每个用户保留最新的一条连接
// 不在线的用户直接丢弃推送，持久数据以数据库为准
type Manager struct {
	clients map[uint]*Client
	lock    sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{clients: make(map[uint]*Client)}
}

// AddClient 添加连接，替换同一用户的旧连接
func (m *Manager) AddClient(client *Client) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if old, ok := m.clients[client.UserID]; ok && old != client {
		close(old.Send)
		metrics.WsConnections.Dec()
	}
	m.clients[client.UserID] = client
	metrics.WsConnections.Inc()
}

// RemoveClient 移除连接；已被新连接替换时不做处理
func (m *Manager) RemoveClient(client *Client) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if c, ok := m.clients[client.UserID]; ok && c == client {
		close(c.Send)
		delete(m.clients, client.UserID)
		metrics.WsConnections.Dec()
	}
}

// SendToUser 推送消息给指定用户，缓冲区满或不在线时丢弃
func (m *Manager) SendToUser(userID uint, msg []byte) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	client, ok := m.clients[userID]
	if !ok {
		metrics.WsPushTotal.WithLabelValues("offline").Inc()
		return
	}
	select {
	case client.Send <- msg:
		metrics.WsPushTotal.WithLabelValues("delivered").Inc()
	default:
		metrics.WsPushTotal.WithLabelValues("dropped").Inc()
	}
}

// IsOnline 判断用户是否在线
func (m *Manager) IsOnline(userID uint) bool {
	m.lock.RLock()
	defer m.lock.RUnlock()
	_, ok := m.clients[userID]
	return ok
}

// OnlineCount 在线连接数
func (m *Manager) OnlineCount() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.clients)
}
