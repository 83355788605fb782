package model

import (
	"time"

	"gorm.io/gorm"
)

// ConnectionStatus 连接状态
type ConnectionStatus string

const (
	ConnectionPending  ConnectionStatus = "pending"
	ConnectionAccepted ConnectionStatus = "accepted"
	ConnectionBlocked  ConnectionStatus = "blocked"
)

// Connection 用户之间的连接关系
// UserLow/UserHigh 为规范化后的无序用户对，唯一索引保证 (A,B) 与 (B,A) 只有一行
type Connection struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	RequesterID uint             `gorm:"not null;index" json:"requester_id"`
	AddresseeID uint             `gorm:"not null;index" json:"addressee_id"`
	UserLow     uint             `gorm:"not null;uniqueIndex:uk_connection_pair,priority:1" json:"-"`
	UserHigh    uint             `gorm:"not null;uniqueIndex:uk_connection_pair,priority:2" json:"-"`
	Status      ConnectionStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt   time.Time        `json:"created_at"`
	AcceptedAt  *time.Time       `json:"accepted_at"`
}

func (Connection) TableName() string { return "connections" }

// OrderedPair 返回用户对的规范顺序
func OrderedPair(a, b uint) (low, high uint) {
	if a > b {
		return b, a
	}
	return a, b
}

// BeforeCreate 写入前填充规范化用户对
func (c *Connection) BeforeCreate(_ *gorm.DB) error {
	c.UserLow, c.UserHigh = OrderedPair(c.RequesterID, c.AddresseeID)
	return nil
}
