package model

import "time"

// CommunityMessage 社区消息，只追加
type CommunityMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CommunityID uint      `gorm:"not null;index:idx_community_message_time,priority:1" json:"community_id"`
	UserID      uint      `gorm:"not null;index;comment:作者" json:"user_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `gorm:"index:idx_community_message_time,priority:2" json:"created_at"`
}

func (CommunityMessage) TableName() string { return "community_messages" }

// DirectMessage 私信
// IsRead 只能由接收者从 false 置为 true
type DirectMessage struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SenderID    uint      `gorm:"not null;index;comment:发送者" json:"sender_id"`
	RecipientID uint      `gorm:"not null;index:idx_direct_message_inbox,priority:1;comment:接收者" json:"recipient_id"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time `gorm:"index:idx_direct_message_inbox,priority:2" json:"created_at"`
	IsRead      bool      `gorm:"not null;default:false" json:"is_read"`
}

func (DirectMessage) TableName() string { return "direct_messages" }
