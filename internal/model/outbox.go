package model

import "time"

// Outbox 状态
const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// 领域事件类型
const (
	EventCommunityCreated    = "community.created"
	EventCommunityDeleted    = "community.deleted"
	EventCommunityJoined     = "community.joined"
	EventCommunityLeft       = "community.left"
	EventConnectionRequested = "connection.requested"
	EventConnectionAccepted  = "connection.accepted"
	EventDirectMessageSent   = "direct_message.sent"
)

// Outbox 事件发件箱，与业务写入同事务落库，由 relayer 异步投递
type Outbox struct {
	ID          uint   `gorm:"primaryKey"`
	EventType   string `gorm:"type:varchar(64);not null"`
	AggregateID uint   `gorm:"not null;comment:事件所属实体ID"`
	Payload     string `gorm:"type:text;not null"`
	Status      int8   `gorm:"not null;default:0;index;comment:0=pending,1=sent,2=failed"`
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Outbox) TableName() string { return "event_outbox" }
