package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store 聚合全部仓储，绑定同一个 *gorm.DB（或事务）
type Store struct {
	db *gorm.DB

	Users          *UserRepository
	Communities    *CommunityRepository
	Memberships    *MembershipRepository
	CommunityMsgs  *CommunityMessageRepository
	DirectMessages *DirectMessageRepository
	Connections    *ConnectionRepository
	Journals       *JournalRepository
	Moods          *MoodRepository
	Outbox         *OutboxRepository
}

// NewStore 创建绑定到 db 的 Store
func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:             db,
		Users:          &UserRepository{db: db},
		Communities:    &CommunityRepository{db: db},
		Memberships:    &MembershipRepository{db: db},
		CommunityMsgs:  &CommunityMessageRepository{db: db},
		DirectMessages: &DirectMessageRepository{db: db},
		Connections:    &ConnectionRepository{db: db},
		Journals:       &JournalRepository{db: db},
		Moods:          &MoodRepository{db: db},
		Outbox:         &OutboxRepository{db: db},
	}
}

// DB 返回底层连接
func (s *Store) DB() *gorm.DB {
	return s.db
}

// WithContext 返回绑定 ctx 的 Store
func (s *Store) WithContext(ctx context.Context) *Store {
	return NewStore(s.db.WithContext(ctx))
}

// Transaction 在单个事务中执行 fn，fn 返回错误或 panic 时整体回滚
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
