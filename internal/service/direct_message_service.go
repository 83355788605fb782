package service

import (
	"context"
	"fmt"
	"strings"

	"mindhaven/internal/model"
	"mindhaven/internal/repository"
	"mindhaven/pkg/logger"

	"go.uber.org/zap"
)

// UnreadCounter 未读私信计数缓存，未命中时回源数据库
type UnreadCounter interface {
	Increment(ctx context.Context, userID uint) error
	Decrement(ctx context.Context, userID uint) error
	Get(ctx context.Context, userID uint) (int64, bool, error)
	Set(ctx context.Context, userID uint, count int64) error
}

// DirectMessageService 私信
type DirectMessageService struct {
	store    *repository.Store
	notifier Notifier
	counter  UnreadCounter
}

func NewDirectMessageService(store *repository.Store, notifier Notifier, counter UnreadCounter) *DirectMessageService {
	return &DirectMessageService{store: store, notifier: orNop(notifier), counter: counter}
}

// Send 发送私信
func (s *DirectMessageService) Send(ctx context.Context, senderID, recipientID uint, content string) (*model.DirectMessage, error) {
	if senderID == 0 || recipientID == 0 || strings.TrimSpace(content) == "" {
		return nil, validationError("sender_id, recipient_id, content required")
	}
	if senderID == recipientID {
		return nil, validationError("Cannot send message to yourself")
	}

	dm := &model.DirectMessage{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := requireUsers(tx, senderID, recipientID); err != nil {
			return err
		}
		if err := tx.DirectMessages.Create(dm); err != nil {
			return fmt.Errorf("发送私信失败: %w", err)
		}
		return tx.Outbox.Append(model.EventDirectMessageSent, dm.ID, map[string]interface{}{
			"message_id":   dm.ID,
			"sender_id":    senderID,
			"recipient_id": recipientID,
		})
	})
	if err != nil {
		return nil, err
	}

	if s.counter != nil {
		if err := s.counter.Increment(ctx, recipientID); err != nil {
			logger.Warn("更新未读计数失败", zap.Uint("user_id", recipientID), zap.Error(err))
		}
	}
	push(s.notifier, PushDirectMessage, dm, recipientID)
	return dm, nil
}

// Inbox 收件箱，最新在前
func (s *DirectMessageService) Inbox(ctx context.Context, userID uint) ([]model.DirectMessage, error) {
	store := s.store.WithContext(ctx)
	if err := requireUsers(store, userID); err != nil {
		return nil, err
	}
	list, err := store.DirectMessages.Inbox(userID)
	if err != nil {
		return nil, fmt.Errorf("查询收件箱失败: %w", err)
	}
	return list, nil
}

// MarkRead 接收者将私信标记为已读，重复调用无副作用
func (s *DirectMessageService) MarkRead(ctx context.Context, messageID, userID uint) error {
	if userID == 0 {
		return validationError("user_id required")
	}

	var changed bool
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		dm, err := tx.DirectMessages.GetByID(messageID)
		if err != nil {
			return translateLookup(err, "Message not found", "查询私信失败")
		}
		if dm.RecipientID != userID {
			return permissionError("Not your message")
		}
		changed, err = tx.DirectMessages.MarkAsRead(messageID)
		if err != nil {
			return fmt.Errorf("标记已读失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if changed && s.counter != nil {
		if err := s.counter.Decrement(ctx, userID); err != nil {
			logger.Warn("更新未读计数失败", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return nil
}

// UnreadCount 未读私信数量，优先读缓存
func (s *DirectMessageService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	store := s.store.WithContext(ctx)
	if err := requireUsers(store, userID); err != nil {
		return 0, err
	}

	if s.counter != nil {
		count, ok, err := s.counter.Get(ctx, userID)
		if err != nil {
			logger.Warn("读取未读计数失败，回源数据库", zap.Uint("user_id", userID), zap.Error(err))
		} else if ok {
			return count, nil
		}
	}

	count, err := store.DirectMessages.UnreadCount(userID)
	if err != nil {
		return 0, fmt.Errorf("统计未读私信失败: %w", err)
	}
	if s.counter != nil {
		if err := s.counter.Set(ctx, userID, count); err != nil {
			logger.Warn("重建未读计数失败", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
	return count, nil
}
