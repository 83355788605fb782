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

// CommunityMessageService 社区消息
type CommunityMessageService struct {
	store    *repository.Store
	notifier Notifier
}

func NewCommunityMessageService(store *repository.Store, notifier Notifier) *CommunityMessageService {
	return &CommunityMessageService{store: store, notifier: orNop(notifier)}
}

// Post 成员发布消息，提交后推送给其他在线成员
func (s *CommunityMessageService) Post(ctx context.Context, communityID, userID uint, content string) (*model.CommunityMessage, error) {
	if userID == 0 || strings.TrimSpace(content) == "" {
		return nil, validationError("user_id and content required")
	}

	msg := &model.CommunityMessage{
		CommunityID: communityID,
		UserID:      userID,
		Content:     content,
	}
	var recipients []uint
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		member, err := tx.Memberships.IsMember(communityID, userID)
		if err != nil {
			return fmt.Errorf("查询成员关系失败: %w", err)
		}
		if !member {
			return permissionError("Not a member")
		}
		if err := tx.CommunityMsgs.Create(msg); err != nil {
			return fmt.Errorf("发布社区消息失败: %w", err)
		}
		ids, err := tx.Memberships.MemberIDs(communityID)
		if err != nil {
			return fmt.Errorf("查询社区成员失败: %w", err)
		}
		for _, id := range ids {
			if id != userID {
				recipients = append(recipients, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	push(s.notifier, PushCommunityMessage, msg, recipients...)
	logger.Debug("社区消息已发布", zap.Uint("community_id", communityID), zap.Uint("message_id", msg.ID))
	return msg, nil
}

// List 社区消息，最早在前
func (s *CommunityMessageService) List(ctx context.Context, communityID uint) ([]model.CommunityMessage, error) {
	store := s.store.WithContext(ctx)
	if _, err := store.Communities.GetByID(communityID); err != nil {
		return nil, translateLookup(err, "Community not found", "查询社区失败")
	}
	list, err := store.CommunityMsgs.ListByCommunity(communityID)
	if err != nil {
		return nil, fmt.Errorf("查询社区消息失败: %w", err)
	}
	return list, nil
}
