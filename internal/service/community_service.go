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

// CreateCommunityInput 创建社区参数
type CreateCommunityInput struct {
	Name        string
	OwnerID     uint
	Description string
	IsPrivate   bool
}

// CommunityService 社区注册表
type CommunityService struct {
	store *repository.Store
}

func NewCommunityService(store *repository.Store) *CommunityService {
	return &CommunityService{store: store}
}

// Create 创建社区，创建者以 owner 身份同事务加入
func (s *CommunityService) Create(ctx context.Context, in CreateCommunityInput) (*model.Community, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.OwnerID == 0 {
		return nil, validationError("name and owner_id required")
	}

	community := &model.Community{
		Name:        name,
		Description: in.Description,
		IsPrivate:   in.IsPrivate,
		OwnerID:     in.OwnerID,
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		ok, err := tx.Users.Exists(in.OwnerID)
		if err != nil {
			return fmt.Errorf("查询用户失败: %w", err)
		}
		if !ok {
			return notFoundError("Owner not found")
		}

		taken, err := tx.Communities.NameExists(name)
		if err != nil {
			return fmt.Errorf("查询社区名称失败: %w", err)
		}
		if taken {
			return conflictError("Community name already exists")
		}

		if err := tx.Communities.Create(community); err != nil {
			return translateWrite(err, "Community name already exists", "创建社区失败")
		}
		owner := &model.CommunityMembership{
			UserID:      in.OwnerID,
			CommunityID: community.ID,
			Role:        model.MemberRoleOwner,
		}
		if err := tx.Memberships.Create(owner); err != nil {
			return translateWrite(err, "Already a member", "创建社区成员失败")
		}
		return tx.Outbox.Append(model.EventCommunityCreated, community.ID, map[string]interface{}{
			"community_id": community.ID,
			"owner_id":     in.OwnerID,
			"name":         name,
		})
	})
	if err != nil {
		return nil, err
	}

	logger.Info("社区创建成功", zap.Uint("community_id", community.ID), zap.Uint("owner_id", in.OwnerID))
	return community, nil
}

// List 全部社区，最新创建在前
func (s *CommunityService) List(ctx context.Context) ([]model.Community, error) {
	list, err := s.store.WithContext(ctx).Communities.List()
	if err != nil {
		return nil, fmt.Errorf("查询社区列表失败: %w", err)
	}
	return list, nil
}

// Get 按ID获取社区
func (s *CommunityService) Get(ctx context.Context, communityID uint) (*model.Community, error) {
	c, err := s.store.WithContext(ctx).Communities.GetByID(communityID)
	if err != nil {
		return nil, translateLookup(err, "Community not found", "查询社区失败")
	}
	return c, nil
}

// Delete 仅所有者可删除，消息与成员关系在同一事务中级联删除
func (s *CommunityService) Delete(ctx context.Context, communityID, userID uint) error {
	if userID == 0 {
		return validationError("user_id required")
	}
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		c, err := tx.Communities.GetByID(communityID)
		if err != nil {
			return translateLookup(err, "Community not found", "查询社区失败")
		}
		if c.OwnerID != userID {
			return permissionError("Only the owner can delete a community")
		}
		if err := tx.CommunityMsgs.DeleteByCommunity(communityID); err != nil {
			return fmt.Errorf("删除社区消息失败: %w", err)
		}
		if err := tx.Memberships.DeleteByCommunity(communityID); err != nil {
			return fmt.Errorf("删除社区成员失败: %w", err)
		}
		if err := tx.Communities.Delete(communityID); err != nil {
			return fmt.Errorf("删除社区失败: %w", err)
		}
		return tx.Outbox.Append(model.EventCommunityDeleted, communityID, map[string]interface{}{
			"community_id": communityID,
			"owner_id":     userID,
		})
	})
	if err != nil {
		return err
	}
	logger.Info("社区已删除", zap.Uint("community_id", communityID))
	return nil
}
