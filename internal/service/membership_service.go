package service

import (
	"context"
	"fmt"

	"mindhaven/internal/model"
	"mindhaven/internal/repository"
)

// MembershipService 社区成员管理
type MembershipService struct {
	store *repository.Store
}

func NewMembershipService(store *repository.Store) *MembershipService {
	return &MembershipService{store: store}
}

// Join 以 member 身份加入公开社区
func (s *MembershipService) Join(ctx context.Context, communityID, userID uint) (*model.CommunityMembership, error) {
	if userID == 0 {
		return nil, validationError("user_id required")
	}

	var membership *model.CommunityMembership
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		c, err := tx.Communities.GetByID(communityID)
		if err != nil {
			return translateLookup(err, "Community not found", "查询社区失败")
		}
		if c.IsPrivate {
			return permissionError("Cannot join private community directly")
		}
		if err := requireUsers(tx, userID); err != nil {
			return err
		}

		member, err := tx.Memberships.IsMember(communityID, userID)
		if err != nil {
			return fmt.Errorf("查询成员关系失败: %w", err)
		}
		if member {
			return conflictError("Already a member")
		}

		membership = &model.CommunityMembership{
			UserID:      userID,
			CommunityID: communityID,
			Role:        model.MemberRoleMember,
		}
		if err := tx.Memberships.Create(membership); err != nil {
			return translateWrite(err, "Already a member", "加入社区失败")
		}
		return tx.Outbox.Append(model.EventCommunityJoined, communityID, map[string]interface{}{
			"community_id": communityID,
			"user_id":      userID,
		})
	})
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// Leave 退出社区，所有者不可退出
func (s *MembershipService) Leave(ctx context.Context, communityID, userID uint) error {
	if userID == 0 {
		return validationError("user_id required")
	}
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		m, err := tx.Memberships.Get(communityID, userID)
		if err != nil {
			return translateLookup(err, "Not a member", "查询成员关系失败")
		}
		if m.IsOwner() {
			return permissionError("Owner cannot leave. Transfer ownership first.")
		}
		if err := tx.Memberships.Delete(m.ID); err != nil {
			return fmt.Errorf("退出社区失败: %w", err)
		}
		return tx.Outbox.Append(model.EventCommunityLeft, communityID, map[string]interface{}{
			"community_id": communityID,
			"user_id":      userID,
		})
	})
}

// IsMember 判断用户是否为社区成员
func (s *MembershipService) IsMember(ctx context.Context, communityID, userID uint) (bool, error) {
	ok, err := s.store.WithContext(ctx).Memberships.IsMember(communityID, userID)
	if err != nil {
		return false, fmt.Errorf("查询成员关系失败: %w", err)
	}
	return ok, nil
}

// Members 社区成员列表，按加入时间升序
func (s *MembershipService) Members(ctx context.Context, communityID uint) ([]model.CommunityMembership, error) {
	store := s.store.WithContext(ctx)
	if _, err := store.Communities.GetByID(communityID); err != nil {
		return nil, translateLookup(err, "Community not found", "查询社区失败")
	}
	list, err := store.Memberships.MembersOf(communityID)
	if err != nil {
		return nil, fmt.Errorf("查询社区成员失败: %w", err)
	}
	return list, nil
}
