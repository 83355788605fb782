package repository

import (
	"mindhaven/internal/model"

	"gorm.io/gorm"
)

// MembershipRepository 社区成员数据仓储
type MembershipRepository struct {
	db *gorm.DB
}

// Create 插入成员关系，(user, community) 重复时返回唯一键错误
func (r *MembershipRepository) Create(m *model.CommunityMembership) error {
	return r.db.Create(m).Error
}

func (r *MembershipRepository) Get(communityID, userID uint) (*model.CommunityMembership, error) {
	var m model.CommunityMembership
	err := r.db.Where("community_id = ? AND user_id = ?", communityID, userID).First(&m).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (r *MembershipRepository) IsMember(communityID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.CommunityMembership{}).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Count(&count).Error
	return count > 0, err
}

// Delete 按主键删除
func (r *MembershipRepository) Delete(id uint) error {
	return r.db.Delete(&model.CommunityMembership{}, id).Error
}

// MembersOf 社区成员列表，按加入时间升序
func (r *MembershipRepository) MembersOf(communityID uint) ([]model.CommunityMembership, error) {
	list := make([]model.CommunityMembership, 0)
	err := r.db.Where("community_id = ?", communityID).
		Order("joined_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

// MemberIDs 社区全部成员ID
func (r *MembershipRepository) MemberIDs(communityID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.CommunityMembership{}).
		Where("community_id = ?", communityID).
		Pluck("user_id", &ids).Error
	return ids, err
}

func (r *MembershipRepository) DeleteByCommunity(communityID uint) error {
	return r.db.Where("community_id = ?", communityID).Delete(&model.CommunityMembership{}).Error
}
