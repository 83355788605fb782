package repository

import (
	"mindhaven/internal/model"

	"gorm.io/gorm"
)

// CommunityMessageRepository 社区消息数据仓储
type CommunityMessageRepository struct {
	db *gorm.DB
}

func (r *CommunityMessageRepository) Create(m *model.CommunityMessage) error {
	return r.db.Create(m).Error
}

// ListByCommunity 社区消息，按时间升序
func (r *CommunityMessageRepository) ListByCommunity(communityID uint) ([]model.CommunityMessage, error) {
	list := make([]model.CommunityMessage, 0)
	err := r.db.Where("community_id = ?", communityID).
		Order("created_at ASC, id ASC").
		Find(&list).Error
	return list, err
}

func (r *CommunityMessageRepository) DeleteByCommunity(communityID uint) error {
	return r.db.Where("community_id = ?", communityID).Delete(&model.CommunityMessage{}).Error
}

// DirectMessageRepository 私信数据仓储
type DirectMessageRepository struct {
	db *gorm.DB
}

func (r *DirectMessageRepository) Create(m *model.DirectMessage) error {
	return r.db.Create(m).Error
}

func (r *DirectMessageRepository) GetByID(id uint) (*model.DirectMessage, error) {
	var m model.DirectMessage
	if err := r.db.First(&m, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

// Inbox 收件箱，按时间倒序
func (r *DirectMessageRepository) Inbox(recipientID uint) ([]model.DirectMessage, error) {
	list := make([]model.DirectMessage, 0)
	err := r.db.Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// MarkAsRead 仅在未读时更新，返回是否发生状态变化
func (r *DirectMessageRepository) MarkAsRead(id uint) (bool, error) {
	res := r.db.Model(&model.DirectMessage{}).
		Where("id = ? AND is_read = ?", id, false).
		Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}

// UnreadCount 用户未读私信数量
func (r *DirectMessageRepository) UnreadCount(recipientID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.DirectMessage{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}
