package repository

import (
	"mindhaven/internal/model"

	"gorm.io/gorm"
)

// CommunityRepository 社区数据仓储
type CommunityRepository struct {
	db *gorm.DB
}

// Create 插入社区，名称冲突时返回唯一键错误
func (r *CommunityRepository) Create(c *model.Community) error {
	return r.db.Create(c).Error
}

func (r *CommunityRepository) GetByID(id uint) (*model.Community, error) {
	var c model.Community
	if err := r.db.First(&c, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// NameExists 名称是否已存在
func (r *CommunityRepository) NameExists(name string) (bool, error) {
	var count int64
	err := r.db.Model(&model.Community{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

// List 全量返回，按创建时间倒序
func (r *CommunityRepository) List() ([]model.Community, error) {
	list := make([]model.Community, 0)
	err := r.db.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

// Delete 删除社区本身，子记录由调用方在同一事务中先行删除
func (r *CommunityRepository) Delete(id uint) error {
	return r.db.Delete(&model.Community{}, id).Error
}
