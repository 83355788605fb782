package repository

import (
	"time"

	"mindhaven/internal/model"

	"gorm.io/gorm"
)

// ConnectionRepository 用户连接数据仓储
type ConnectionRepository struct {
	db *gorm.DB
}

// Create 插入连接，同一无序用户对重复时返回唯一键错误
func (r *ConnectionRepository) Create(c *model.Connection) error {
	return r.db.Create(c).Error
}

// FindPair 查找两用户之间的连接（不区分方向）
func (r *ConnectionRepository) FindPair(a, b uint) (*model.Connection, error) {
	var c model.Connection
	err := r.db.Where(
		"(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		a, b, b, a,
	).First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// Accept 将待处理连接置为已接受，changed 为 false 表示连接已不再是 pending
func (r *ConnectionRepository) Accept(c *model.Connection, at time.Time) (changed bool, err error) {
	res := r.db.Model(&model.Connection{}).
		Where("id = ? AND status = ?", c.ID, model.ConnectionPending).
		Updates(map[string]interface{}{"status": model.ConnectionAccepted, "accepted_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	c.Status = model.ConnectionAccepted
	c.AcceptedAt = &at
	return true, nil
}

// ListAccepted 用户作为任一方的已接受连接
func (r *ConnectionRepository) ListAccepted(userID uint) ([]model.Connection, error) {
	list := make([]model.Connection, 0)
	err := r.db.Where("(requester_id = ? OR addressee_id = ?) AND status = ?",
		userID, userID, model.ConnectionAccepted).
		Find(&list).Error
	return list, err
}
