package repository

import (
	"errors"
	"time"

	"mindhaven/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func (r *UserRepository) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) CreateTherapist(t *model.Therapist) error {
	return r.db.Create(t).Error
}

// GetByID 不存在时返回 ErrNotFound
func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	var u model.User
	if err := r.db.First(&u, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// Exists 判断用户是否存在
func (r *UserRepository) Exists(id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	var count int64
	if err := r.db.Model(&model.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	var u model.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UsernameOrEmailTaken 用户名或邮箱是否已被占用
func (r *UserRepository) UsernameOrEmailTaken(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *UserRepository) GetByResetToken(token string) (*model.User, error) {
	var u model.User
	if err := r.db.Where("reset_token = ?", token).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// SetResetToken 设置找回密码令牌
func (r *UserRepository) SetResetToken(id uint, token string, expires time.Time) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{"reset_token": token, "reset_token_expires": expires}).Error
}

// ResetPassword 更新密码并清空令牌
func (r *UserRepository) ResetPassword(id uint, hash string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash":       hash,
			"reset_token":         nil,
			"reset_token_expires": nil,
		}).Error
}

func (r *UserRepository) UpdateRole(id uint, role string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Update("role", role).Error
}

// List 按注册时间倒序分页
func (r *UserRepository) List(offset, limit int) ([]model.User, int64, error) {
	var total int64
	if err := r.db.Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []model.User
	err := r.db.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (r *UserRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.User{}).Count(&n).Error
	return n, err
}

func (r *UserRepository) CountTherapists(onlyUnverified bool) (int64, error) {
	var n int64
	q := r.db.Model(&model.Therapist{})
	if onlyUnverified {
		q = q.Where("verified = ?", false)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *UserRepository) GetTherapistByUserID(userID uint) (*model.Therapist, error) {
	var t model.Therapist
	if err := r.db.Where("user_id = ?", userID).First(&t).Error; err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *UserRepository) ListTherapists() ([]model.Therapist, error) {
	var list []model.Therapist
	err := r.db.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

// VerifyTherapist 标记咨询师已认证，不存在时返回 ErrNotFound
func (r *UserRepository) VerifyTherapist(id uint) error {
	var t model.Therapist
	if err := r.db.First(&t, id).Error; err != nil {
		return notFound(err)
	}
	return r.db.Model(&t).Update("verified", true).Error
}

var ErrNotFound = errors.New("record not found")

// notFound 将 gorm.ErrRecordNotFound 统一为 ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
