package repository

import (
	"mindhaven/internal/model"

	"gorm.io/gorm"
)

type JournalRepository struct {
	db *gorm.DB
}

func (r *JournalRepository) Create(j *model.Journal) error {
	return r.db.Create(j).Error
}

func (r *JournalRepository) GetByID(id uint) (*model.Journal, error) {
	var j model.Journal
	if err := r.db.First(&j, id).Error; err != nil {
		return nil, notFound(err)
	}
	return &j, nil
}

// ListByUser 用户日记，最新在前
func (r *JournalRepository) ListByUser(userID uint) ([]model.Journal, error) {
	list := make([]model.Journal, 0)
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *JournalRepository) Save(j *model.Journal) error {
	return r.db.Save(j).Error
}

func (r *JournalRepository) Delete(id uint) error {
	return r.db.Delete(&model.Journal{}, id).Error
}

type MoodRepository struct {
	db *gorm.DB
}

func (r *MoodRepository) Create(m *model.Mood) error {
	return r.db.Create(m).Error
}

func (r *MoodRepository) ListByUser(userID uint) ([]model.Mood, error) {
	list := make([]model.Mood, 0)
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *MoodRepository) Exists(id uint) (bool, error) {
	var n int64
	err := r.db.Model(&model.Mood{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}
