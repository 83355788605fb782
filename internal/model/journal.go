package model

import "time"

// Journal 日记
type Journal struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"not null;index" json:"user_id"`
	Title     string     `gorm:"type:varchar(255);not null" json:"title"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	MoodID    *uint      `gorm:"index" json:"mood_id"`
	IsPrivate bool       `gorm:"default:false" json:"is_private"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (Journal) TableName() string { return "journal_entries" }

// Mood 心情记录
type Mood struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;index" json:"user_id"`
	EmotionLabel string    `gorm:"type:varchar(50);not null" json:"emotion_label"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Mood) TableName() string { return "moods" }
