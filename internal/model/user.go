package model

import (
	"time"
)

// 用户角色
const (
	RoleUser      = "user"
	RoleTherapist = "therapist"
	RoleAdmin     = "admin"
)

// User 用户模型
// 用户名、邮箱、手机号唯一；密码仅存储哈希
// ResetToken 为找回密码令牌，过期时间见 ResetTokenExpires
type User struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Username          string     `gorm:"type:varchar(80);not null;uniqueIndex;comment:用户名" json:"username"`
	Email             string     `gorm:"type:varchar(120);not null;uniqueIndex;comment:邮箱" json:"email"`
	PhoneNumber       *string    `gorm:"type:varchar(20);uniqueIndex;comment:手机号" json:"phone_number"`
	PasswordHash      string     `gorm:"type:varchar(255);not null;comment:密码哈希" json:"-"`
	Role              string     `gorm:"type:varchar(50);not null;default:'user';comment:角色" json:"role"`
	IsVerified        bool       `gorm:"default:false" json:"is_verified"`
	ProfileImage      string     `gorm:"type:varchar(255)" json:"profile_image"`
	ResetToken        *string    `gorm:"type:varchar(255);index" json:"-"`
	ResetTokenExpires *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// IsAdmin 是否管理员
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Therapist 咨询师资料，与 User 一对一
type Therapist struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Specialty    string    `gorm:"type:varchar(100);not null" json:"specialty"`
	Bio          string    `gorm:"type:text" json:"bio"`
	ContactEmail string    `gorm:"type:varchar(150)" json:"contact_email"`
	PhoneNumber  string    `gorm:"type:varchar(50)" json:"phone_number"`
	ProfileImage string    `gorm:"type:text" json:"profile_image"`
	Verified     bool      `gorm:"default:false" json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
}

func (Therapist) TableName() string { return "therapists" }
