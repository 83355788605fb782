package model

import "time"

// 成员角色
const (
	MemberRoleOwner  = "owner"
	MemberRoleMember = "member"
)

// Community 社区
// 名称全局唯一；删除社区时由业务层级联删除成员与消息
type Community struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(150);not null;uniqueIndex;comment:社区名称" json:"name"`
	Description string    `gorm:"type:text;comment:描述" json:"description"`
	IsPrivate   bool      `gorm:"not null;default:false;comment:是否私有" json:"is_private"`
	OwnerID     uint      `gorm:"not null;index;comment:创建者" json:"owner_id"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

func (Community) TableName() string { return "communities" }

// CommunityMembership 社区成员关系，(user_id, community_id) 唯一
type CommunityMembership struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;uniqueIndex:uk_membership_user_community,priority:1" json:"user_id"`
	CommunityID uint      `gorm:"not null;index;uniqueIndex:uk_membership_user_community,priority:2" json:"community_id"`
	Role        string    `gorm:"type:varchar(50);not null;default:'member';comment:owner/admin/member" json:"role"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

func (CommunityMembership) TableName() string { return "community_memberships" }

// IsOwner 是否为社区所有者
func (m *CommunityMembership) IsOwner() bool { return m.Role == MemberRoleOwner }
