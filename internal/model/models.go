package model

// All 返回需要自动迁移的全部模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&Therapist{},
		&Community{},
		&CommunityMembership{},
		&CommunityMessage{},
		&DirectMessage{},
		&Connection{},
		&Journal{},
		&Mood{},
		&Outbox{},
	}
}
