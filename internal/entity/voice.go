package entity

// VoiceRoom is the voice counterpart of a conversation, created lazily
// on first visit. IsActive is derived from membership and never toggled
// on its own.
type VoiceRoom struct {
	Id             int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ConversationId int64 `json:"conversation_id" gorm:"column:conversation_id;uniqueIndex"`
	IsActive       bool  `json:"is_active" gorm:"column:is_active"`
	CreatedAt      int64 `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt      int64 `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for VoiceRoom
func (VoiceRoom) TableName() string {
	return "voice_rooms"
}

// VoiceRoomMember is one entry of a room's active_users set.
// Joining and leaving are explicit actions, decoupled from the
// signaling socket's lifetime.
type VoiceRoomMember struct {
	Id          int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	VoiceRoomId int64 `json:"voice_room_id" gorm:"column:voice_room_id;uniqueIndex:idx_room_user"`
	UserId      int64 `json:"user_id" gorm:"column:user_id;uniqueIndex:idx_room_user"`
	JoinedAt    int64 `json:"joined_at" gorm:"column:joined_at;autoCreateTime:milli"`
}

// TableName returns the table name for VoiceRoomMember
func (VoiceRoomMember) TableName() string {
	return "voice_room_members"
}
