package entity

// Invite is a shareable join token for a conversation.
// MaxUses == 0 means unlimited; consuming is a single guarded increment.
type Invite struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Token          string `json:"token" gorm:"column:token;uniqueIndex;size:64"`
	ConversationId int64  `json:"conversation_id" gorm:"column:conversation_id;index"`
	CreatorId      int64  `json:"creator_id" gorm:"column:creator_id"`
	ExpiresAt      *int64 `json:"expires_at" gorm:"column:expires_at"`
	MaxUses        int    `json:"max_uses" gorm:"column:max_uses"`
	Uses           int    `json:"uses" gorm:"column:uses"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
}

// TableName returns the table name for Invite
func (Invite) TableName() string {
	return "invites"
}

// IsExpired reports whether the invite has passed its expiry at the given time
func (i *Invite) IsExpired(nowMilli int64) bool {
	return i.ExpiresAt != nil && nowMilli >= *i.ExpiresAt
}

// IsExhausted reports whether the invite has no uses left
func (i *Invite) IsExhausted() bool {
	return i.MaxUses != 0 && i.Uses >= i.MaxUses
}
