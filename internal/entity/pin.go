package entity

// PinnedMessage holds the single pinned message of a conversation.
// The unique index on conversation_id makes replacement an overwrite.
type PinnedMessage struct {
	Id             int64 `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ConversationId int64 `json:"conversation_id" gorm:"column:conversation_id;uniqueIndex"`
	MessageId      int64 `json:"message_id" gorm:"column:message_id"`
	PinnedBy       int64 `json:"pinned_by" gorm:"column:pinned_by"`
	PinnedAt       int64 `json:"pinned_at" gorm:"column:pinned_at;autoCreateTime:milli"`
}

// TableName returns the table name for PinnedMessage
func (PinnedMessage) TableName() string {
	return "pinned_messages"
}
