package entity

// Message represents one message in a conversation.
// Rows are append-only ordered by CreatedAt; edits and deletes flip
// flags or content but never reorder or remove a row.
type Message struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey"`
	ConversationId int64  `json:"conversation_id" gorm:"column:conversation_id;index:idx_conv_created"`
	SenderId       *int64 `json:"sender_id" gorm:"column:sender_id"`
	Content        string `json:"content" gorm:"column:content;type:text"`
	CreatedAt      int64  `json:"created_at" gorm:"column:created_at;index:idx_conv_created"`
	EditedAt       *int64 `json:"edited_at" gorm:"column:edited_at"`
	IsDeleted      bool   `json:"is_deleted" gorm:"column:is_deleted"`
	IsRead         bool   `json:"is_read" gorm:"column:is_read"`
	StickerId      *int64 `json:"sticker_id" gorm:"column:sticker_id"`
	FileName       string `json:"file_name" gorm:"column:file_name"`
	FileSize       int64  `json:"file_size" gorm:"column:file_size"`
	FileType       string `json:"file_type" gorm:"column:file_type;size:100"`
}

// TableName returns the table name for Message
func (Message) TableName() string {
	return "messages"
}

// HasAttachment reports whether the message carries file metadata
func (m *Message) HasAttachment() bool {
	return m.FileName != ""
}

// FileMeta is attached file metadata on a message
type FileMeta struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// Attachment returns the file metadata, or nil when the message has none
func (m *Message) Attachment() *FileMeta {
	if !m.HasAttachment() {
		return nil
	}
	return &FileMeta{Name: m.FileName, Size: m.FileSize, Type: m.FileType}
}

// MessageInfo represents message info for API response
type MessageInfo struct {
	Id             int64     `json:"id"`
	ConversationId int64     `json:"conversation_id"`
	Sender         *UserBrief `json:"sender,omitempty"`
	Content        string    `json:"content"`
	CreatedAt      int64     `json:"created_at"`
	EditedAt       *int64    `json:"edited_at,omitempty"`
	IsDeleted      bool      `json:"is_deleted"`
	StickerId      *int64    `json:"sticker_id,omitempty"`
	File           *FileMeta `json:"file,omitempty"`
}

// ToMessageInfo converts Message to MessageInfo with an optional sender view
func (m *Message) ToMessageInfo(sender *UserBrief) *MessageInfo {
	info := &MessageInfo{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		Sender:         sender,
		Content:        m.Content,
		CreatedAt:      m.CreatedAt,
		EditedAt:       m.EditedAt,
		IsDeleted:      m.IsDeleted,
		StickerId:      m.StickerId,
		File:           m.Attachment(),
	}
	if m.IsDeleted {
		info.Content = ""
	}
	return info
}

// Sticker represents an uploadable sticker referenced by messages
type Sticker struct {
	Id        int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name      string `json:"name" gorm:"column:name;size:100"`
	Image     string `json:"image" gorm:"column:image"`
	OwnerId   *int64 `json:"owner_id" gorm:"column:owner_id"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
}

// TableName returns the table name for Sticker
func (Sticker) TableName() string {
	return "stickers"
}
