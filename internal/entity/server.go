package entity

// Server is a named community owning an ordered list of channels
type Server struct {
	Id        int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	Name      string `json:"name" gorm:"column:name;size:100"`
	OwnerId   int64  `json:"owner_id" gorm:"column:owner_id;index"`
	Avatar    string `json:"avatar" gorm:"column:avatar"`
	CreatedAt int64  `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
}

// TableName returns the table name for Server
func (Server) TableName() string {
	return "servers"
}

// ServerMember links a user to a server with a role
type ServerMember struct {
	Id       int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserId   int64  `json:"user_id" gorm:"column:user_id;uniqueIndex:idx_user_server"`
	ServerId int64  `json:"server_id" gorm:"column:server_id;uniqueIndex:idx_user_server"`
	Role     string `json:"role" gorm:"column:role;size:50"`
	JoinedAt int64  `json:"joined_at" gorm:"column:joined_at;autoCreateTime:milli"`
}

// TableName returns the table name for ServerMember
func (ServerMember) TableName() string {
	return "server_members"
}

// Channel is a text or voice channel inside a server. Each channel is
// backed by a group conversation so messaging and voice reuse the same
// fan-out machinery.
type Channel struct {
	Id             int64  `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	ServerId       int64  `json:"server_id" gorm:"column:server_id;index"`
	ConversationId int64  `json:"conversation_id" gorm:"column:conversation_id"`
	Name           string `json:"name" gorm:"column:name;size:100"`
	Type           string `json:"type" gorm:"column:type;size:10"`
	Position       int    `json:"position" gorm:"column:position"`
}

// TableName returns the table name for Channel
func (Channel) TableName() string {
	return "channels"
}
