package constant

// Conversation kinds
const (
	ConvKindPrivate  = "private"
	ConvKindGroup    = "group"
	ConvKindFavorite = "favorite"
)

// Friendship status
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
	FriendshipRejected = "rejected"
)

// Manual user status
const (
	StatusOnline    = "online"
	StatusIdle      = "idle"
	StatusOffline   = "offline"
	StatusInvisible = "invisible"
)

// Channel types
const (
	ChannelTypeText  = "text"
	ChannelTypeVoice = "voice"
)

// Server member roles
const (
	ServerRoleMember = "member"
	ServerRoleAdmin  = "admin"
	ServerRoleOwner  = "owner"
)

// Platform Ids
const (
	PlatformIdUnknown = 0
	PlatformIdIOS     = 1
	PlatformIdAndroid = 2
	PlatformIdWindows = 3
	PlatformIdMacOS   = 4
	PlatformIdWeb     = 5
)

// PlatformIdToName converts platform Id to name
func PlatformIdToName(platformId int) string {
	switch platformId {
	case PlatformIdIOS:
		return "iOS"
	case PlatformIdAndroid:
		return "Android"
	case PlatformIdWindows:
		return "Windows"
	case PlatformIdMacOS:
		return "macOS"
	case PlatformIdWeb:
		return "Web"
	default:
		return "Unknown"
	}
}

// Redis key patterns (without prefix, use RedisKey() to get full key)
const (
	redisKeyToken  = "token:%d:%d" // token:{user_id}:{platform_id}
	redisKeyOnline = "online:%d"   // online:{user_id}
	redisKeyUser   = "user:%d"     // user:{user_id}
)

// redisKeyPrefix is the global prefix for all Redis keys
var redisKeyPrefix = "concord:"

// InitRedisKeyPrefix initializes the Redis key prefix from config
func InitRedisKeyPrefix(prefix string) {
	if prefix != "" {
		redisKeyPrefix = prefix
	}
}

// GetRedisKeyPrefix returns the current Redis key prefix
func GetRedisKeyPrefix() string {
	return redisKeyPrefix
}

// Redis key getters with prefix
func RedisKeyToken() string  { return redisKeyPrefix + redisKeyToken }
func RedisKeyOnline() string { return redisKeyPrefix + redisKeyOnline }
func RedisKeyUser() string   { return redisKeyPrefix + redisKeyUser }
