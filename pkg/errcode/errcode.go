package errcode

import "fmt"

// Error represents a business error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("errcode: %d, msg: %s", e.Code, e.Msg)
}

// New creates a new error with code and message
func New(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// Wrap wraps an error with additional context
func (e *Error) Wrap(err error) *Error {
	if err == nil {
		return e
	}
	return &Error{
		Code: e.Code,
		Msg:  fmt.Sprintf("%s: %v", e.Msg, err),
	}
}

// Common error codes
var (
	// Success
	ErrSuccess = New(0, "success")

	// Common errors (1xxx)
	ErrInvalidParam    = New(1001, "invalid parameter")
	ErrInternalServer  = New(1002, "internal server error")
	ErrUnauthorized    = New(1003, "unauthorized")
	ErrForbidden       = New(1004, "forbidden")
	ErrNotFound        = New(1005, "not found")
	ErrTooManyRequests = New(1006, "too many requests")
	ErrNoPermission    = New(1007, "no permission to access this resource")

	// Auth errors (2xxx)
	ErrTokenInvalid  = New(2001, "token invalid")
	ErrTokenExpired  = New(2002, "token expired")
	ErrTokenMissing  = New(2003, "token missing")
	ErrTokenMismatch = New(2004, "token user mismatch")
	ErrLoginFailed   = New(2005, "login failed")
	ErrUserNotFound  = New(2006, "user not found")
	ErrUserExists    = New(2007, "user already exists")
	ErrPasswordWrong = New(2008, "password wrong")

	// Conversation errors (3xxx)
	ErrConvNotFound     = New(3001, "conversation not found")
	ErrNotParticipant   = New(3002, "not a conversation participant")
	ErrAlreadyInConv    = New(3003, "already a participant")
	ErrNotConvAdmin     = New(3004, "not a conversation admin")
	ErrSelfConversation = New(3005, "cannot open a private chat with yourself")
	ErrInviteNotFound   = New(3006, "invite not found")
	ErrInviteExpired    = New(3007, "invite expired")
	ErrInviteExhausted  = New(3008, "invite has no uses left")

	// Message errors (4xxx)
	ErrMessageNotFound = New(4001, "message not found")
	ErrNotSender       = New(4002, "not the message sender")
	ErrSendFailed      = New(4003, "message send failed")
	ErrStickerNotFound = New(4004, "sticker not found")
	ErrPinNotAllowed   = New(4005, "no permission to pin")

	// Friend errors (5xxx)
	ErrFriendRequestExists = New(5001, "friend request already exists")
	ErrNotFriends          = New(5002, "users are not friends")
	ErrSelfFriendRequest   = New(5003, "cannot add yourself as a friend")

	// Voice errors (6xxx)
	ErrVoiceRoomNotFound = New(6001, "voice room not found")
	ErrNotInVoiceRoom    = New(6002, "user is not in the voice room")

	// WebSocket errors (7xxx)
	ErrConnOverLimit   = New(7001, "connection over max limit")
	ErrConnClosed      = New(7002, "connection closed")
	ErrInvalidProtocol = New(7003, "invalid protocol")
	ErrPushFailed      = New(7004, "push message failed")
)
