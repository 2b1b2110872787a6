package sdk

import "fmt"

// Error represents an API error
type Error struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("code: %d, msg: %s", e.Code, e.Msg)
}

// NewError creates a new error
func NewError(code int, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// IsSuccess checks if the error code indicates success
func (e *Error) IsSuccess() bool {
	return e.Code == 0
}

// Common error codes
const (
	// Success
	CodeSuccess = 0

	// Common errors (1xxx)
	CodeInvalidParam    = 1001
	CodeInternalServer  = 1002
	CodeUnauthorized    = 1003
	CodeForbidden       = 1004
	CodeNotFound        = 1005
	CodeTooManyRequests = 1006
	CodeNoPermission    = 1007

	// Auth errors (2xxx)
	CodeTokenInvalid  = 2001
	CodeTokenExpired  = 2002
	CodeTokenMissing  = 2003
	CodeTokenMismatch = 2004
	CodeLoginFailed   = 2005
	CodeUserNotFound  = 2006
	CodeUserExists    = 2007
	CodePasswordWrong = 2008

	// Conversation errors (3xxx)
	CodeConvNotFound     = 3001
	CodeNotParticipant   = 3002
	CodeAlreadyInConv    = 3003
	CodeNotConvAdmin     = 3004
	CodeSelfConversation = 3005
	CodeInviteNotFound   = 3006
	CodeInviteExpired    = 3007
	CodeInviteExhausted  = 3008

	// Message errors (4xxx)
	CodeMessageNotFound = 4001
	CodeNotSender       = 4002
	CodeSendFailed      = 4003
	CodeStickerNotFound = 4004
	CodePinNotAllowed   = 4005

	// Friend errors (5xxx)
	CodeFriendRequestExists = 5001
	CodeNotFriends          = 5002
	CodeSelfFriendRequest   = 5003

	// Voice errors (6xxx)
	CodeVoiceRoomNotFound = 6001
	CodeNotInVoiceRoom    = 6002
)

// Predefined errors
var (
	ErrInvalidParam   = NewError(CodeInvalidParam, "invalid parameter")
	ErrInternalServer = NewError(CodeInternalServer, "internal server error")
	ErrUnauthorized   = NewError(CodeUnauthorized, "unauthorized")
	ErrForbidden      = NewError(CodeForbidden, "forbidden")
	ErrNotFound       = NewError(CodeNotFound, "not found")
	ErrNoPermission   = NewError(CodeNoPermission, "no permission to access this resource")

	ErrTokenInvalid  = NewError(CodeTokenInvalid, "token invalid")
	ErrTokenExpired  = NewError(CodeTokenExpired, "token expired")
	ErrUserNotFound  = NewError(CodeUserNotFound, "user not found")
	ErrUserExists    = NewError(CodeUserExists, "user already exists")
	ErrPasswordWrong = NewError(CodePasswordWrong, "password wrong")

	ErrConvNotFound    = NewError(CodeConvNotFound, "conversation not found")
	ErrNotParticipant  = NewError(CodeNotParticipant, "not a conversation participant")
	ErrInviteNotFound  = NewError(CodeInviteNotFound, "invite not found")
	ErrInviteExpired   = NewError(CodeInviteExpired, "invite expired")
	ErrInviteExhausted = NewError(CodeInviteExhausted, "invite has no uses left")
)
