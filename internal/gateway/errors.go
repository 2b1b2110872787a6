package gateway

import "errors"

// Gateway errors
var (
	ErrConnClosed       = errors.New("connection closed")
	ErrWriteChannelFull = errors.New("write channel full")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrMissingField     = errors.New("missing required field")
)
