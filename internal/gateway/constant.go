package gateway

import "time"

// WebSocket close codes. 4xxx codes are application-defined,
// 1011 is the standard internal-error code.
const (
	CloseNormal          = 1000
	CloseUnauthenticated = 4001
	CloseForbidden       = 4003
	CloseInternalError   = 1011
)

// Timeout constants
const (
	// WriteWait is time allowed to write a message to the peer
	WriteWait = 10 * time.Second

	// PongWait is time allowed to read the next pong message from the peer
	PongWait = 30 * time.Second

	// PingPeriod is period between pings. Must be less than PongWait
	PingPeriod = (PongWait * 9) / 10

	// MaxMessageSize is maximum message size allowed from peer
	MaxMessageSize = 51200
)

// QueryToken is the query parameter carrying the socket auth token
const QueryToken = "token"
