package gateway

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mbeoliero/kit/log"
)

// Conn abstracts one socket so sessions can be driven without a live
// transport. One JSON envelope per frame.
type Conn interface {
	// ReadMessage blocks for the next inbound frame; any error means
	// the connection is gone
	ReadMessage() ([]byte, error)
	// WriteMessage enqueues one outbound frame
	WriteMessage(data []byte) error
	// Close sends a close frame with the given code and tears the
	// connection down. Safe to call more than once.
	Close(code int, reason string) error
}

// gorillaConn implements Conn using gorilla/websocket
type gorillaConn struct {
	conn       *websocket.Conn
	writeChan  chan []byte
	writeMu    sync.Mutex
	closeOnce  sync.Once
	closed     bool
	closeChan  chan struct{}
	pingPeriod time.Duration
	pongWait   time.Duration
	writeWait  time.Duration
}

// NewGorillaConn wraps a gorilla websocket connection
func NewGorillaConn(conn *websocket.Conn, maxMsgSize int64, pongWait, pingPeriod time.Duration) Conn {
	c := &gorillaConn{
		conn:       conn,
		writeChan:  make(chan []byte, 256),
		closeChan:  make(chan struct{}),
		pingPeriod: pingPeriod,
		pongWait:   pongWait,
		writeWait:  WriteWait,
	}

	conn.SetReadLimit(maxMsgSize)
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.writeLoop()

	return c
}

// writeLoop handles all writes to the connection (single writer pattern)
func (c *gorillaConn) writeLoop() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.writeChan:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug("write message error: %v", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("ping error: %v", err)
				return
			}

		case <-c.closeChan:
			return
		}
	}
}

// ReadMessage reads a message from the connection
func (c *gorillaConn) ReadMessage() ([]byte, error) {
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	_, message, err := c.conn.ReadMessage()
	return message, err
}

// WriteMessage queues a message to be written
func (c *gorillaConn) WriteMessage(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return ErrConnClosed
	}

	select {
	case c.writeChan <- data:
		return nil
	default:
		// Channel full, connection is a slow consumer
		return ErrWriteChannelFull
	}
}

// Close sends the close frame and shuts the write loop down
func (c *gorillaConn) Close(code int, reason string) error {
	c.closeOnce.Do(func() {
		msg := websocket.FormatCloseMessage(code, reason)
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(c.writeWait))

		c.writeMu.Lock()
		c.closed = true
		close(c.writeChan)
		c.writeMu.Unlock()

		close(c.closeChan)
	})
	return nil
}
