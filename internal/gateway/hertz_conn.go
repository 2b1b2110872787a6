package gateway

import (
	"sync"
	"time"

	"github.com/hertz-contrib/websocket"
	"github.com/mbeoliero/kit/log"
)

// hertzConn implements Conn using hertz-contrib/websocket
type hertzConn struct {
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

// NewHertzConn wraps a hertz websocket connection
func NewHertzConn(conn *websocket.Conn, maxMsgSize int64, pongWait, pingPeriod time.Duration) Conn {
	c := &hertzConn{
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
func (c *hertzConn) writeLoop() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		// The hertz connection may already be torn down by the server
		if r := recover(); r != nil {
			log.Debug("writeLoop recovered from panic: %v", r)
		}
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.writeChan:
			if !ok {
				return
			}
			if err := c.safeWriteMessage(websocket.TextMessage, message); err != nil {
				log.Debug("write message error: %v", err)
				return
			}

		case <-ticker.C:
			if err := c.safeWriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("ping error: %v", err)
				return
			}

		case <-c.closeChan:
			return
		}
	}
}

// safeWriteMessage writes a message with proper error handling
func (c *hertzConn) safeWriteMessage(messageType int, data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug("safeWriteMessage recovered from panic: %v", r)
			err = ErrConnClosed
		}
	}()

	c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// ReadMessage reads a message from the connection
func (c *hertzConn) ReadMessage() ([]byte, error) {
	c.conn.SetReadDeadline(time.Now().Add(c.pongWait))
	_, message, err := c.conn.ReadMessage()
	return message, err
}

// WriteMessage queues a message to be written
func (c *hertzConn) WriteMessage(data []byte) error {
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
func (c *hertzConn) Close(code int, reason string) error {
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
