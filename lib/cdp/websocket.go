package cdp

import (
	"context"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocket is the default transport, based on gorilla/websocket
type WebSocket struct {
	// WriteBufferSize of the dialer, default is 1MB
	WriteBufferSize int

	once sync.Once
	conn *websocket.Conn
}

var _ WebSocketable = &WebSocket{}

// Connect interface
func (ws *WebSocket) Connect(ctx context.Context, url string, header http.Header) error {
	dialer := *websocket.DefaultDialer
	dialer.WriteBufferSize = ws.WriteBufferSize
	if dialer.WriteBufferSize == 0 {
		dialer.WriteBufferSize = 1024 * 1024
	}

	conn, _, err := dialer.DialContext(ctx, url, header)
	if err != nil {
		return err
	}

	ws.conn = conn
	return nil
}

// Send a message
func (ws *WebSocket) Send(data []byte) error {
	return ws.conn.WriteMessage(websocket.TextMessage, data)
}

// Read a text message, other types are skipped
func (ws *WebSocket) Read() (data []byte, err error) {
	var msgType = -1
	for msgType != websocket.TextMessage && err == nil {
		msgType, data, err = ws.conn.ReadMessage()
	}
	return
}

// Close the connection, safe to call more than once
func (ws *WebSocket) Close() error {
	var err error
	ws.once.Do(func() {
		if ws.conn != nil {
			err = ws.conn.Close()
		}
	})
	return err
}
