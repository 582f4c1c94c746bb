package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/teslashibe/go-sway/pkg/protocol"
)

// Client is an input source connected to a Relay.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// Dial connects to a relay endpoint such as ws://host:port/ws/input/name.
func Dial(ctx context.Context, url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// SendPointer sends a pointer position.
func (c *Client) SendPointer(x, y float64) error {
	msg, err := protocol.NewPointerMessage(x, y)
	if err != nil {
		return err
	}
	return c.Send(msg)
}

// SendWindow sends a window position.
func (c *Client) SendWindow(x, y int, available bool) error {
	msg, err := protocol.NewWindowMessage(x, y, available)
	if err != nil {
		return err
	}
	return c.Send(msg)
}

// SendFlags sends animator flags. Nil flags are left unchanged.
func (c *Client) SendFlags(dragging, sitting *bool, state string) error {
	msg, err := protocol.NewFlagsMessage(dragging, sitting, state)
	if err != nil {
		return err
	}
	return c.Send(msg)
}

// Ping sends a ping; the pong arrives through Read.
func (c *Client) Ping(id string) error {
	msg, err := protocol.NewPingMessage(id)
	if err != nil {
		return err
	}
	return c.Send(msg)
}

// Send writes one message.
func (c *Client) Send(msg *protocol.Message) error {
	data, err := msg.Bytes()
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Read blocks for the next message from the relay.
func (c *Client) Read() (*protocol.Message, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return protocol.ParseMessage(data)
}

// Close sends a close frame and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.mu.Unlock()
	return c.conn.Close()
}
