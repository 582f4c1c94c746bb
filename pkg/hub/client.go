package hub

import (
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// Keepalive timing. Browsers answer control pings on their own; a peer that
// sends nothing, not even a pong, for idleTimeout is dropped.
const (
	writeTimeout = 5 * time.Second
	idleTimeout  = 45 * time.Second
	pingEvery    = idleTimeout / 3

	readLimit  = 4 << 10
	sendBuffer = 64
)

// Client is one websocket observer of a Hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan Message

	// Closed by the hub to end the connection
	quit     chan struct{}
	quitOnce sync.Once
}

// NewClient creates a client for conn. Call Run from the websocket handler.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan Message, sendBuffer),
		quit: make(chan struct{}),
	}
}

// stop ends the connection. Safe to call more than once.
func (c *Client) stop() {
	c.quitOnce.Do(func() { close(c.quit) })
}

// Run registers the client, queues the initial messages ahead of any
// broadcast, and serves the connection until it closes or the hub stops.
func (c *Client) Run(initial ...Message) {
	for _, m := range initial {
		c.enqueue(m)
	}

	select {
	case c.hub.register <- c:
	case <-c.hub.done:
		c.conn.Close()
		return
	}

	go c.transmit()
	c.receive()
}

// enqueue queues m without blocking. It reports false when the buffer is full.
func (c *Client) enqueue(m Message) bool {
	select {
	case c.send <- m:
		return true
	default:
		return false
	}
}

// receive reads until the peer goes away. Text frames are offered to the
// hub's replier; anything else only extends the idle deadline.
func (c *Client) receive() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	extend := func() { _ = c.conn.SetReadDeadline(time.Now().Add(idleTimeout)) }
	c.conn.SetReadLimit(readLimit)
	extend()
	c.conn.SetPongHandler(func(string) error {
		extend()
		return nil
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		extend()
		if kind != websocket.TextMessage || c.hub.reply == nil {
			continue
		}
		if out, ok := c.hub.reply(data); ok && !c.enqueue(NewJSONMessage(out)) {
			c.hub.dropped.Add(1)
		}
	}
}

// transmit owns all writes to the connection. It returns when the hub
// stops the client or a write fails.
func (c *Client) transmit() {
	ping := time.NewTicker(pingEvery)
	defer ping.Stop()
	defer c.conn.Close()

	for {
		var (
			kind int
			data []byte
		)
		select {
		case <-c.quit:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
			return
		case m := <-c.send:
			kind, data = websocket.TextMessage, m.Data
		case <-ping.C:
			kind = websocket.PingMessage
		}

		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(kind, data); err != nil {
			return
		}
	}
}
