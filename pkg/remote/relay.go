// Package remote relays pointer, window and flag updates from WebSocket input
// sources into the controller's probes.
package remote

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teslashibe/go-sway/pkg/protocol"
	"github.com/teslashibe/go-sway/pkg/velocity"
)

var (
	_ velocity.WindowProbe  = (*Relay)(nil)
	_ velocity.PointerProbe = (*Relay)(nil)
)

// Source represents a connected input source
type Source struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time
	LastSeen  time.Time

	mu sync.Mutex
}

// Send sends a message to the source
func (s *Source) Send(msg *protocol.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	return s.Conn.WriteMessage(websocket.TextMessage, data)
}

// Relay accepts input sources over WebSocket and exposes the most recent
// positions as probes. All sources share one pointer and one window; the last
// writer wins.
type Relay struct {
	mu      sync.RWMutex
	sources map[string]*Source
	log     *zap.Logger

	pointerX, pointerY float64
	windowX, windowY   int
	windowOK           bool

	onFlags func(sourceID string, flags *protocol.FlagsData)

	// Stats
	messagesReceived atomic.Uint64
	messagesSent     atomic.Uint64
	rejected         atomic.Uint64
}

// Option configures a Relay.
type Option func(*Relay)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(r *Relay) {
		if l != nil {
			r.log = l
		}
	}
}

// NewRelay creates a relay with no sources.
func NewRelay(opts ...Option) *Relay {
	r := &Relay{
		sources: make(map[string]*Source),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// OnFlags sets the callback for incoming flag updates. It runs on the
// source's connection goroutine.
func (r *Relay) OnFlags(callback func(sourceID string, flags *protocol.FlagsData)) {
	r.mu.Lock()
	r.onFlags = callback
	r.mu.Unlock()
}

// PointerPosition implements velocity.PointerProbe.
func (r *Relay) PointerPosition() (float64, float64) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.pointerX, r.pointerY
}

// WindowPosition implements velocity.WindowProbe. It reports unavailable
// until a source sends a window position.
func (r *Relay) WindowPosition() (int, int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.windowX, r.windowY, r.windowOK
}

// RegisterRoutes registers the input WebSocket routes on a Fiber app
func (r *Relay) RegisterRoutes(app *fiber.App) {
	// WebSocket upgrade middleware
	app.Use("/ws/input", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/input", websocket.New(r.handleSource))
	app.Get("/ws/input/:id", websocket.New(r.handleSource))
}

// handleSource handles one input source connection
func (r *Relay) handleSource(c *websocket.Conn) {
	sourceID := c.Params("id")
	if sourceID == "" {
		sourceID = uuid.NewString()
	}

	src := &Source{
		ID:        sourceID,
		Conn:      c,
		Connected: time.Now(),
		LastSeen:  time.Now(),
	}

	r.mu.Lock()
	r.sources[sourceID] = src
	count := len(r.sources)
	r.mu.Unlock()

	r.log.Info("input source connected", zap.String("source", sourceID), zap.Int("total", count))

	defer func() {
		r.mu.Lock()
		if r.sources[sourceID] == src {
			delete(r.sources, sourceID)
		}
		count := len(r.sources)
		r.mu.Unlock()

		r.log.Info("input source disconnected", zap.String("source", sourceID), zap.Int("total", count))
	}()

	// Read loop
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			r.log.Debug("input source read error", zap.String("source", sourceID), zap.Error(err))
			return
		}

		src.mu.Lock()
		src.LastSeen = time.Now()
		src.mu.Unlock()

		r.messagesReceived.Add(1)
		r.handleMessage(src, data)
	}
}

// handleMessage applies one message from a source
func (r *Relay) handleMessage(src *Source, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		r.reject(src, err.Error())
		return
	}

	switch msg.Type {
	case protocol.TypePointer:
		p, err := msg.GetPointerData()
		if err != nil {
			r.reject(src, err.Error())
			return
		}
		r.mu.Lock()
		r.pointerX, r.pointerY = p.X, p.Y
		r.mu.Unlock()

	case protocol.TypeWindow:
		w, err := msg.GetWindowData()
		if err != nil {
			r.reject(src, err.Error())
			return
		}
		r.mu.Lock()
		r.windowX, r.windowY, r.windowOK = w.X, w.Y, w.Available
		r.mu.Unlock()

	case protocol.TypeFlags:
		f, err := msg.GetFlagsData()
		if err != nil {
			r.reject(src, err.Error())
			return
		}
		r.mu.RLock()
		cb := r.onFlags
		r.mu.RUnlock()
		if cb != nil {
			cb(src.ID, f)
		}

	case protocol.TypePing:
		var id string
		if p, err := msg.GetPingData(); err == nil {
			id = p.ID
		}
		pong, err := protocol.NewPongMessage(id, msg.Timestamp, time.Now().UnixMilli())
		if err == nil {
			r.send(src, pong)
		}

	default:
		r.reject(src, "unsupported message type: "+string(msg.Type))
	}
}

func (r *Relay) reject(src *Source, reason string) {
	r.rejected.Add(1)
	r.log.Debug("input rejected", zap.String("source", src.ID), zap.String("reason", reason))

	msg, err := protocol.NewErrorMessage(reason)
	if err != nil {
		return
	}
	r.send(src, msg)
}

func (r *Relay) send(src *Source, msg *protocol.Message) {
	r.messagesSent.Add(1)
	if err := src.Send(msg); err != nil {
		r.log.Debug("send failed", zap.String("source", src.ID), zap.Error(err))
	}
}

// Broadcast sends a message to all connected sources
func (r *Relay) Broadcast(msg *protocol.Message) {
	r.mu.RLock()
	sources := make([]*Source, 0, len(r.sources))
	for _, s := range r.sources {
		sources = append(sources, s)
	}
	r.mu.RUnlock()

	for _, s := range sources {
		r.send(s, msg)
	}
}

// SourceCount returns the number of connected sources
func (r *Relay) SourceCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sources)
}

// Stats contains relay statistics
type Stats struct {
	SourceCount      int    `json:"source_count"`
	MessagesReceived uint64 `json:"messages_received"`
	MessagesSent     uint64 `json:"messages_sent"`
	Rejected         uint64 `json:"rejected"`
}

// GetStats returns relay statistics
func (r *Relay) GetStats() Stats {
	return Stats{
		SourceCount:      r.SourceCount(),
		MessagesReceived: r.messagesReceived.Load(),
		MessagesSent:     r.messagesSent.Load(),
		Rejected:         r.rejected.Load(),
	}
}

// SourceInfo contains info about a connected source
type SourceInfo struct {
	ID        string    `json:"id"`
	Connected time.Time `json:"connected"`
	LastSeen  time.Time `json:"last_seen"`
}

// GetSourceInfos returns info about all connected sources
func (r *Relay) GetSourceInfos() []SourceInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]SourceInfo, 0, len(r.sources))
	for _, s := range r.sources {
		s.mu.Lock()
		infos = append(infos, SourceInfo{
			ID:        s.ID,
			Connected: s.Connected,
			LastSeen:  s.LastSeen,
		})
		s.mu.Unlock()
	}
	return infos
}

// RegisterAPIRoutes registers API routes for input sources
func (r *Relay) RegisterAPIRoutes(api fiber.Router) {
	inputs := api.Group("/inputs")

	// List connected sources
	inputs.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"sources": r.GetSourceInfos(),
			"count":   r.SourceCount(),
		})
	})

	// Get relay stats
	inputs.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(r.GetStats())
	})
}
