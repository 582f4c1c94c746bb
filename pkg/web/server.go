// Package web serves the sway dashboard: live telemetry over websocket,
// status and configuration endpoints, and a small static page.
package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/teslashibe/go-sway/pkg/hub"
	"github.com/teslashibe/go-sway/pkg/protocol"
	"github.com/teslashibe/go-sway/pkg/sway"
)

//go:embed static
var static embed.FS

// DefaultPublishRate is the telemetry broadcast ceiling in messages per second.
const DefaultPublishRate = 30

// Server is the web dashboard server
type Server struct {
	app  *fiber.App
	addr string
	log  *zap.Logger

	// Last published telemetry and active configuration
	status   protocol.TelemetryData
	config   sway.Config
	stateMu  sync.RWMutex
	onConfig func(sway.Config)

	// Named moves playable over HTTP, nil when not offered
	moves MovePlayer

	// Extra route registrars, mounted ahead of the static files
	routes []func(*fiber.App)

	// Hub for websocket broadcast
	telemetryHub *hub.Hub
	limiter      *rate.Limiter
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.log = l
		}
	}
}

// WithPublishRate caps telemetry broadcasts per second. Zero or negative
// disables the cap.
func WithPublishRate(hz float64) Option {
	return func(s *Server) {
		if hz <= 0 {
			s.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		s.limiter = rate.NewLimiter(rate.Limit(hz), 1)
	}
}

// WithConfig sets the configuration reported before the first update.
func WithConfig(cfg sway.Config) Option {
	return func(s *Server) { s.config = cfg.Sanitized() }
}

// OnConfig sets the callback for configurations submitted over HTTP. It runs
// on the request goroutine with an already sanitized config.
func OnConfig(fn func(sway.Config)) Option {
	return func(s *Server) { s.onConfig = fn }
}

// MovePlayer lists and starts named primary moves.
type MovePlayer interface {
	List() []string
	Play(name string) error
}

// WithMoves exposes mp under /api/moves.
func WithMoves(mp MovePlayer) Option {
	return func(s *Server) { s.moves = mp }
}

// WithRoutes registers additional routes on the app, such as the input
// relay, ahead of the static file handler.
func WithRoutes(register func(app *fiber.App)) Option {
	return func(s *Server) {
		if register != nil {
			s.routes = append(s.routes, register)
		}
	}
}

// NewServer creates a new dashboard server listening on addr (host:port).
func NewServer(addr string, opts ...Option) *Server {
	s := &Server{
		addr:    addr,
		log:     zap.NewNop(),
		config:  sway.DefaultConfig(),
		limiter: rate.NewLimiter(DefaultPublishRate, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.telemetryHub = hub.New("telemetry", hub.WithLogger(s.log), hub.WithReplier(s.reply))

	app := fiber.New(fiber.Config{
		AppName:               "Sway Dashboard",
		DisableStartupMessage: true,
	})

	// CORS for local development
	app.Use(cors.New())

	// API routes
	api := app.Group("/api")
	api.Get("/health", s.handleHealth)
	api.Get("/status", s.handleStatus)
	api.Get("/config", s.handleGetConfig)
	api.Put("/config", s.handlePutConfig)
	api.Post("/config/preset/:name", s.handlePreset)
	if s.moves != nil {
		api.Get("/moves", s.handleListMoves)
		api.Post("/moves/:name", s.handlePlayMove)
	}

	// WebSocket upgrade middleware
	app.Use("/ws/telemetry", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/telemetry", websocket.New(s.handleTelemetryWS))

	for _, register := range s.routes {
		register(app)
	}

	// Static files are mounted last so API and websocket routes win.
	app.Use("/", filesystem.New(filesystem.Config{
		Root:       http.FS(static),
		PathPrefix: "static",
		Index:      "index.html",
	}))

	s.app = app
	return s
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run listens on the configured address until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.telemetryHub.Run(hubCtx)

	errCh := make(chan error, 1)
	go func() { errCh <- s.app.Listener(ln) }()
	s.log.Info("dashboard listening", zap.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	stopHub()
	<-s.telemetryHub.Done()
	if err := s.app.Shutdown(); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, net.ErrClosed) {
		return err
	}
	return nil
}

// Publish records the latest frame and broadcasts it, subject to the
// publish rate. It never blocks.
func (s *Server) Publish(frame uint64, move string, snap sway.Snapshot) {
	data := protocol.TelemetryData{Frame: frame, Move: move, Sway: snap}

	s.stateMu.Lock()
	s.status = data
	s.stateMu.Unlock()

	if !s.limiter.Allow() {
		return
	}
	msg, err := protocol.NewMessage(protocol.TypeTelemetry, data)
	if err != nil {
		s.log.Warn("encode telemetry", zap.Error(err))
		return
	}
	s.broadcast(msg)
}

// SetConfig records the active configuration and broadcasts it.
func (s *Server) SetConfig(cfg sway.Config) {
	cfg = cfg.Sanitized()
	s.stateMu.Lock()
	s.config = cfg
	s.stateMu.Unlock()

	msg, err := protocol.NewConfigMessage(cfg)
	if err != nil {
		s.log.Warn("encode config", zap.Error(err))
		return
	}
	s.broadcast(msg)
}

// Config returns the active configuration.
func (s *Server) Config() sway.Config {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.config
}

// Status returns the last published telemetry.
func (s *Server) Status() protocol.TelemetryData {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.status
}

// TelemetryHub returns the hub for external use
func (s *Server) TelemetryHub() *hub.Hub {
	return s.telemetryHub
}

func (s *Server) broadcast(msg *protocol.Message) {
	data, err := msg.Bytes()
	if err != nil {
		return
	}
	s.telemetryHub.Broadcast(hub.NewJSONMessage(data))
}
