package movement

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// maxStep caps the dt Run feeds to Step after a stall.
const maxStep = 100 * time.Millisecond

// Manager orchestrates all rig motion through a single frame loop.
//
// Each Step:
// - Runs functions queued with Post
// - Simulates every layer
// - Writes the primary move's pose
// - Composes every layer
// - Reports the frame to the OnFrame callback
//
// Layers are only touched from the goroutine calling Step, so they need no
// locking of their own. Other goroutines hand work to the loop with Post.
type Manager struct {
	target SkeletonSource
	log    *zap.Logger
	rate   time.Duration

	mu sync.Mutex

	layers []Layer // fixed at construction
	posted []func()

	// Primary move state
	currentMove     Move
	moveElapsed     time.Duration
	lastPrimaryPose Pose
	holdPrimary     bool

	onFrame func(Frame)

	tickCount uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithLayers adds secondary layers in composition order.
func WithLayers(layers ...Layer) Option {
	return func(m *Manager) { m.layers = append(m.layers, layers...) }
}

// OnFrame sets a callback run on the loop goroutine after every step.
func OnFrame(fn func(Frame)) Option {
	return func(m *Manager) { m.onFrame = fn }
}

// NewManager creates a Manager that writes primary poses to target's
// skeleton. rate is the Run tick interval, ~16ms for 60Hz.
func NewManager(target SkeletonSource, rate time.Duration, opts ...Option) *Manager {
	if rate <= 0 {
		rate = time.Second / 60
	}
	m := &Manager{
		target: target,
		log:    zap.NewNop(),
		rate:   rate,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Rate returns the Run tick interval.
func (m *Manager) Rate() time.Duration { return m.rate }

// Post queues fn to run on the loop goroutine at the start of the next step.
func (m *Manager) Post(fn func()) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.posted = append(m.posted, fn)
}

// Run steps the loop at the configured rate until ctx is done.
func (m *Manager) Run(ctx context.Context) error {
	ticker := time.NewTicker(m.rate)
	defer ticker.Stop()

	m.log.Info("movement manager started", zap.Float64("hz", 1/m.rate.Seconds()))
	defer m.log.Info("movement manager stopped", zap.Uint64("ticks", m.Ticks()))

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if dt > maxStep {
				dt = maxStep
			}
			m.Step(dt)
		}
	}
}

// Step executes one frame.
func (m *Manager) Step(dt time.Duration) {
	// 1. Run posted work
	m.mu.Lock()
	posted := m.posted
	m.posted = nil
	m.mu.Unlock()
	for _, fn := range posted {
		fn()
	}

	// 2. Secondary simulate
	for _, l := range m.layers {
		l.Simulate(dt)
	}

	// 3. Primary pose
	pose, name, ok := m.primaryPose(dt)
	if ok && m.target != nil {
		pose.Apply(m.target.Skeleton())
	}

	// 4. Secondary compose
	for _, l := range m.layers {
		l.Compose()
	}

	m.mu.Lock()
	m.tickCount++
	tick := m.tickCount
	m.mu.Unlock()

	if m.onFrame != nil {
		m.onFrame(Frame{Tick: tick, Dt: dt, Move: name})
	}

	if tick%600 == 0 {
		m.log.Debug("heartbeat", zap.Uint64("ticks", tick), zap.String("move", name))
	}
}

// primaryPose advances the current move and returns the pose to write. It
// reports false when no move has ever played.
func (m *Manager) primaryPose(dt time.Duration) (Pose, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentMove == nil {
		return m.lastPrimaryPose, "", m.holdPrimary
	}

	m.moveElapsed += dt
	name := m.currentMove.Name()
	if m.currentMove.IsComplete(m.moveElapsed) {
		m.log.Debug("move completed", zap.String("move", name))
		m.lastPrimaryPose = m.currentMove.Evaluate(m.moveElapsed)
		m.currentMove = nil
		return m.lastPrimaryPose, "", true
	}
	return m.currentMove.Evaluate(m.moveElapsed), name, true
}

// Ticks returns the number of completed steps.
func (m *Manager) Ticks() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tickCount
}

// ============================================================
// Primary Move API
// ============================================================

// QueueMove sets the current primary move.
// The move starts on the next step, replacing any current move.
func (m *Manager) QueueMove(move Move) {
	if move == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	// If there's a current move, cache its last pose
	if m.currentMove != nil {
		m.lastPrimaryPose = m.currentMove.Evaluate(m.moveElapsed)
	}

	m.currentMove = move
	m.moveElapsed = 0
	m.holdPrimary = true
	m.log.Debug("move queued", zap.String("move", move.Name()), zap.Duration("duration", move.Duration()))
}

// StopMove stops the current primary move, holding its last pose.
func (m *Manager) StopMove() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentMove != nil {
		m.lastPrimaryPose = m.currentMove.Evaluate(m.moveElapsed)
		m.log.Debug("move stopped", zap.String("move", m.currentMove.Name()))
		m.currentMove = nil
	}
}

// ReleasePose stops writing a primary pose altogether, leaving the rig to
// whatever else animates it.
func (m *Manager) ReleasePose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentMove = nil
	m.holdPrimary = false
}

// IsMovePlaying returns true if a primary move is currently playing.
func (m *Manager) IsMovePlaying() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentMove != nil
}

// CurrentMoveName returns the name of the current move, or empty if idle.
func (m *Manager) CurrentMoveName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.currentMove != nil {
		return m.currentMove.Name()
	}
	return ""
}
