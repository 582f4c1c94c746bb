package config

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teslashibe/go-sway/pkg/sway"
)

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SWAY_CONFIG", "")
	t.Setenv("SWAY_PORT", "")
	t.Setenv("SWAY_LOG_LEVEL", "")
	t.Setenv("SWAY_LOG_FILE", "")

	assert.Equal(t, DefaultConfigPath, ConfigPath(""))
	assert.Equal(t, "x.toml", ConfigPath("x.toml"))
	assert.Equal(t, DefaultPort, Port(0))
	assert.Equal(t, 9000, Port(9000))
	assert.Equal(t, DefaultLogLevel, LogLevel())
	assert.Empty(t, LogFile())

	t.Setenv("SWAY_CONFIG", "/etc/sway.toml")
	t.Setenv("SWAY_PORT", "7001")
	t.Setenv("SWAY_LOG_LEVEL", "debug")
	t.Setenv("SWAY_LOG_FILE", "/tmp/sway.log")

	assert.Equal(t, "/etc/sway.toml", ConfigPath("x.toml"))
	assert.Equal(t, 7001, Port(9000))
	assert.Equal(t, ":7001", ListenAddr(Port(0)))
	assert.Equal(t, "debug", LogLevel())
	assert.Equal(t, "/tmp/sway.log", LogFile())

	t.Setenv("SWAY_PORT", "99999")
	assert.Equal(t, 9000, Port(9000))
	t.Setenv("SWAY_PORT", "http")
	assert.Equal(t, 9000, Port(9000))
}

func TestLoad_CreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sway.toml")

	cfg, created, err := Load(path)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, sway.DefaultConfig(), cfg)

	again, created, err := Load(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, cfg, again)
}

func TestLoad_PartialFileOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sway.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
space = "world"

[spring]
integrator = "analytic"
max_lean_z = -30.0

[arms]
amount = 0.5
`), 0o644))

	cfg, created, err := Load(path)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, sway.SpaceWorld, cfg.Space)
	assert.Equal(t, "analytic", string(cfg.Spring.Integrator))
	assert.Equal(t, 30.0, cfg.Spring.MaxLeanZ)
	assert.Equal(t, 0.5, cfg.Arms.Amount)
	def := sway.DefaultConfig()
	assert.Equal(t, def.Spring.Frequency, cfg.Spring.Frequency)
	assert.Equal(t, def.Gate, cfg.Gate)
}

func TestLoad_BadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sway.toml")
	require.NoError(t, os.WriteFile(path, []byte("space = [unterminated"), 0o644))

	cfg, _, err := Load(path)
	require.Error(t, err)
	assert.Equal(t, sway.DefaultConfig(), cfg)
}

func TestDecode_NonFiniteNumbersFallBack(t *testing.T) {
	cfg, err := Decode([]byte("[spring]\nfrequency = nan\nhorizontal_gain = inf\nmax_lean_z = -inf\n"))
	require.NoError(t, err)

	def := sway.DefaultConfig()
	assert.Equal(t, def.Spring.Frequency, cfg.Spring.Frequency)
	assert.Equal(t, def.Spring.HorizontalGain, cfg.Spring.HorizontalGain)
	assert.Equal(t, def.Spring.MaxLeanZ, cfg.Spring.MaxLeanZ)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sway.toml")
	want := sway.BouncyConfig()
	want.Space = sway.SpaceWorld
	want.Gate.UseWhitelist = true
	want.Gate.AllowedStates = []string{"Drag", "Fall"}

	require.NoError(t, Save(path, want))
	got, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want.Sanitized(), got)
}

type collector struct {
	mu   sync.Mutex
	cfgs []sway.Config
}

func (c *collector) add(cfg sway.Config) {
	c.mu.Lock()
	c.cfgs = append(c.cfgs, cfg)
	c.mu.Unlock()
}

func (c *collector) snapshot() []sway.Config {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]sway.Config(nil), c.cfgs...)
}

func startWatcher(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop")
		}
	})
	// Give fsnotify time to register the directory.
	time.Sleep(100 * time.Millisecond)
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sway.toml")
	require.NoError(t, Save(path, sway.DefaultConfig()))

	var got collector
	startWatcher(t, NewWatcher(path, got.add, WithDebounce(20*time.Millisecond)))

	next := sway.GentleConfig()
	next.Space = sway.SpaceWorld
	require.NoError(t, Save(path, next))

	require.Eventually(t, func() bool { return len(got.snapshot()) > 0 },
		3*time.Second, 20*time.Millisecond)
	cfgs := got.snapshot()
	assert.Equal(t, next.Sanitized(), cfgs[len(cfgs)-1])
}

func TestWatcher_SkipsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sway.toml")
	require.NoError(t, Save(path, sway.DefaultConfig()))

	core, logs := observer.New(zapcore.WarnLevel)
	var got collector
	startWatcher(t, NewWatcher(path, got.add,
		WithDebounce(20*time.Millisecond), WithWatchLogger(zap.New(core))))

	require.NoError(t, os.WriteFile(path, []byte("spring = ["), 0o644))

	require.Eventually(t, func() bool {
		return logs.FilterMessage("config rejected").Len() > 0
	}, 3*time.Second, 20*time.Millisecond)
	assert.Empty(t, got.snapshot())
}

func TestWatcher_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sway.toml")
	require.NoError(t, Save(path, sway.DefaultConfig()))

	var got collector
	startWatcher(t, NewWatcher(path, got.add, WithDebounce(20*time.Millisecond)))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x = 1"), 0o644))
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, got.snapshot())
}

func TestWatcher_MissingFile(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "absent.toml"), nil)
	err := w.Run(context.Background())
	assert.ErrorIs(t, err, ErrNoFile)
}
