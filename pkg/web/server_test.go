package web

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-sway/pkg/protocol"
	"github.com/teslashibe/go-sway/pkg/sway"
)

func doJSON(t *testing.T, s *Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestServer_Health(t *testing.T) {
	s := NewServer("127.0.0.1:0")

	resp, body := doJSON(t, s, http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"status":"ok"`)
}

func TestServer_StatusReflectsPublish(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	s.Publish(7, "breathing", sway.Snapshot{ID: "c1", Status: sway.StatusActive, LeanZ: -3})

	resp, body := doJSON(t, s, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got protocol.TelemetryData
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, uint64(7), got.Frame)
	assert.Equal(t, "breathing", got.Move)
	assert.Equal(t, sway.StatusActive, got.Sway.Status)
	assert.InDelta(t, -3, got.Sway.LeanZ, 1e-12)
}

func TestServer_PublishStoresWhenThrottled(t *testing.T) {
	s := NewServer("127.0.0.1:0", WithPublishRate(0.001))

	for i := uint64(1); i <= 5; i++ {
		s.Publish(i, "", sway.Snapshot{})
	}
	assert.Equal(t, uint64(5), s.Status().Frame)
}

func TestServer_GetConfig(t *testing.T) {
	cfg := sway.GentleConfig()
	s := NewServer("127.0.0.1:0", WithConfig(cfg))

	resp, body := doJSON(t, s, http.MethodGet, "/api/config", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got sway.Config
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, cfg.Sanitized(), got)
}

func TestServer_PutConfigMerges(t *testing.T) {
	var (
		mu       sync.Mutex
		received []sway.Config
	)
	s := NewServer("127.0.0.1:0", OnConfig(func(c sway.Config) {
		mu.Lock()
		received = append(received, c)
		mu.Unlock()
	}))

	resp, _ := doJSON(t, s, http.MethodPut, "/api/config",
		`{"space":"world","spring":{"frequency":-5},"arms":{"amount":4}}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := s.Config()
	assert.Equal(t, sway.SpaceWorld, got.Space)
	// Sanitized on the way in.
	assert.Equal(t, 1.0, got.Arms.Amount)
	assert.GreaterOrEqual(t, got.Spring.Frequency, 0.01)
	// Untouched fields keep their values.
	assert.Equal(t, sway.DefaultConfig().Input.FilterRate, got.Input.FilterRate)
	assert.Equal(t, sway.DefaultConfig().Gate.DraggingParam, got.Gate.DraggingParam)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, got, received[0])
}

func TestServer_PutConfigRejectsBadBody(t *testing.T) {
	called := false
	s := NewServer("127.0.0.1:0", OnConfig(func(sway.Config) { called = true }))

	resp, _ := doJSON(t, s, http.MethodPut, "/api/config", `{not json`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.False(t, called)
	assert.Equal(t, sway.DefaultConfig(), s.Config())
}

func TestServer_Preset(t *testing.T) {
	s := NewServer("127.0.0.1:0")

	resp, _ := doJSON(t, s, http.MethodPost, "/api/config/preset/bouncy", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, sway.BouncyConfig().Sanitized(), s.Config())

	resp, _ = doJSON(t, s, http.MethodPost, "/api/config/preset/wobbly", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_DashboardPage(t *testing.T) {
	s := NewServer("127.0.0.1:0")

	resp, body := doJSON(t, s, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "/ws/telemetry")
}

func TestServer_TelemetryRequiresUpgrade(t *testing.T) {
	s := NewServer("127.0.0.1:0")

	resp, _ := doJSON(t, s, http.MethodGet, "/ws/telemetry", "")
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func readMessage(t *testing.T, ws *gorilla.Conn) *protocol.Message {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := ws.ReadMessage()
	require.NoError(t, err)
	msg, err := protocol.ParseMessage(data)
	require.NoError(t, err)
	return msg
}

func TestServer_TelemetryStream(t *testing.T) {
	s := NewServer("", WithPublishRate(0))
	s.Publish(1, "idle", sway.Snapshot{Status: sway.StatusIdle})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve(ctx, ln) }()
	defer func() {
		cancel()
		select {
		case err := <-errCh:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("Serve did not return after cancel")
		}
	}()

	require.Eventually(t, s.TelemetryHub().IsRunning, 2*time.Second, 10*time.Millisecond)

	ws, _, err := gorilla.DefaultDialer.Dial("ws://"+ln.Addr().String()+"/ws/telemetry", nil)
	require.NoError(t, err)
	defer ws.Close()

	// Greeting: active config, then last status.
	first := readMessage(t, ws)
	assert.Equal(t, protocol.TypeConfig, first.Type)
	second := readMessage(t, ws)
	require.Equal(t, protocol.TypeTelemetry, second.Type)
	data, err := second.GetTelemetryData()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), data.Frame)

	require.Eventually(t, func() bool { return s.TelemetryHub().ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	s.Publish(2, "breathing", sway.Snapshot{Status: sway.StatusActive, LeanZ: 4})
	msg := readMessage(t, ws)
	require.Equal(t, protocol.TypeTelemetry, msg.Type)
	data, err = msg.GetTelemetryData()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), data.Frame)
	assert.Equal(t, sway.StatusActive, data.Sway.Status)

	ping, err := protocol.NewPingMessage("p1")
	require.NoError(t, err)
	raw, err := ping.Bytes()
	require.NoError(t, err)
	require.NoError(t, ws.WriteMessage(gorilla.TextMessage, raw))
	msg = readMessage(t, ws)
	require.Equal(t, protocol.TypePong, msg.Type)
	pong, err := msg.GetPongData()
	require.NoError(t, err)
	assert.Equal(t, "p1", pong.ID)

	s.SetConfig(sway.GentleConfig())
	msg = readMessage(t, ws)
	require.Equal(t, protocol.TypeConfig, msg.Type)
	cfg, err := msg.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, sway.GentleConfig().Sanitized(), *cfg)
}

func TestServer_WithRoutesAheadOfStatic(t *testing.T) {
	s := NewServer("127.0.0.1:0", WithRoutes(func(app *fiber.App) {
		app.Get("/api/extra", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"ok": true})
		})
	}))

	resp, body := doJSON(t, s, http.MethodGet, "/api/extra", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}

type fakeMoves struct {
	mu     sync.Mutex
	played []string
}

func (f *fakeMoves) List() []string { return []string{"shrug", "wave"} }

func (f *fakeMoves) Play(name string) error {
	if name != "wave" && name != "shrug" {
		return errors.New("clip not found: " + name)
	}
	f.mu.Lock()
	f.played = append(f.played, name)
	f.mu.Unlock()
	return nil
}

func TestServer_Moves(t *testing.T) {
	moves := &fakeMoves{}
	s := NewServer("127.0.0.1:0", WithMoves(moves))

	resp, body := doJSON(t, s, http.MethodGet, "/api/moves", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"moves":["shrug","wave"]}`, string(body))

	resp, _ = doJSON(t, s, http.MethodPost, "/api/moves/wave", "")
	assert.Equal(t, http.StatusAccepted, resp.StatusCode)
	resp, _ = doJSON(t, s, http.MethodPost, "/api/moves/moonwalk", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	moves.mu.Lock()
	defer moves.mu.Unlock()
	assert.Equal(t, []string{"wave"}, moves.played)
}

func TestServer_NoMovesRoute(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	resp, _ := doJSON(t, s, http.MethodPost, "/api/moves/wave", "")
	assert.NotEqual(t, http.StatusAccepted, resp.StatusCode)
}

func TestServer_ReplyRejectsUnknown(t *testing.T) {
	s := NewServer("127.0.0.1:0")

	out, ok := s.reply([]byte(`{"type":"pointer","data":{"x":1,"y":2}}`))
	require.True(t, ok)
	msg, err := protocol.ParseMessage(out)
	require.NoError(t, err)
	assert.Equal(t, protocol.TypeError, msg.Type)

	out, ok = s.reply([]byte(`not json`))
	require.True(t, ok)
	msg, err = protocol.ParseMessage(out)
	require.NoError(t, err)
	assert.Equal(t, protocol.TypeError, msg.Type)
}
