package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/teslashibe/go-sway/internal/config"
	"github.com/teslashibe/go-sway/pkg/protocol"
)

func newWatchCmd() *cobra.Command {
	var (
		url   string
		every int
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print live telemetry from a running dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return watch(cmd.Context(), url, every, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&url, "url", fmt.Sprintf("ws://localhost:%d/ws/telemetry", config.Port(0)), "telemetry websocket URL")
	cmd.Flags().IntVar(&every, "every", 1, "print every Nth telemetry message")
	return cmd
}

func watch(ctx context.Context, url string, every int, w io.Writer) error {
	if every < 1 {
		every = 1
	}

	dialer := websocket.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	defer conn.Close()

	// Unblock the read when ctx ends.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	n := 0
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		msg, err := protocol.ParseMessage(data)
		if err != nil {
			continue
		}

		switch msg.Type {
		case protocol.TypeConfig:
			if cfg, err := msg.GetConfig(); err == nil {
				fmt.Fprintf(w, "config: space=%s integrator=%s frequency=%.2f damping=%.2f\n",
					cfg.Space, cfg.Spring.Integrator, cfg.Spring.Frequency, cfg.Spring.DampingRatio)
			}
		case protocol.TypeTelemetry:
			n++
			if (n-1)%every != 0 {
				continue
			}
			if t, err := msg.GetTelemetryData(); err == nil {
				printTelemetry(w, t)
			}
		}
	}
}
