package main

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teslashibe/go-sway/internal/config"
	"github.com/teslashibe/go-sway/internal/log"
	"github.com/teslashibe/go-sway/pkg/protocol"
	"github.com/teslashibe/go-sway/pkg/remote"
)

type feedOptions struct {
	url       string
	duration  time.Duration
	rate      int
	amplitude float64
	period    time.Duration
	pointer   bool
}

func newFeedCmd() *cobra.Command {
	opts := feedOptions{}
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Stream a scripted window drag to a running relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.rate <= 0 {
				return fmt.Errorf("rate must be positive, got %d", opts.rate)
			}
			return feed(cmd.Context(), opts, log.L())
		},
	}
	cmd.Flags().StringVar(&opts.url, "url", fmt.Sprintf("ws://localhost:%d/ws/input/feed", config.Port(0)), "relay websocket URL")
	cmd.Flags().DurationVarP(&opts.duration, "duration", "d", 5*time.Second, "how long to drag")
	cmd.Flags().IntVar(&opts.rate, "rate", 60, "messages per second")
	cmd.Flags().Float64Var(&opts.amplitude, "amplitude", 400, "horizontal swing in pixels")
	cmd.Flags().DurationVar(&opts.period, "period", 1500*time.Millisecond, "swing period")
	cmd.Flags().BoolVar(&opts.pointer, "pointer", false, "send pointer positions instead of window positions")
	return cmd
}

// feed drags for opts.duration, then releases. Cancelling ctx releases early.
func feed(ctx context.Context, opts feedOptions, logger *zap.Logger) error {
	c, err := remote.Dial(ctx, opts.url)
	if err != nil {
		return err
	}
	defer c.Close()

	go func() {
		for {
			msg, err := c.Read()
			if err != nil {
				return
			}
			if msg.Type == protocol.TypeError {
				if e, err := msg.GetErrorData(); err == nil {
					logger.Warn("relay rejected input", zap.String("reason", e.Message))
				}
			}
		}
	}()

	if err := c.SendFlags(protocol.Bool(true), nil, ""); err != nil {
		return err
	}
	logger.Info("feeding drag", zap.String("url", opts.url), zap.Duration("duration", opts.duration))

	ticker := time.NewTicker(time.Second / time.Duration(opts.rate))
	defer ticker.Stop()
	deadline := time.NewTimer(opts.duration)
	defer deadline.Stop()

	start := time.Now()
	sent := 0
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case <-deadline.C:
			break loop
		case now := <-ticker.C:
			x, y := swing(now.Sub(start), opts.period, opts.amplitude)
			if opts.pointer {
				err = c.SendPointer(x, y)
			} else {
				err = c.SendWindow(int(math.Round(x)), int(math.Round(y)), true)
			}
			if err != nil {
				return err
			}
			sent++
		}
	}

	logger.Info("feed released", zap.Int("sent", sent))
	return c.SendFlags(protocol.Bool(false), nil, "")
}

// swing traces a figure eight: full amplitude horizontally, a third of it
// vertically at twice the frequency.
func swing(t, period time.Duration, amplitude float64) (float64, float64) {
	if period <= 0 {
		period = time.Second
	}
	phase := 2 * math.Pi * t.Seconds() / period.Seconds()
	return amplitude * math.Sin(phase), amplitude / 3 * math.Sin(2*phase)
}
