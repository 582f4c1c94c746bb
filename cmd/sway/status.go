package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-sway/internal/config"
	"github.com/teslashibe/go-sway/internal/httpc"
	"github.com/teslashibe/go-sway/pkg/protocol"
)

func newStatusCmd() *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the latest controller snapshot from a running dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var t protocol.TelemetryData
			if err := httpc.GetJSON(cmd.Context(), strings.TrimRight(url, "/")+"/api/status", &t); err != nil {
				return err
			}
			printTelemetry(cmd.OutOrStdout(), &t)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", fmt.Sprintf("http://localhost:%d", config.Port(0)), "dashboard base URL")
	return cmd
}

// printTelemetry writes one line per frame.
func printTelemetry(w io.Writer, t *protocol.TelemetryData) {
	s := t.Sway
	fmt.Fprintf(w, "frame=%d move=%s status=%s weight=%.2f lean_z=%+.2f lean_x=%+.2f limb_z=%+.2f limb_x=%+.2f pending=%d\n",
		t.Frame, orDash(t.Move), s.Status, s.Weight, s.LeanZ, s.LeanX, s.LimbZ, s.LimbX, s.Pending)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
