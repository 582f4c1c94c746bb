package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-sway/internal/config"
	"github.com/teslashibe/go-sway/internal/httpc"
	"github.com/teslashibe/go-sway/pkg/sway"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, inspect and push sway configuration",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd(), newConfigPushCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var (
		path   string
		preset string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file from a preset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := sway.Preset(preset)
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s preset to %s\n", presetName(preset), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", config.ConfigPath(""), "config file to write")
	cmd.Flags().StringVar(&preset, "preset", "default", "preset: default, gentle, bouncy")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		path   string
		preset string
	)
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config as TOML",
		Long:  "Print the sanitized config loaded from --config, or a preset when --preset is given.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var cfg sway.Config
			if preset != "" {
				p, err := sway.Preset(preset)
				if err != nil {
					return err
				}
				cfg = p.Sanitized()
			} else {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				if cfg, err = config.Decode(data); err != nil {
					return fmt.Errorf("decode %s: %w", path, err)
				}
			}

			out, err := config.Encode(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", config.ConfigPath(""), "config file to read")
	cmd.Flags().StringVar(&preset, "preset", "", "show a preset instead of a file")
	return cmd
}

func newConfigPushCmd() *cobra.Command {
	var (
		url    string
		path   string
		preset string
	)
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Send a config file or preset to a running dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base := strings.TrimRight(url, "/")
			var got sway.Config

			if preset != "" {
				if err := httpc.PostJSON(cmd.Context(), base+"/api/config/preset/"+preset, nil, &got); err != nil {
					return err
				}
			} else {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				cfg, err := config.Decode(data)
				if err != nil {
					return fmt.Errorf("decode %s: %w", path, err)
				}
				if err := httpc.PutJSON(cmd.Context(), base+"/api/config", cfg, &got); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "applied: space=%s integrator=%s frequency=%.2f damping=%.2f\n",
				got.Space, got.Spring.Integrator, got.Spring.Frequency, got.Spring.DampingRatio)
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", fmt.Sprintf("http://localhost:%d", config.Port(0)), "dashboard base URL")
	cmd.Flags().StringVarP(&path, "config", "c", config.ConfigPath(""), "config file to send")
	cmd.Flags().StringVar(&preset, "preset", "", "apply a named preset instead of a file")
	return cmd
}

func presetName(p string) string {
	if p == "" {
		return "default"
	}
	return strings.ToLower(p)
}
