package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/teslashibe/go-sway/pkg/sway"
)

// Load reads the TOML config at path over the defaults and sanitizes it.
// A missing file is created with the defaults; created reports whether that
// happened.
func Load(path string) (cfg sway.Config, created bool, err error) {
	cfg = sway.DefaultConfig()

	_, err = toml.DecodeFile(path, &cfg)
	switch {
	case err == nil:
		return cfg.Sanitized(), false, nil
	case errors.Is(err, fs.ErrNotExist):
		if err := Save(path, cfg); err != nil {
			return cfg, false, err
		}
		return cfg, true, nil
	default:
		return sway.DefaultConfig(), false, fmt.Errorf("decode %s: %w", path, err)
	}
}

// Decode parses TOML over the defaults and sanitizes the result.
func Decode(data []byte) (sway.Config, error) {
	cfg := sway.DefaultConfig()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return sway.DefaultConfig(), err
	}
	return cfg.Sanitized(), nil
}

// Encode renders cfg as TOML.
func Encode(cfg sway.Config) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes cfg to path atomically, creating parent directories.
func Save(path string, cfg sway.Config) error {
	data, err := Encode(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".sway-*.toml")
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
