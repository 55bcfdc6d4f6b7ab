// Package config loads server configuration from defaults, an optional
// YAML file, and the environment, in that order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stevemurr/simple-user-server/store"
)

// Config is the full server configuration.
type Config struct {
	Host           string    `yaml:"host"`
	Port           int       `yaml:"port"`
	Backend        string    `yaml:"backend"`
	DataDir        string    `yaml:"dataDir"`
	AllowedOrigins []string  `yaml:"allowedOrigins"`
	Log            LogConfig `yaml:"log"`
}

// LogConfig selects the logger level and format.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in defaults.
func Default() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           3010,
		Backend:        "json",
		DataDir:        "./data",
		AllowedOrigins: []string{"*"},
		Log:            LogConfig{Level: "info", Format: "text"},
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped
// when path is empty) and then with environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PORT: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("STORE_BACKEND"); v != "" {
		c.Backend = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = SplitList(v)
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Host == "" {
		return errors.New("host must not be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", c.Port)
	}
	if c.Backend != "" && !slices.Contains(store.Backends, c.Backend) {
		return fmt.Errorf("unknown store backend %q (supported: %s)", c.Backend, strings.Join(store.Backends, ", "))
	}
	return nil
}

// Addr returns host:port for the HTTP listener.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// SplitList splits a comma separated list, dropping blank entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
