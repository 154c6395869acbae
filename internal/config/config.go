// Package config holds the server settings. Defaults can be overridden by
// ATOMIC_* environment variables and then by command-line flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr                string
	AllowOrigins        []string
	ClockTime           time.Duration
	MatchmakingInterval time.Duration
	ReadBufferSize      int
	WriteBufferSize     int
}

func Default() Config {
	return Config{
		Addr:                ":3000",
		AllowOrigins:        []string{"http://localhost:5173"},
		ClockTime:           600 * time.Second,
		MatchmakingInterval: time.Second,
		ReadBufferSize:      1024,
		WriteBufferSize:     1024,
	}
}

// Load builds a Config from the environment and args (without the program name).
func Load(args []string, getenv func(string) string) (Config, error) {
	cfg := Default()
	if err := cfg.applyEnv(getenv); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	origins := strings.Join(cfg.AllowOrigins, ",")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&origins, "origins", origins, "comma separated allowed origins")
	fs.DurationVar(&cfg.ClockTime, "clock", cfg.ClockTime, "thinking time per side")
	fs.DurationVar(&cfg.MatchmakingInterval, "matchmaking-interval", cfg.MatchmakingInterval, "how often the matchmaking queue is paired")
	fs.IntVar(&cfg.ReadBufferSize, "ws-read-buffer", cfg.ReadBufferSize, "websocket read buffer size")
	fs.IntVar(&cfg.WriteBufferSize, "ws-write-buffer", cfg.WriteBufferSize, "websocket write buffer size")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	cfg.AllowOrigins = splitList(origins)

	return cfg, cfg.Validate()
}

// FromOS loads the configuration of the running process.
func FromOS() (Config, error) {
	return Load(os.Args[1:], os.Getenv)
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("ATOMIC_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("ATOMIC_ORIGINS"); v != "" {
		c.AllowOrigins = splitList(v)
	}
	if v := getenv("ATOMIC_CLOCK"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ATOMIC_CLOCK: %w", err)
		}
		c.ClockTime = d
	}
	if v := getenv("ATOMIC_MATCHMAKING_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ATOMIC_MATCHMAKING_INTERVAL: %w", err)
		}
		c.MatchmakingInterval = d
	}
	if v := getenv("ATOMIC_WS_BUFFER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ATOMIC_WS_BUFFER: %w", err)
		}
		c.ReadBufferSize, c.WriteBufferSize = n, n
	}
	return nil
}

func (c Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("listen address is required")
	}
	if c.ClockTime <= 0 {
		return fmt.Errorf("clock time must be positive, got %s", c.ClockTime)
	}
	if c.MatchmakingInterval <= 0 {
		return fmt.Errorf("matchmaking interval must be positive, got %s", c.MatchmakingInterval)
	}
	if c.ReadBufferSize <= 0 || c.WriteBufferSize <= 0 {
		return fmt.Errorf("websocket buffer sizes must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
