package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var ErrBadConfig = errors.New("invalid config")

// Config holds the server and simulation settings
type Config struct {
	Addr      string
	ClientDir string // optional static client, "" disables

	TickRate    int // simulation ticks per second
	ArenaWidth  float64
	ArenaHeight float64
	Seed        uint64 // 0 picks a random seed

	EnemyCap           int
	EnemySpawnInterval float64 // seconds
	EnemySpawnChance   float64 // per elapsed interval
	SpikeTarget        int
	SpikeRespawn       float64 // seconds
	PowerUpCap         int
	PowerUpRespawn     float64 // seconds

	IngressCapacity int
	MsgRate         float64 // inbound messages per second per connection
	MsgBurst        int

	LogLevel  string
	LogFormat string // "json" or "console"
}

// DefaultConfig returns the stock arena settings
func DefaultConfig() Config {
	return Config{
		Addr:               ":8080",
		TickRate:           60,
		ArenaWidth:         2000,
		ArenaHeight:        2000,
		EnemyCap:           15,
		EnemySpawnInterval: 2,
		EnemySpawnChance:   0.6,
		SpikeTarget:        6,
		SpikeRespawn:       5,
		PowerUpCap:         3,
		PowerUpRespawn:     8,
		IngressCapacity:    DefaultIngressCapacity,
		MsgRate:            120,
		MsgBurst:           60,
		LogLevel:           "info",
		LogFormat:          "console",
	}
}

// TickDuration is the wall-clock length of one tick
func (c Config) TickDuration() time.Duration {
	return time.Second / time.Duration(c.TickRate)
}

// Validate rejects settings the simulation cannot run with
func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick rate %d", ErrBadConfig, c.TickRate)
	case c.ArenaWidth <= PlayerSize || c.ArenaHeight <= PlayerSize:
		return fmt.Errorf("%w: arena %gx%g", ErrBadConfig, c.ArenaWidth, c.ArenaHeight)
	case c.IngressCapacity <= 0:
		return fmt.Errorf("%w: ingress capacity %d", ErrBadConfig, c.IngressCapacity)
	case c.EnemySpawnChance < 0 || c.EnemySpawnChance > 1:
		return fmt.Errorf("%w: enemy spawn chance %g", ErrBadConfig, c.EnemySpawnChance)
	case c.MsgRate <= 0 || c.MsgBurst <= 0:
		return fmt.Errorf("%w: message rate %g burst %d", ErrBadConfig, c.MsgRate, c.MsgBurst)
	}
	return nil
}

// LoadConfig reads .env (if present), then ARENA_* environment variables, then
// command-line flags. Later sources win.
func LoadConfig(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return loadConfig(args, os.Getenv)
}

func loadConfig(args []string, getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()
	if err := applyEnv(&cfg, getenv); err != nil {
		return Config{}, err
	}

	flags := flag.NewFlagSet("arena", flag.ContinueOnError)
	flags.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	flags.StringVar(&cfg.ClientDir, "client", cfg.ClientDir, "Path to static client directory (optional)")
	flags.IntVar(&cfg.TickRate, "tick-rate", cfg.TickRate, "Simulation ticks per second")
	flags.IntVar(&cfg.EnemyCap, "enemy-cap", cfg.EnemyCap, "Maximum live enemies")
	flags.IntVar(&cfg.IngressCapacity, "ingress-cap", cfg.IngressCapacity, "Inbound queue capacity")
	flags.Uint64Var(&cfg.Seed, "seed", cfg.Seed, "RNG seed (0 = random)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	flags.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (json, console)")
	if err := flags.Parse(args); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	var firstErr error
	num := func(key string, dst *float64) {
		v := getenv(key)
		if v == "" || firstErr != nil {
			return
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			firstErr = fmt.Errorf("%w: %s=%q", ErrBadConfig, key, v)
			return
		}
		*dst = f
	}
	integer := func(key string, dst *int) {
		v := getenv(key)
		if v == "" || firstErr != nil {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			firstErr = fmt.Errorf("%w: %s=%q", ErrBadConfig, key, v)
			return
		}
		*dst = n
	}

	str("ARENA_ADDR", &cfg.Addr)
	str("ARENA_CLIENT_DIR", &cfg.ClientDir)
	str("ARENA_LOG_LEVEL", &cfg.LogLevel)
	str("ARENA_LOG_FORMAT", &cfg.LogFormat)
	integer("ARENA_TICK_RATE", &cfg.TickRate)
	num("ARENA_WIDTH", &cfg.ArenaWidth)
	num("ARENA_HEIGHT", &cfg.ArenaHeight)
	integer("ARENA_ENEMY_CAP", &cfg.EnemyCap)
	num("ARENA_ENEMY_SPAWN_INTERVAL", &cfg.EnemySpawnInterval)
	num("ARENA_ENEMY_SPAWN_CHANCE", &cfg.EnemySpawnChance)
	integer("ARENA_SPIKE_TARGET", &cfg.SpikeTarget)
	num("ARENA_SPIKE_RESPAWN", &cfg.SpikeRespawn)
	integer("ARENA_POWERUP_CAP", &cfg.PowerUpCap)
	num("ARENA_POWERUP_RESPAWN", &cfg.PowerUpRespawn)
	integer("ARENA_INGRESS_CAP", &cfg.IngressCapacity)
	num("ARENA_MSG_RATE", &cfg.MsgRate)
	integer("ARENA_MSG_BURST", &cfg.MsgBurst)
	if v := getenv("ARENA_SEED"); v != "" && firstErr == nil {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: ARENA_SEED=%q", ErrBadConfig, v)
		}
		cfg.Seed = seed
	}
	return firstErr
}
