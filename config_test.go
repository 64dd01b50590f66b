package main

import (
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
)

func envOf(vals map[string]string) func(string) string {
	return func(key string) string { return vals[key] }
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}
	if cfg.TickDuration() != time.Second/60 {
		t.Errorf("expected 60Hz, got %v", cfg.TickDuration())
	}
}

func TestLoadConfigEnvAndFlags(t *testing.T) {
	env := envOf(map[string]string{
		"ARENA_ADDR":       ":9000",
		"ARENA_TICK_RATE":  "30",
		"ARENA_ENEMY_CAP":  "5",
		"ARENA_WIDTH":      "1200.5",
		"ARENA_SEED":       "99",
		"ARENA_LOG_FORMAT": "json",
	})

	cfg, err := loadConfig([]string{"-tick-rate", "20"}, env)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9000" || cfg.EnemyCap != 5 || cfg.ArenaWidth != 1200.5 || cfg.Seed != 99 || cfg.LogFormat != "json" {
		t.Errorf("env values not applied: %+v", cfg)
	}
	if cfg.TickRate != 20 {
		t.Errorf("flags should win over env, got tick rate %d", cfg.TickRate)
	}
	if cfg.ArenaHeight != DefaultConfig().ArenaHeight {
		t.Error("unset values should keep their defaults")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"bad number", nil, map[string]string{"ARENA_ENEMY_CAP": "lots"}},
		{"bad seed", nil, map[string]string{"ARENA_SEED": "-1"}},
		{"zero tick rate", []string{"-tick-rate", "0"}, nil},
		{"bad chance", nil, map[string]string{"ARENA_ENEMY_SPAWN_CHANCE": "1.5"}},
		{"tiny arena", nil, map[string]string{"ARENA_WIDTH": "10"}},
		{"unknown flag", []string{"-nope"}, nil},
	}
	for _, tt := range tests {
		if _, err := loadConfig(tt.args, envOf(tt.env)); !errors.Is(err, ErrBadConfig) {
			t.Errorf("%s: expected ErrBadConfig, got %v", tt.name, err)
		}
	}
}

func TestNewLogger(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		log, err := newLogger("debug", format)
		if err != nil {
			t.Fatalf("%s: %v", format, err)
		}
		if !log.Core().Enabled(zap.DebugLevel) {
			t.Errorf("%s: debug should be enabled", format)
		}
	}

	log, err := newLogger("bogus", "console")
	if err != nil {
		t.Fatal(err)
	}
	if log.Core().Enabled(zap.DebugLevel) {
		t.Error("an unknown level should fall back to info")
	}
}
