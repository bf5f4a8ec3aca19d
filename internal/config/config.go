// Package config provides centralized configuration management.
// This is the single source of truth for all simulation and server
// settings; everything else references these values.
package config

import (
	"os"
	"strconv"

	"skypop/internal/sim"
)

// SimSettings holds simulation tuning that callers map onto sim.Config.
type SimSettings struct {
	TickRate         int
	Mode             string // "portal" or "drift"
	Seed             int64
	CountdownSeconds float64
	SpawnInterval    float64
	SpawnWarmup      float64
	MaxEntities      int
	MaxProjectiles   int
}

// DefaultSim returns the reference simulation settings.
func DefaultSim() SimSettings {
	base := sim.DefaultConfig()
	return SimSettings{
		TickRate:         base.TickRate,
		Mode:             base.Mode.String(),
		CountdownSeconds: base.CountdownSeconds,
		SpawnInterval:    base.SpawnInterval,
		SpawnWarmup:      base.SpawnWarmup,
		MaxEntities:      base.Limits.MaxEntities,
		MaxProjectiles:   base.Limits.MaxProjectiles,
	}
}

// SimFromEnv returns simulation settings with environment overrides.
func SimFromEnv() SimSettings {
	cfg := DefaultSim()

	if tr := getEnvInt("SIM_TICK_RATE", 0); tr > 0 {
		cfg.TickRate = tr
	}
	if m := os.Getenv("SIM_MODE"); m != "" {
		cfg.Mode = m
	}
	if s := getEnvInt("SIM_SEED", 0); s != 0 {
		cfg.Seed = int64(s)
	}
	if c := getEnvFloat("SIM_COUNTDOWN", 0); c > 0 {
		cfg.CountdownSeconds = c
	}
	if si := getEnvFloat("SIM_SPAWN_INTERVAL", 0); si > 0 {
		cfg.SpawnInterval = si
	}
	if sw := getEnvFloat("SIM_SPAWN_WARMUP", -1); sw >= 0 {
		cfg.SpawnWarmup = sw
	}
	if me := getEnvInt("SIM_MAX_ENTITIES", 0); me > 0 {
		cfg.MaxEntities = me
	}
	if mp := getEnvInt("SIM_MAX_PROJECTILES", 0); mp > 0 {
		cfg.MaxProjectiles = mp
	}

	return cfg
}

// ToSimConfig maps the settings onto the engine's config.
func (s SimSettings) ToSimConfig() sim.Config {
	cfg := sim.DefaultConfig()
	cfg.TickRate = s.TickRate
	cfg.Mode = sim.ParseMode(s.Mode)
	cfg.Seed = s.Seed
	cfg.CountdownSeconds = s.CountdownSeconds
	cfg.SpawnInterval = s.SpawnInterval
	cfg.SpawnWarmup = s.SpawnWarmup
	cfg.Limits.MaxEntities = s.MaxEntities
	cfg.Limits.MaxProjectiles = s.MaxProjectiles
	return cfg
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int
	EventLogPath string
}

// DefaultServer returns the default server configuration.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Port:         3000,
		EventLogPath: "events.jsonl",
	}
}

// ServerFromEnv returns server configuration with environment overrides.
func ServerFromEnv() ServerConfig {
	cfg := DefaultServer()

	if p := getEnvInt("PORT", 0); p > 0 {
		cfg.Port = p
	}
	if path := os.Getenv("EVENT_LOG_PATH"); path != "" {
		cfg.EventLogPath = path
	}

	return cfg
}

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Sim    SimSettings
	Server ServerConfig
}

// Load returns the complete configuration with environment overrides.
func Load() AppConfig {
	return AppConfig{
		Sim:    SimFromEnv(),
		Server: ServerFromEnv(),
	}
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
