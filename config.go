package cache

import (
	"fmt"
	"time"
)

// Default jitter multiplier bounds. A freshness check scales the entry's TTL
// by a uniform sample from [MinJitter, MaxJitter], so with the defaults an
// entry starts competing for refresh somewhere between 90% and 110% of its
// nominal lifetime.
const (
	DefaultMinJitter = 0.9
	DefaultMaxJitter = 1.1
)

// Config carries construction-time options for a Cache. MaxSize and
// DefaultTTL are required; the rest default sensibly when left zero.
type Config struct {
	// MaxSize is the bounded store capacity. Required.
	MaxSize int `yaml:"max_size"`

	// DefaultTTL is the nominal freshness window for entries written
	// without an explicit TTL. Required.
	DefaultTTL time.Duration `yaml:"default_ttl"`

	// StaleWhileRevalidateTTL is the total servable window measured from an
	// entry's write time. Between the (jittered) TTL boundary and this
	// deadline, stale values are still served while a refresh runs in the
	// background. Defaults to 2 × DefaultTTL.
	StaleWhileRevalidateTTL time.Duration `yaml:"stale_while_revalidate_ttl"`

	// MinJitter and MaxJitter bound the TTL multiplier sampled on every
	// freshness check. Default 0.9 / 1.1. Equal bounds (1 / 1) are
	// accepted and disable jitter entirely, which pins freshness
	// boundaries for deterministic tests.
	MinJitter float64 `yaml:"min_jitter"`
	MaxJitter float64 `yaml:"max_jitter"`

	// DisableBackgroundRefresh turns off stale-triggered async refresh.
	// Stale entries are still served inside the grace window; they just
	// stay stale until they expire.
	DisableBackgroundRefresh bool `yaml:"disable_background_refresh"`
}

func (cfg *Config) applyDefaults() {
	if cfg.StaleWhileRevalidateTTL == 0 {
		cfg.StaleWhileRevalidateTTL = 2 * cfg.DefaultTTL
	}
	if cfg.MinJitter == 0 && cfg.MaxJitter == 0 {
		cfg.MinJitter = DefaultMinJitter
		cfg.MaxJitter = DefaultMaxJitter
	}
}

// Validate reports the first invalid field. It runs after defaults are
// applied, so a zero StaleWhileRevalidateTTL never reaches it.
func (cfg *Config) Validate() error {
	if cfg.MaxSize <= 0 {
		return fmt.Errorf("max size must be positive, got %d", cfg.MaxSize)
	}
	if cfg.DefaultTTL <= 0 {
		return fmt.Errorf("default ttl must be positive, got %v", cfg.DefaultTTL)
	}
	if cfg.StaleWhileRevalidateTTL < cfg.DefaultTTL {
		return fmt.Errorf("stale-while-revalidate ttl %v is shorter than default ttl %v", cfg.StaleWhileRevalidateTTL, cfg.DefaultTTL)
	}
	if cfg.MinJitter <= 0 || cfg.MinJitter > 1 {
		return fmt.Errorf("min jitter must be in (0, 1], got %v", cfg.MinJitter)
	}
	if cfg.MaxJitter < 1 {
		return fmt.Errorf("max jitter must be >= 1, got %v", cfg.MaxJitter)
	}
	return nil
}
