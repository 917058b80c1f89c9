package performance

import (
	"fmt"
	"time"
)

// Config controls the attendance engine's check-in policy.
type Config struct {
	// CheckinCooldown is the minimum interval between any two successful
	// check-ins by the same holder, shared across all performances.
	CheckinCooldown time.Duration
}

// DefaultConfig returns the production check-in policy.
func DefaultConfig() Config {
	return Config{
		CheckinCooldown: 24 * time.Hour,
	}
}

// Validate ensures the configuration is internally consistent.
func (c Config) Validate() error {
	if c.CheckinCooldown <= 0 {
		return fmt.Errorf("checkin cooldown must be positive")
	}
	return nil
}
