package performance

import "errors"

var (
	ErrUnauthorized       = errors.New("performance: unauthorized")
	ErrStartNotFuture     = errors.New("performance: start time must be in the future")
	ErrInvalidDuration    = errors.New("performance: duration must be positive")
	ErrInvalidReward      = errors.New("performance: base reward must be positive")
	ErrUnknownPerformance = errors.New("performance: unknown performance")
	ErrNotActive          = errors.New("performance: performance not active")
	ErrNoPass             = errors.New("performance: caller holds no pass")
	ErrAlreadyAttended    = errors.New("performance: already attended")
	ErrCooldownActive     = errors.New("performance: checkin cooldown active")
)
