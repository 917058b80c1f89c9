package collectible

import "errors"

var (
	ErrUnauthorized    = errors.New("collectible: unauthorized")
	ErrInvalidPrice    = errors.New("collectible: unit price must be positive")
	ErrInvalidSupply   = errors.New("collectible: max items must be positive")
	ErrNameRequired    = errors.New("collectible: name required")
	ErrLocatorRequired = errors.New("collectible: metadata base required")
	ErrUnknownSeries   = errors.New("collectible: unknown series")
	ErrSeriesInactive  = errors.New("collectible: series inactive")
	ErrSeriesSoldOut   = errors.New("collectible: series sold out")
	ErrUnknownToken    = errors.New("collectible: unknown token")
)
