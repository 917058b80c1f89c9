package passes

import "errors"

var (
	ErrUnauthorized    = errors.New("passes: unauthorized")
	ErrInvalidTier     = errors.New("passes: invalid tier")
	ErrInvalidPrice    = errors.New("passes: price must be positive")
	ErrInvalidSupply   = errors.New("passes: max supply must be positive")
	ErrWrongPayment    = errors.New("passes: payment must equal the configured price")
	ErrSupplyExhausted = errors.New("passes: supply exhausted")
)
