package rewardtoken

import "errors"

var (
	ErrAlreadyBound        = errors.New("rewardtoken: authority already bound")
	ErrInvalidAuthority    = errors.New("rewardtoken: invalid authority")
	ErrNotAuthority        = errors.New("rewardtoken: caller is not the bound authority")
	ErrInvalidAmount       = errors.New("rewardtoken: amount must be positive")
	ErrInsufficientBalance = errors.New("rewardtoken: insufficient balance")
)
