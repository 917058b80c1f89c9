package core

import "errors"

var (
	// ErrNotOwner is returned when an owner-only administrative operation is
	// invoked by any other identity.
	ErrNotOwner = errors.New("core: caller is not the ledger owner")
	// ErrInvalidAuthority is returned when an authority address is empty.
	ErrInvalidAuthority = errors.New("core: invalid authority address")
	// ErrGenesisRequired is returned when an operation needs the owning
	// authority but genesis has not run yet.
	ErrGenesisRequired = errors.New("core: ledger owner not initialized")
)
