package common

import "errors"

// ErrModulePaused is returned by guarded operations while their module is
// administratively paused.
var ErrModulePaused = errors.New("module paused")

// PauseView exposes the pause flags maintained by the ledger owner.
type PauseView interface {
	IsPaused(module string) bool
}

// Guard rejects the operation when the named module is paused. A nil view or
// empty module name leaves the operation unguarded.
func Guard(p PauseView, module string) error {
	if p == nil || module == "" {
		return nil
	}
	if p.IsPaused(module) {
		return ErrModulePaused
	}
	return nil
}
