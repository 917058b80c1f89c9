package events

import "math/big"

const (
	// TypeOrganizerRotated is emitted when the owner replaces the organizing
	// authority.
	TypeOrganizerRotated = "ledger.organizer.rotated"
	// TypeWithdrawn is emitted when the owner drains the accumulated native
	// pass-sale proceeds.
	TypeWithdrawn = "ledger.withdrawn"
	// TypeModulePauseChanged is emitted when the owner pauses or resumes a
	// module.
	TypeModulePauseChanged = "ledger.module.pause"
)

// OrganizerRotated captures the organizer handover.
type OrganizerRotated struct {
	Previous [20]byte
	Current  [20]byte
}

// EventType implements the Event interface.
func (OrganizerRotated) EventType() string { return TypeOrganizerRotated }

// Attributes implements the Event interface.
func (e OrganizerRotated) Attributes() map[string]string {
	return map[string]string{
		"previous": addressAttr(e.Previous),
		"current":  addressAttr(e.Current),
	}
}

// Withdrawn captures the native proceeds transfer to the owner's target.
type Withdrawn struct {
	Target [20]byte
	Amount *big.Int
}

// EventType implements the Event interface.
func (Withdrawn) EventType() string { return TypeWithdrawn }

// Attributes implements the Event interface.
func (e Withdrawn) Attributes() map[string]string {
	return map[string]string{
		"target": addressAttr(e.Target),
		"amount": amountAttr(e.Amount),
	}
}

// ModulePauseChanged captures an administrative pause toggle.
type ModulePauseChanged struct {
	Module string
	Paused bool
}

// EventType implements the Event interface.
func (ModulePauseChanged) EventType() string { return TypeModulePauseChanged }

// Attributes implements the Event interface.
func (e ModulePauseChanged) Attributes() map[string]string {
	return map[string]string{
		"module": e.Module,
		"paused": boolAttr(e.Paused),
	}
}
