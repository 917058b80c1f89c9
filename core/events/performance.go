package events

import "math/big"

const (
	// TypePerformanceScheduled is emitted when the organizer schedules a new
	// performance.
	TypePerformanceScheduled = "performance.scheduled"
	// TypePerformanceAttended is emitted when a holder checks in to an
	// active performance.
	TypePerformanceAttended = "performance.attended"
)

// PerformanceScheduled captures a newly scheduled performance window.
type PerformanceScheduled struct {
	ID         uint64
	Start      uint64
	End        uint64
	BaseReward *big.Int
}

// EventType implements the Event interface.
func (PerformanceScheduled) EventType() string { return TypePerformanceScheduled }

// Attributes implements the Event interface.
func (e PerformanceScheduled) Attributes() map[string]string {
	return map[string]string{
		"id":         uintAttr(e.ID),
		"start":      uintAttr(e.Start),
		"end":        uintAttr(e.End),
		"baseReward": amountAttr(e.BaseReward),
	}
}

// PerformanceAttended captures a completed check-in and the reward paid out
// for it.
type PerformanceAttended struct {
	Holder [20]byte
	ID     uint64
	Reward *big.Int
}

// EventType implements the Event interface.
func (PerformanceAttended) EventType() string { return TypePerformanceAttended }

// Attributes implements the Event interface.
func (e PerformanceAttended) Attributes() map[string]string {
	return map[string]string{
		"holder": addressAttr(e.Holder),
		"id":     uintAttr(e.ID),
		"reward": amountAttr(e.Reward),
	}
}
