package performance

import (
	"fmt"
	"math/big"
	"time"

	"encorechain/core/events"
	nativecommon "encorechain/native/common"
)

const moduleName = "performance"

var sequenceStateKey = []byte("performance:seq")

func recordStateKey(id uint64) []byte {
	return []byte(fmt.Sprintf("performance:record:%d", id))
}

func attendedStateKey(id uint64, holder [20]byte) []byte {
	return []byte(fmt.Sprintf("performance:attended:%d:%x", id, holder))
}

func lastCheckinStateKey(holder [20]byte) []byte {
	return []byte(fmt.Sprintf("performance:lastcheckin:%x", holder))
}

// Performance captures a scheduled, time-bounded event. Records are immutable
// once created.
type Performance struct {
	Start      uint64
	End        uint64
	BaseReward *big.Int
}

type engineState interface {
	IsOrganizer(addr [20]byte) bool
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

type passView interface {
	HasAnyTier(holder [20]byte) (bool, error)
	MultiplierOf(holder [20]byte) (uint64, error)
}

type rewardMinter interface {
	Credit(caller, holder [20]byte, amount *big.Int) error
}

// Engine schedules performances and pays out attendance rewards to eligible,
// cooled-down pass holders.
type Engine struct {
	st      engineState
	passes  passView
	minter  rewardMinter
	mintAs  [20]byte
	config  Config
	now     func() time.Time
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewEngine constructs an attendance engine with the provided configuration.
func NewEngine(st engineState, passes passView, minter rewardMinter, mintAs [20]byte, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		st:      st,
		passes:  passes,
		minter:  minter,
		mintAs:  mintAs,
		config:  cfg,
		now:     time.Now,
		emitter: events.NoopEmitter{},
	}, nil
}

// SetNow overrides the time source. It is intended for tests.
func (e *Engine) SetNow(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	e.now = now
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op
// implementation.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

func (e *Engine) SetPauses(p nativecommon.PauseView) {
	if e == nil {
		return
	}
	e.pauses = p
}

func (e *Engine) nextSequence() (uint64, error) {
	var seq uint64
	if _, err := e.st.KVGet(sequenceStateKey, &seq); err != nil {
		return 0, err
	}
	return seq, nil
}

// Schedule stores a new performance and returns its identifier. Organizer
// only. Identifiers are allocated sequentially starting at zero.
func (e *Engine) Schedule(caller [20]byte, start time.Time, duration time.Duration, baseReward *big.Int) (uint64, error) {
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return 0, err
	}
	if !e.st.IsOrganizer(caller) {
		return 0, ErrUnauthorized
	}
	if !start.After(e.now()) {
		return 0, ErrStartNotFuture
	}
	if duration <= 0 {
		return 0, ErrInvalidDuration
	}
	if baseReward == nil || baseReward.Sign() <= 0 {
		return 0, ErrInvalidReward
	}

	id, err := e.nextSequence()
	if err != nil {
		return 0, err
	}
	record := &Performance{
		Start:      uint64(start.Unix()),
		End:        uint64(start.Add(duration).Unix()),
		BaseReward: new(big.Int).Set(baseReward),
	}
	if err := e.st.KVPut(recordStateKey(id), record); err != nil {
		return 0, err
	}
	if err := e.st.KVPut(sequenceStateKey, id+1); err != nil {
		return 0, err
	}
	e.emitter.Emit(events.PerformanceScheduled{
		ID:         id,
		Start:      record.Start,
		End:        record.End,
		BaseReward: new(big.Int).Set(baseReward),
	})
	return id, nil
}

// PerformanceOf returns the stored record for the identifier.
func (e *Engine) PerformanceOf(id uint64) (*Performance, error) {
	record := new(Performance)
	ok, err := e.st.KVGet(recordStateKey(id), record)
	if err != nil {
		return nil, err
	}
	if !ok || record.Start == 0 {
		return nil, ErrUnknownPerformance
	}
	if record.BaseReward == nil {
		record.BaseReward = big.NewInt(0)
	}
	return record, nil
}

// IsActive reports whether the performance exists and the current time lies
// inside its [start, end] window, inclusive on both ends.
func (e *Engine) IsActive(id uint64) bool {
	record, err := e.PerformanceOf(id)
	if err != nil {
		return false
	}
	now := uint64(e.now().Unix())
	return now >= record.Start && now <= record.End
}

// HasAttended reports whether the holder already checked in to the
// performance.
func (e *Engine) HasAttended(id uint64, holder [20]byte) (bool, error) {
	var attended bool
	ok, err := e.st.KVGet(attendedStateKey(id, holder), &attended)
	if err != nil {
		return false, err
	}
	return ok && attended, nil
}

// LastCheckin returns the unix timestamp of the holder's most recent
// successful check-in across all performances, or zero if none.
func (e *Engine) LastCheckin(holder [20]byte) (uint64, error) {
	var stamp uint64
	if _, err := e.st.KVGet(lastCheckinStateKey(holder), &stamp); err != nil {
		return 0, err
	}
	return stamp, nil
}

// Attend checks the caller in to an active performance and credits
// baseReward × multiplier of the reward token. Attendance is exactly-once per
// (holder, performance) and subject to the global per-holder cooldown; a
// check-in exactly at lastCheckin + cooldown is accepted.
func (e *Engine) Attend(caller [20]byte, id uint64) (*big.Int, error) {
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return nil, err
	}
	if !e.IsActive(id) {
		return nil, ErrNotActive
	}
	holds, err := e.passes.HasAnyTier(caller)
	if err != nil {
		return nil, err
	}
	if !holds {
		return nil, ErrNoPass
	}
	attended, err := e.HasAttended(id, caller)
	if err != nil {
		return nil, err
	}
	if attended {
		return nil, ErrAlreadyAttended
	}
	now := uint64(e.now().Unix())
	last, err := e.LastCheckin(caller)
	if err != nil {
		return nil, err
	}
	cooldown := uint64(e.config.CheckinCooldown / time.Second)
	if last != 0 && now < last+cooldown {
		return nil, ErrCooldownActive
	}

	record, err := e.PerformanceOf(id)
	if err != nil {
		return nil, err
	}
	multiplier, err := e.passes.MultiplierOf(caller)
	if err != nil {
		return nil, err
	}
	reward := new(big.Int).Mul(record.BaseReward, new(big.Int).SetUint64(multiplier))

	if err := e.minter.Credit(e.mintAs, caller, reward); err != nil {
		return nil, err
	}
	if err := e.st.KVPut(attendedStateKey(id, caller), true); err != nil {
		return nil, err
	}
	if err := e.st.KVPut(lastCheckinStateKey(caller), now); err != nil {
		return nil, err
	}
	e.emitter.Emit(events.PerformanceAttended{
		Holder: caller,
		ID:     id,
		Reward: new(big.Int).Set(reward),
	})
	return reward, nil
}
