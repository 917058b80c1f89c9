package performance_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"encorechain/core/events"
	"encorechain/core/state"
	"encorechain/native/passes"
	"encorechain/native/performance"
	"encorechain/native/rewardtoken"
	"encorechain/storage"
)

type capturingEmitter struct {
	events []events.Event
}

func (c *capturingEmitter) Emit(e events.Event) {
	c.events = append(c.events, e)
}

func addr(b byte) [20]byte {
	var out [20]byte
	out[19] = b
	return out
}

var (
	organizer = addr(0x01)
	authority = addr(0x02)
)

type fixture struct {
	engine *performance.Engine
	passes *passes.Manager
	gate   *rewardtoken.Ledger
	now    time.Time
}

func (f *fixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	st := state.NewManager(db)
	if err := st.SetOrganizer(organizer); err != nil {
		t.Fatalf("set organizer: %v", err)
	}
	gate := rewardtoken.NewLedger(st)
	if err := gate.Bind(authority); err != nil {
		t.Fatalf("bind gate: %v", err)
	}
	passManager := passes.NewManager(st, gate, authority, passes.DefaultParams())
	engine, err := performance.NewEngine(st, passManager, gate, authority, performance.DefaultConfig())
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	f := &fixture{
		engine: engine,
		passes: passManager,
		gate:   gate,
		now:    time.Unix(1_700_000_000, 0).UTC(),
	}
	engine.SetNow(func() time.Time { return f.now })
	return f
}

func (f *fixture) grantPass(t *testing.T, holder [20]byte, tier passes.Tier) {
	t.Helper()
	if _, ok, err := f.passes.TierConfigOf(tier); err != nil {
		t.Fatalf("tier config: %v", err)
	} else if !ok {
		if err := f.passes.Configure(organizer, tier, big.NewInt(10), 100); err != nil {
			t.Fatalf("configure tier: %v", err)
		}
	}
	if err := f.passes.Purchase(holder, tier, big.NewInt(10)); err != nil {
		t.Fatalf("purchase: %v", err)
	}
}

func TestScheduleValidation(t *testing.T) {
	f := newFixture(t)

	if _, err := f.engine.Schedule(addr(0x99), f.now.Add(time.Hour), time.Hour, big.NewInt(100)); !errors.Is(err, performance.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := f.engine.Schedule(organizer, f.now, time.Hour, big.NewInt(100)); !errors.Is(err, performance.ErrStartNotFuture) {
		t.Fatalf("start == now must be rejected, got %v", err)
	}
	if _, err := f.engine.Schedule(organizer, f.now.Add(-time.Minute), time.Hour, big.NewInt(100)); !errors.Is(err, performance.ErrStartNotFuture) {
		t.Fatalf("past start must be rejected, got %v", err)
	}
	if _, err := f.engine.Schedule(organizer, f.now.Add(time.Hour), 0, big.NewInt(100)); !errors.Is(err, performance.ErrInvalidDuration) {
		t.Fatalf("expected ErrInvalidDuration, got %v", err)
	}
	if _, err := f.engine.Schedule(organizer, f.now.Add(time.Hour), time.Hour, big.NewInt(0)); !errors.Is(err, performance.ErrInvalidReward) {
		t.Fatalf("expected ErrInvalidReward, got %v", err)
	}
}

func TestScheduleAllocatesSequentialIDs(t *testing.T) {
	f := newFixture(t)
	emitter := &capturingEmitter{}
	f.engine.SetEmitter(emitter)

	for want := uint64(0); want < 3; want++ {
		id, err := f.engine.Schedule(organizer, f.now.Add(time.Hour), time.Hour, big.NewInt(100))
		if err != nil {
			t.Fatalf("schedule %d: %v", want, err)
		}
		if id != want {
			t.Fatalf("expected id %d, got %d", want, id)
		}
	}
	if len(emitter.events) != 3 || emitter.events[0].EventType() != events.TypePerformanceScheduled {
		t.Fatalf("expected three scheduled events, got %#v", emitter.events)
	}
}

func TestIsActiveWindow(t *testing.T) {
	f := newFixture(t)
	id, err := f.engine.Schedule(organizer, f.now.Add(time.Hour), 2*time.Hour, big.NewInt(100))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	if f.engine.IsActive(id) {
		t.Fatalf("performance must not be active before start")
	}
	f.advance(time.Hour)
	if !f.engine.IsActive(id) {
		t.Fatalf("performance must be active exactly at start")
	}
	f.advance(90 * time.Minute)
	if !f.engine.IsActive(id) {
		t.Fatalf("performance must be active mid-window")
	}
	f.advance(30 * time.Minute)
	if !f.engine.IsActive(id) {
		t.Fatalf("performance must be active exactly at end")
	}
	f.advance(time.Second)
	if f.engine.IsActive(id) {
		t.Fatalf("performance must not be active after end")
	}
	if f.engine.IsActive(id + 1) {
		t.Fatalf("unknown performance must not be active")
	}
}

func TestAttendPaysBaseRewardTimesMultiplier(t *testing.T) {
	f := newFixture(t)
	holder := addr(0x10)
	f.grantPass(t, holder, passes.TierVIP)
	welcome, err := f.gate.BalanceOf(holder)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}

	id, err := f.engine.Schedule(organizer, f.now.Add(time.Hour), 2*time.Hour, big.NewInt(100))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	f.advance(time.Hour)

	emitter := &capturingEmitter{}
	f.engine.SetEmitter(emitter)
	reward, err := f.engine.Attend(holder, id)
	if err != nil {
		t.Fatalf("attend: %v", err)
	}
	if reward.Cmp(big.NewInt(300)) != 0 {
		t.Fatalf("expected reward 300 (100 × VIP multiplier 3), got %s", reward)
	}
	if len(emitter.events) != 1 {
		t.Fatalf("expected attendance event, got %#v", emitter.events)
	}
	attended, ok := emitter.events[0].(events.PerformanceAttended)
	if !ok || attended.Reward.Cmp(reward) != 0 {
		t.Fatalf("unexpected event payload: %#v", emitter.events[0])
	}

	balance, err := f.gate.BalanceOf(holder)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	want := new(big.Int).Add(welcome, reward)
	if balance.Cmp(want) != 0 {
		t.Fatalf("expected balance %s, got %s", want, balance)
	}
}

func TestAttendPreconditionOrder(t *testing.T) {
	f := newFixture(t)
	holder := addr(0x10)

	id, err := f.engine.Schedule(organizer, f.now.Add(time.Hour), time.Hour, big.NewInt(100))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}

	// Inactive performance outranks the missing pass.
	if _, err := f.engine.Attend(holder, id); !errors.Is(err, performance.ErrNotActive) {
		t.Fatalf("expected ErrNotActive, got %v", err)
	}

	f.advance(time.Hour)
	if _, err := f.engine.Attend(holder, id); !errors.Is(err, performance.ErrNoPass) {
		t.Fatalf("expected ErrNoPass, got %v", err)
	}

	f.grantPass(t, holder, passes.TierGeneral)
	if _, err := f.engine.Attend(holder, id); err != nil {
		t.Fatalf("attend: %v", err)
	}
	if _, err := f.engine.Attend(holder, id); !errors.Is(err, performance.ErrAlreadyAttended) {
		t.Fatalf("expected ErrAlreadyAttended, got %v", err)
	}
}

func TestCooldownIsGlobalAcrossPerformances(t *testing.T) {
	f := newFixture(t)
	holder := addr(0x10)
	f.grantPass(t, holder, passes.TierGeneral)
	cooldown := performance.DefaultConfig().CheckinCooldown

	// Two overlapping long-running performances.
	first, err := f.engine.Schedule(organizer, f.now.Add(time.Hour), 3*cooldown, big.NewInt(100))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	second, err := f.engine.Schedule(organizer, f.now.Add(time.Hour), 3*cooldown, big.NewInt(100))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	f.advance(time.Hour)

	if _, err := f.engine.Attend(holder, first); err != nil {
		t.Fatalf("first attend: %v", err)
	}
	// A different performance does not escape the holder's cooldown.
	if _, err := f.engine.Attend(holder, second); !errors.Is(err, performance.ErrCooldownActive) {
		t.Fatalf("expected ErrCooldownActive, got %v", err)
	}

	f.advance(cooldown - time.Second)
	if _, err := f.engine.Attend(holder, second); !errors.Is(err, performance.ErrCooldownActive) {
		t.Fatalf("one second early must still be rejected, got %v", err)
	}

	// Exactly at the boundary the check-in is accepted.
	f.advance(time.Second)
	if _, err := f.engine.Attend(holder, second); err != nil {
		t.Fatalf("boundary attend: %v", err)
	}
}

func TestAttendUnknownPerformance(t *testing.T) {
	f := newFixture(t)
	holder := addr(0x10)
	f.grantPass(t, holder, passes.TierGeneral)
	if _, err := f.engine.Attend(holder, 42); !errors.Is(err, performance.ErrNotActive) {
		t.Fatalf("expected ErrNotActive for unknown id, got %v", err)
	}
}
