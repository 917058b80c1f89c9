package core_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"encorechain/core"
	"encorechain/core/events"
	"encorechain/core/state"
	"encorechain/native/collectible"
	nativecommon "encorechain/native/common"
	"encorechain/native/passes"
	"encorechain/storage"
)

var (
	owner     = addr(0x01)
	organizer = addr(0x02)
	holder    = addr(0x10)
)

func addr(b byte) [20]byte {
	var out [20]byte
	out[19] = b
	return out
}

func newLedger(t *testing.T) *core.Ledger {
	t.Helper()
	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	ledger, err := core.NewLedger(state.NewManager(db), core.DefaultConfig())
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	if err := ledger.InitGenesis(owner, organizer); err != nil {
		t.Fatalf("genesis: %v", err)
	}
	if err := ledger.BindRewardAuthority(core.ModuleAddress); err != nil {
		t.Fatalf("bind authority: %v", err)
	}
	return ledger
}

func TestGenesisValidatesAndIsIdempotent(t *testing.T) {
	db := storage.NewMemDB()
	defer db.Close()
	ledger, err := core.NewLedger(state.NewManager(db), core.DefaultConfig())
	if err != nil {
		t.Fatalf("new ledger: %v", err)
	}
	if err := ledger.InitGenesis([20]byte{}, organizer); !errors.Is(err, core.ErrInvalidAuthority) {
		t.Fatalf("expected ErrInvalidAuthority, got %v", err)
	}
	if err := ledger.InitGenesis(owner, organizer); err != nil {
		t.Fatalf("genesis: %v", err)
	}
	// Re-running genesis against populated state must not replace authorities.
	if err := ledger.InitGenesis(addr(0x77), addr(0x78)); err != nil {
		t.Fatalf("repeat genesis: %v", err)
	}
	if err := ledger.SetOrganizingAuthority(addr(0x77), addr(0x79)); !errors.Is(err, core.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for replaced owner, got %v", err)
	}
}

func TestSetOrganizingAuthority(t *testing.T) {
	ledger := newLedger(t)

	if err := ledger.SetOrganizingAuthority(holder, addr(0x20)); !errors.Is(err, core.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := ledger.SetOrganizingAuthority(owner, [20]byte{}); !errors.Is(err, core.ErrInvalidAuthority) {
		t.Fatalf("expected ErrInvalidAuthority, got %v", err)
	}

	next := addr(0x20)
	if err := ledger.SetOrganizingAuthority(owner, next); err != nil {
		t.Fatalf("rotate organizer: %v", err)
	}
	// The old organizer loses scheduling rights, the new one gains them.
	if err := ledger.ConfigureTier(organizer, passes.TierGeneral, big.NewInt(10), 100); !errors.Is(err, passes.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for retired organizer, got %v", err)
	}
	if err := ledger.ConfigureTier(next, passes.TierGeneral, big.NewInt(10), 100); err != nil {
		t.Fatalf("configure by new organizer: %v", err)
	}

	recent := ledger.RecentEvents(0)
	found := false
	for _, e := range recent {
		if e.Type == events.TypeOrganizerRotated {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an organizer rotation event, got %v", recent)
	}
}

func TestWithdrawDrainsPassProceeds(t *testing.T) {
	ledger := newLedger(t)

	if err := ledger.ConfigureTier(organizer, passes.TierPremier, big.NewInt(40), 10); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := ledger.PurchasePass(holder, passes.TierPremier, big.NewInt(40)); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if err := ledger.PurchasePass(addr(0x11), passes.TierPremier, big.NewInt(40)); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	pot, err := ledger.Pot()
	if err != nil {
		t.Fatalf("pot: %v", err)
	}
	if pot.Cmp(big.NewInt(80)) != 0 {
		t.Fatalf("expected pot 80, got %s", pot)
	}

	target := addr(0x30)
	if _, err := ledger.Withdraw(holder, target); !errors.Is(err, core.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	amount, err := ledger.Withdraw(owner, target)
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if amount.Cmp(big.NewInt(80)) != 0 {
		t.Fatalf("expected withdrawal of 80, got %s", amount)
	}
	balance, err := ledger.NativeBalanceOf(target)
	if err != nil {
		t.Fatalf("native balance: %v", err)
	}
	if balance.Cmp(big.NewInt(80)) != 0 {
		t.Fatalf("expected target balance 80, got %s", balance)
	}

	// The pot is empty after draining.
	amount, err = ledger.Withdraw(owner, target)
	if err != nil {
		t.Fatalf("second withdraw: %v", err)
	}
	if amount.Sign() != 0 {
		t.Fatalf("expected empty pot, got %s", amount)
	}
}

func TestModulePauseGate(t *testing.T) {
	ledger := newLedger(t)

	if err := ledger.SetModulePaused(holder, "passes", true); !errors.Is(err, core.ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	if err := ledger.SetModulePaused(owner, "passes", true); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := ledger.ConfigureTier(organizer, passes.TierGeneral, big.NewInt(10), 100); !errors.Is(err, nativecommon.ErrModulePaused) {
		t.Fatalf("expected ErrModulePaused, got %v", err)
	}
	if err := ledger.SetModulePaused(owner, "passes", false); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if err := ledger.ConfigureTier(organizer, passes.TierGeneral, big.NewInt(10), 100); err != nil {
		t.Fatalf("configure after resume: %v", err)
	}
}

func TestFullSeasonFlow(t *testing.T) {
	ledger := newLedger(t)
	now := time.Unix(1_700_000_000, 0)
	ledger.SetNow(func() time.Time { return now })

	if err := ledger.ConfigureTier(organizer, passes.TierVIP, big.NewInt(500), 50); err != nil {
		t.Fatalf("configure: %v", err)
	}
	if err := ledger.PurchasePass(holder, passes.TierVIP, big.NewInt(500)); err != nil {
		t.Fatalf("purchase: %v", err)
	}
	// A VIP purchase credits the 250 welcome bonus.
	balance, err := ledger.RewardBalanceOf(holder)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Cmp(big.NewInt(250)) != 0 {
		t.Fatalf("expected welcome bonus 250, got %s", balance)
	}
	multiplier, err := ledger.MultiplierOf(holder)
	if err != nil {
		t.Fatalf("multiplier: %v", err)
	}
	if multiplier != 3 {
		t.Fatalf("expected VIP multiplier 3, got %d", multiplier)
	}

	id, err := ledger.SchedulePerformance(organizer, now.Add(time.Hour), 2*time.Hour, big.NewInt(100))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if ledger.IsPerformanceActive(id) {
		t.Fatalf("performance must not be active before its start")
	}
	now = now.Add(90 * time.Minute)
	if !ledger.IsPerformanceActive(id) {
		t.Fatalf("performance must be active inside its window")
	}
	reward, err := ledger.Attend(holder, id)
	if err != nil {
		t.Fatalf("attend: %v", err)
	}
	if reward.Cmp(big.NewInt(300)) != 0 {
		t.Fatalf("expected reward 100x3=300, got %s", reward)
	}
	balance, err = ledger.RewardBalanceOf(holder)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Cmp(big.NewInt(550)) != 0 {
		t.Fatalf("expected balance 550 after attendance, got %s", balance)
	}

	series, err := ledger.CreateSeries(organizer, "Encore Poster", "ipfs://encore", big.NewInt(550), 10, true)
	if err != nil {
		t.Fatalf("create series: %v", err)
	}
	minted, err := ledger.RedeemCollectible(holder, series)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if minted.EncodedID != collectible.EncodeItemID(series, 1) {
		t.Fatalf("unexpected minted id %d", minted.EncodedID)
	}
	balance, err = ledger.RewardBalanceOf(holder)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if balance.Sign() != 0 {
		t.Fatalf("expected zero balance after redemption, got %s", balance)
	}
	owned, err := ledger.OwnedCollectibles(holder)
	if err != nil {
		t.Fatalf("owned: %v", err)
	}
	if len(owned) != 1 || owned[0].SeriesID != series {
		t.Fatalf("unexpected holdings: %v", owned)
	}

	recent := ledger.RecentEvents(0)
	var types []string
	for _, e := range recent {
		types = append(types, e.Type)
	}
	want := map[string]bool{
		events.TypePassPurchased:       false,
		events.TypePerformanceAttended: false,
		events.TypeCollectibleRedeemed: false,
	}
	for _, typ := range types {
		if _, ok := want[typ]; ok {
			want[typ] = true
		}
	}
	for typ, seen := range want {
		if !seen {
			t.Fatalf("expected a %s event in journal, got %v", typ, types)
		}
	}
}
