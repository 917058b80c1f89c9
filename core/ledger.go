package core

import (
	"log/slog"
	"math/big"
	"sync"
	"time"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"

	"encorechain/core/events"
	"encorechain/core/state"
	"encorechain/native/collectible"
	"encorechain/native/passes"
	"encorechain/native/performance"
	"encorechain/native/rewardtoken"
)

// ModuleAddress is the ledger's own authority identity. Pass bonuses,
// attendance rewards and redemption burns run through the reward gate under
// this address once it is bound.
var ModuleAddress = deriveModuleAddress("encorechain/core/module-authority")

func deriveModuleAddress(label string) [20]byte {
	var out [20]byte
	copy(out[:], ethcrypto.Keccak256([]byte(label))[12:])
	return out
}

// Config carries the runtime parameters the ledger fixes at construction.
type Config struct {
	Passes      passes.Params
	Performance performance.Config
}

// DefaultConfig returns the stock parameter set.
func DefaultConfig() Config {
	return Config{
		Passes:      passes.DefaultParams(),
		Performance: performance.DefaultConfig(),
	}
}

// OpObserver receives one observation per committed ledger operation.
// Implemented by observability.LedgerMetrics.
type OpObserver interface {
	ObserveOp(module, op string, err error, elapsed time.Duration)
}

// Ledger is the top-level service tying the native modules to shared state.
// Every operation, reads included, runs under a single mutex so module code
// never observes partially applied writes.
type Ledger struct {
	mu sync.Mutex

	st           *state.Manager
	gate         *rewardtoken.Ledger
	passes       *passes.Manager
	performances *performance.Engine
	collectibles *collectible.Registry

	journal *eventJournal
	log     *slog.Logger
	metrics OpObserver
}

// NewLedger wires the native modules over the shared state manager. The
// reward gate authority is not bound here; callers bind it explicitly, either
// to ModuleAddress at bootstrap or to an external authority.
func NewLedger(st *state.Manager, cfg Config) (*Ledger, error) {
	gate := rewardtoken.NewLedger(st)
	passMgr := passes.NewManager(st, gate, ModuleAddress, cfg.Passes)
	perfEngine, err := performance.NewEngine(st, passMgr, gate, ModuleAddress, cfg.Performance)
	if err != nil {
		return nil, err
	}
	registry := collectible.NewRegistry(st, gate, ModuleAddress)

	l := &Ledger{
		st:           st,
		gate:         gate,
		passes:       passMgr,
		performances: perfEngine,
		collectibles: registry,
		journal:      newEventJournal(),
		log:          slog.Default(),
	}
	gate.SetEmitter(l.journal)
	passMgr.SetEmitter(l.journal)
	perfEngine.SetEmitter(l.journal)
	registry.SetEmitter(l.journal)
	gate.SetPauses(st)
	passMgr.SetPauses(st)
	perfEngine.SetPauses(st)
	registry.SetPauses(st)
	return l, nil
}

// SetLogger replaces the operation logger. Passing nil restores the default.
func (l *Ledger) SetLogger(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	l.log = logger
}

// SetMetrics installs the per-operation observer.
func (l *Ledger) SetMetrics(m OpObserver) {
	l.metrics = m
}

// SetNow overrides the performance engine's clock. Test hook.
func (l *Ledger) SetNow(now func() time.Time) {
	l.performances.SetNow(now)
}

func (l *Ledger) run(module, op string, fn func() error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	if l.metrics != nil {
		l.metrics.ObserveOp(module, op, err, elapsed)
	}
	if err != nil {
		l.log.Warn("ledger operation rejected",
			"module", module, "op", op, "err", err, "elapsed", elapsed)
		return err
	}
	l.log.Info("ledger operation committed",
		"module", module, "op", op, "elapsed", elapsed)
	return nil
}

// InitGenesis installs the owning and organizing authorities. Authorities
// already present in state are left untouched, so restarting a node against
// an existing database is safe.
func (l *Ledger) InitGenesis(owner, organizer [20]byte) error {
	return l.run("core", "init_genesis", func() error {
		if owner == ([20]byte{}) || organizer == ([20]byte{}) {
			return ErrInvalidAuthority
		}
		if _, ok, err := l.st.Owner(); err != nil {
			return err
		} else if !ok {
			if err := l.st.SetOwner(owner); err != nil {
				return err
			}
		}
		if _, ok, err := l.st.Organizer(); err != nil {
			return err
		} else if !ok {
			if err := l.st.SetOrganizer(organizer); err != nil {
				return err
			}
		}
		return nil
	})
}

func (l *Ledger) requireOwner(caller [20]byte) error {
	if _, ok, err := l.st.Owner(); err != nil {
		return err
	} else if !ok {
		return ErrGenesisRequired
	}
	if !l.st.IsOwner(caller) {
		return ErrNotOwner
	}
	return nil
}

// SetOrganizingAuthority rotates the organizer. Owner only.
func (l *Ledger) SetOrganizingAuthority(caller, organizer [20]byte) error {
	return l.run("core", "set_organizer", func() error {
		if err := l.requireOwner(caller); err != nil {
			return err
		}
		if organizer == ([20]byte{}) {
			return ErrInvalidAuthority
		}
		previous, _, err := l.st.Organizer()
		if err != nil {
			return err
		}
		if err := l.st.SetOrganizer(organizer); err != nil {
			return err
		}
		l.journal.Emit(events.OrganizerRotated{Previous: previous, Current: organizer})
		return nil
	})
}

// Withdraw drains the accumulated native pass-sale proceeds into target's
// native balance. Owner only.
func (l *Ledger) Withdraw(caller, target [20]byte) (*big.Int, error) {
	var amount *big.Int
	err := l.run("core", "withdraw", func() error {
		if err := l.requireOwner(caller); err != nil {
			return err
		}
		if target == ([20]byte{}) {
			return ErrInvalidAuthority
		}
		drained, err := l.passes.DrainPot()
		if err != nil {
			return err
		}
		if drained.Sign() > 0 {
			balance, err := l.st.NativeBalance(target)
			if err != nil {
				return err
			}
			if err := l.st.SetNativeBalance(target, new(big.Int).Add(balance, drained)); err != nil {
				return err
			}
		}
		amount = drained
		l.journal.Emit(events.Withdrawn{Target: target, Amount: drained})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return amount, nil
}

// SetModulePaused toggles the pause flag guarding a module's mutating
// operations. Owner only.
func (l *Ledger) SetModulePaused(caller [20]byte, module string, paused bool) error {
	return l.run("core", "set_module_paused", func() error {
		if err := l.requireOwner(caller); err != nil {
			return err
		}
		if err := l.st.SetModulePaused(module, paused); err != nil {
			return err
		}
		l.journal.Emit(events.ModulePauseChanged{Module: module, Paused: paused})
		return nil
	})
}

// NativeBalanceOf reports the withdrawable native funds held by addr.
func (l *Ledger) NativeBalanceOf(addr [20]byte) (*big.Int, error) {
	var balance *big.Int
	err := l.run("core", "native_balance", func() error {
		var err error
		balance, err = l.st.NativeBalance(addr)
		return err
	})
	return balance, err
}

// RecentEvents returns up to limit of the newest committed events.
func (l *Ledger) RecentEvents(limit int) []RecordedEvent {
	return l.journal.Recent(limit)
}

// BindRewardAuthority performs the gate's one-time authority bind.
func (l *Ledger) BindRewardAuthority(authority [20]byte) error {
	return l.run("rewardtoken", "bind", func() error {
		return l.gate.Bind(authority)
	})
}

// RewardAuthority reports the bound authority, if any.
func (l *Ledger) RewardAuthority() ([20]byte, bool, error) {
	var (
		authority [20]byte
		bound     bool
	)
	err := l.run("rewardtoken", "authority", func() error {
		var err error
		authority, bound, err = l.gate.Authority()
		return err
	})
	return authority, bound, err
}

// RewardBalanceOf reads a holder's reward token balance.
func (l *Ledger) RewardBalanceOf(holder [20]byte) (*big.Int, error) {
	var balance *big.Int
	err := l.run("rewardtoken", "balance", func() error {
		var err error
		balance, err = l.gate.BalanceOf(holder)
		return err
	})
	return balance, err
}

// ConfigureTier installs or replaces a pass tier's sale window.
func (l *Ledger) ConfigureTier(caller [20]byte, tier passes.Tier, price *big.Int, maxSupply uint64) error {
	return l.run("passes", "configure", func() error {
		return l.passes.Configure(caller, tier, price, maxSupply)
	})
}

// PurchasePass sells one unit of the tier to caller for the exact payment.
func (l *Ledger) PurchasePass(caller [20]byte, tier passes.Tier, payment *big.Int) error {
	return l.run("passes", "purchase", func() error {
		return l.passes.Purchase(caller, tier, payment)
	})
}

// HasAnyTier reports whether the holder owns at least one pass of any tier.
func (l *Ledger) HasAnyTier(holder [20]byte) (bool, error) {
	var held bool
	err := l.run("passes", "has_any_tier", func() error {
		var err error
		held, err = l.passes.HasAnyTier(holder)
		return err
	})
	return held, err
}

// MultiplierOf reports the holder's highest-tier reward multiplier, zero when
// no pass is held.
func (l *Ledger) MultiplierOf(holder [20]byte) (uint64, error) {
	var multiplier uint64
	err := l.run("passes", "multiplier", func() error {
		var err error
		multiplier, err = l.passes.MultiplierOf(holder)
		return err
	})
	return multiplier, err
}

// TierConfigOf reads a tier's sale window. The boolean reports whether the
// tier has been configured.
func (l *Ledger) TierConfigOf(tier passes.Tier) (*passes.TierConfig, bool, error) {
	var (
		cfg *passes.TierConfig
		ok  bool
	)
	err := l.run("passes", "tier_config", func() error {
		var err error
		cfg, ok, err = l.passes.TierConfigOf(tier)
		return err
	})
	return cfg, ok, err
}

// Pot reads the accumulated, not yet withdrawn native pass-sale proceeds.
func (l *Ledger) Pot() (*big.Int, error) {
	var pot *big.Int
	err := l.run("passes", "pot", func() error {
		var err error
		pot, err = l.passes.Pot()
		return err
	})
	return pot, err
}

// SchedulePerformance registers a future performance and returns its
// identifier.
func (l *Ledger) SchedulePerformance(caller [20]byte, start time.Time, duration time.Duration, baseReward *big.Int) (uint64, error) {
	var id uint64
	err := l.run("performance", "schedule", func() error {
		var err error
		id, err = l.performances.Schedule(caller, start, duration, baseReward)
		return err
	})
	return id, err
}

// PerformanceOf reads a scheduled performance's window and base reward.
func (l *Ledger) PerformanceOf(id uint64) (*performance.Performance, error) {
	var record *performance.Performance
	err := l.run("performance", "lookup", func() error {
		var err error
		record, err = l.performances.PerformanceOf(id)
		return err
	})
	return record, err
}

// IsPerformanceActive reports whether the performance exists and the current
// time falls inside its window.
func (l *Ledger) IsPerformanceActive(id uint64) bool {
	var active bool
	_ = l.run("performance", "is_active", func() error {
		active = l.performances.IsActive(id)
		return nil
	})
	return active
}

// Attend checks the caller in to an active performance and returns the
// credited reward.
func (l *Ledger) Attend(caller [20]byte, id uint64) (*big.Int, error) {
	var reward *big.Int
	err := l.run("performance", "attend", func() error {
		var err error
		reward, err = l.performances.Attend(caller, id)
		return err
	})
	return reward, err
}

// CreateSeries registers a collectible series and returns its identifier.
func (l *Ledger) CreateSeries(caller [20]byte, name, metadataBase string, unitPrice *big.Int, maxItems uint64, active bool) (uint32, error) {
	var id uint32
	err := l.run("collectible", "create_series", func() error {
		var err error
		id, err = l.collectibles.CreateSeries(caller, name, metadataBase, unitPrice, maxItems, active)
		return err
	})
	return id, err
}

// SetSeriesActive toggles redemption availability on a series.
func (l *Ledger) SetSeriesActive(caller [20]byte, id uint32, active bool) error {
	return l.run("collectible", "set_series_active", func() error {
		return l.collectibles.SetSeriesActive(caller, id, active)
	})
}

// RedeemCollectible burns the unit price from the caller and mints the next
// edition of the series to them.
func (l *Ledger) RedeemCollectible(caller [20]byte, id uint32) (*collectible.Minted, error) {
	var minted *collectible.Minted
	err := l.run("collectible", "redeem", func() error {
		var err error
		minted, err = l.collectibles.Redeem(caller, id)
		return err
	})
	return minted, err
}

// CollectibleDetails resolves an encoded edition identifier to its display
// view.
func (l *Ledger) CollectibleDetails(encodedID uint64) (*collectible.TokenDetails, error) {
	var details *collectible.TokenDetails
	err := l.run("collectible", "details", func() error {
		var err error
		details, err = l.collectibles.DetailsOf(encodedID)
		return err
	})
	return details, err
}

// OwnedCollectibles lists every edition the holder owns.
func (l *Ledger) OwnedCollectibles(holder [20]byte) ([]collectible.Minted, error) {
	var owned []collectible.Minted
	err := l.run("collectible", "owned", func() error {
		var err error
		owned, err = l.collectibles.OwnedCollectiblesOf(holder)
		return err
	})
	return owned, err
}

// SeriesOf reads a stored series record.
func (l *Ledger) SeriesOf(id uint32) (*collectible.Series, bool, error) {
	var (
		series *collectible.Series
		ok     bool
	)
	err := l.run("collectible", "series", func() error {
		var err error
		series, ok, err = l.collectibles.SeriesOf(id)
		return err
	})
	return series, ok, err
}
