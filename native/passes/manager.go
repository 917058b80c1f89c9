package passes

import (
	"fmt"
	"math/big"

	"encorechain/core/events"
	nativecommon "encorechain/native/common"
)

const moduleName = "passes"

var potStateKey = []byte("passes:pot")

func tierStateKey(tier Tier) []byte {
	return []byte(fmt.Sprintf("passes:tier:%d", tier))
}

type managerState interface {
	IsOrganizer(addr [20]byte) bool
	AssetBalance(addr [20]byte, assetID uint64) (*big.Int, error)
	AddAssetBalance(addr [20]byte, assetID uint64, amount *big.Int) error
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

type rewardMinter interface {
	Credit(caller, holder [20]byte, amount *big.Int) error
}

// Manager configures and sells the capped-supply pass tiers. Native payments
// accumulate in a pot the ledger owner can withdraw.
type Manager struct {
	st      managerState
	minter  rewardMinter
	mintAs  [20]byte
	params  Params
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewManager creates a pass manager backed by the provided state. Reward
// token bonuses are credited through minter with mintAs as the calling
// authority.
func NewManager(st managerState, minter rewardMinter, mintAs [20]byte, params Params) *Manager {
	return &Manager{
		st:      st,
		minter:  minter,
		mintAs:  mintAs,
		params:  params,
		emitter: events.NoopEmitter{},
	}
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op
// implementation.
func (m *Manager) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		m.emitter = events.NoopEmitter{}
		return
	}
	m.emitter = emitter
}

func (m *Manager) SetPauses(p nativecommon.PauseView) {
	if m == nil {
		return
	}
	m.pauses = p
}

func (m *Manager) loadTier(tier Tier) (*TierConfig, error) {
	cfg := new(TierConfig)
	ok, err := m.st.KVGet(tierStateKey(tier), cfg)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Unconfigured tiers read as a zero sale window: price 0, supply 0.
		return &TierConfig{Price: big.NewInt(0)}, nil
	}
	if cfg.Price == nil {
		cfg.Price = big.NewInt(0)
	}
	return cfg, nil
}

// Configure opens (or re-opens) the sale window for a tier. Organizer only.
// Re-configuring resets the issued counter to zero while leaving previously
// issued passes outstanding; the sold count intentionally tracks the current
// window, not circulating supply.
func (m *Manager) Configure(caller [20]byte, tier Tier, price *big.Int, maxSupply uint64) error {
	if err := nativecommon.Guard(m.pauses, moduleName); err != nil {
		return err
	}
	if !m.st.IsOrganizer(caller) {
		return ErrUnauthorized
	}
	if !tier.Valid() {
		return ErrInvalidTier
	}
	if price == nil || price.Sign() <= 0 {
		return ErrInvalidPrice
	}
	if maxSupply == 0 {
		return ErrInvalidSupply
	}
	cfg := &TierConfig{
		Price:     new(big.Int).Set(price),
		MaxSupply: maxSupply,
		Issued:    0,
	}
	if err := m.st.KVPut(tierStateKey(tier), cfg); err != nil {
		return err
	}
	m.emitter.Emit(events.PassTierConfigured{
		Tier:      uint64(tier),
		Price:     new(big.Int).Set(price),
		MaxSupply: maxSupply,
	})
	return nil
}

// Purchase sells one pass of the tier to the caller. The attached native
// payment must equal the configured price exactly; there is no overpayment
// tolerance. Premier and VIP purchases credit the welcome bonus through the
// reward token gate.
func (m *Manager) Purchase(caller [20]byte, tier Tier, payment *big.Int) error {
	if err := nativecommon.Guard(m.pauses, moduleName); err != nil {
		return err
	}
	if !tier.Valid() {
		return ErrInvalidTier
	}
	cfg, err := m.loadTier(tier)
	if err != nil {
		return err
	}
	if payment == nil {
		payment = big.NewInt(0)
	}
	if payment.Cmp(cfg.Price) != 0 {
		return ErrWrongPayment
	}
	if cfg.Issued >= cfg.MaxSupply {
		return ErrSupplyExhausted
	}

	bonus := m.params.bonusFor(tier)
	if bonus.Sign() > 0 {
		if err := m.minter.Credit(m.mintAs, caller, bonus); err != nil {
			return err
		}
	}
	cfg.Issued++
	if err := m.st.KVPut(tierStateKey(tier), cfg); err != nil {
		return err
	}
	if err := m.st.AddAssetBalance(caller, tier.AssetID(), big.NewInt(1)); err != nil {
		return err
	}
	pot, err := m.Pot()
	if err != nil {
		return err
	}
	if err := m.st.KVPut(potStateKey, new(big.Int).Add(pot, payment)); err != nil {
		return err
	}
	m.emitter.Emit(events.PassPurchased{
		Buyer: caller,
		Tier:  uint64(tier),
		Bonus: bonus,
	})
	return nil
}

// HasAnyTier reports whether the holder owns at least one pass of any tier.
func (m *Manager) HasAnyTier(holder [20]byte) (bool, error) {
	for tier := TierGeneral; tier <= TierVIP; tier++ {
		balance, err := m.st.AssetBalance(holder, tier.AssetID())
		if err != nil {
			return false, err
		}
		if balance.Sign() > 0 {
			return true, nil
		}
	}
	return false, nil
}

// MultiplierOf returns the reward multiplier for the highest-privilege tier
// the holder owns any unit of, or zero when the holder owns none. Ownership
// of multiple tiers resolves to the highest tier's multiplier, not a sum.
func (m *Manager) MultiplierOf(holder [20]byte) (uint64, error) {
	for tier := TierVIP; tier >= TierGeneral; tier-- {
		balance, err := m.st.AssetBalance(holder, tier.AssetID())
		if err != nil {
			return 0, err
		}
		if balance.Sign() > 0 {
			return tier.Multiplier(), nil
		}
	}
	return 0, nil
}

// TierConfigOf returns the current sale window for a tier. The boolean
// reports whether the tier has ever been configured.
func (m *Manager) TierConfigOf(tier Tier) (*TierConfig, bool, error) {
	if !tier.Valid() {
		return nil, false, ErrInvalidTier
	}
	cfg := new(TierConfig)
	ok, err := m.st.KVGet(tierStateKey(tier), cfg)
	if err != nil || !ok {
		return nil, false, err
	}
	if cfg.Price == nil {
		cfg.Price = big.NewInt(0)
	}
	return cfg, true, nil
}

// Pot returns the accumulated native pass-sale proceeds.
func (m *Manager) Pot() (*big.Int, error) {
	pot := new(big.Int)
	ok, err := m.st.KVGet(potStateKey, pot)
	if err != nil {
		return nil, err
	}
	if !ok {
		return big.NewInt(0), nil
	}
	return pot, nil
}

// DrainPot zeroes the pot and returns the drained amount. Authorization is
// the ledger service's responsibility.
func (m *Manager) DrainPot() (*big.Int, error) {
	pot, err := m.Pot()
	if err != nil {
		return nil, err
	}
	if err := m.st.KVPut(potStateKey, big.NewInt(0)); err != nil {
		return nil, err
	}
	return pot, nil
}
