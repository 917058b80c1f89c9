package rewardtoken

import (
	"math/big"

	"encorechain/core/events"
	nativecommon "encorechain/native/common"
)

const moduleName = "rewardtoken"

var authorityStateKey = []byte("rewardtoken:authority")

type ledgerState interface {
	RewardBalance(addr [20]byte) (*big.Int, error)
	SetRewardBalance(addr [20]byte, amount *big.Int) error
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

// Ledger guards the reward token balance book. A single authority, bound
// exactly once for the lifetime of the ledger, is the only identity allowed
// to credit or debit balances.
type Ledger struct {
	st      ledgerState
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewLedger creates a reward token ledger backed by the provided state
// manager.
func NewLedger(st ledgerState) *Ledger {
	return &Ledger{st: st, emitter: events.NoopEmitter{}}
}

// SetEmitter configures the event emitter used to broadcast balance changes.
// Passing nil resets the emitter to a no-op implementation.
func (l *Ledger) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		l.emitter = events.NoopEmitter{}
		return
	}
	l.emitter = emitter
}

func (l *Ledger) SetPauses(p nativecommon.PauseView) {
	if l == nil {
		return
	}
	l.pauses = p
}

// Authority returns the bound mint/burn authority, if one has been set.
func (l *Ledger) Authority() ([20]byte, bool, error) {
	var raw []byte
	var out [20]byte
	ok, err := l.st.KVGet(authorityStateKey, &raw)
	if err != nil || !ok {
		return out, false, err
	}
	copy(out[:], raw)
	return out, true, nil
}

// Bind permanently installs the mint/burn authority. The binding succeeds at
// most once per ledger instance; every later attempt fails regardless of the
// requested authority.
func (l *Ledger) Bind(authority [20]byte) error {
	if authority == ([20]byte{}) {
		return ErrInvalidAuthority
	}
	_, bound, err := l.Authority()
	if err != nil {
		return err
	}
	if bound {
		return ErrAlreadyBound
	}
	if err := l.st.KVPut(authorityStateKey, authority[:]); err != nil {
		return err
	}
	l.emitter.Emit(events.RewardAuthorityBound{Authority: authority})
	return nil
}

func (l *Ledger) requireAuthority(caller [20]byte) error {
	authority, bound, err := l.Authority()
	if err != nil {
		return err
	}
	if !bound || authority != caller {
		return ErrNotAuthority
	}
	return nil
}

// Credit mints the amount to the holder's balance. Only the bound authority
// may call it.
func (l *Ledger) Credit(caller, holder [20]byte, amount *big.Int) error {
	if err := nativecommon.Guard(l.pauses, moduleName); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if err := l.requireAuthority(caller); err != nil {
		return err
	}
	balance, err := l.st.RewardBalance(holder)
	if err != nil {
		return err
	}
	if err := l.st.SetRewardBalance(holder, new(big.Int).Add(balance, amount)); err != nil {
		return err
	}
	l.emitter.Emit(events.RewardCredited{Holder: holder, Amount: new(big.Int).Set(amount)})
	return nil
}

// Debit burns the amount from the holder's balance. Only the bound authority
// may call it.
func (l *Ledger) Debit(caller, holder [20]byte, amount *big.Int) error {
	if err := nativecommon.Guard(l.pauses, moduleName); err != nil {
		return err
	}
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if err := l.requireAuthority(caller); err != nil {
		return err
	}
	balance, err := l.st.RewardBalance(holder)
	if err != nil {
		return err
	}
	if balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	if err := l.st.SetRewardBalance(holder, new(big.Int).Sub(balance, amount)); err != nil {
		return err
	}
	l.emitter.Emit(events.RewardDebited{Holder: holder, Amount: new(big.Int).Set(amount)})
	return nil
}

// BalanceOf returns the holder's reward token balance.
func (l *Ledger) BalanceOf(holder [20]byte) (*big.Int, error) {
	return l.st.RewardBalance(holder)
}
