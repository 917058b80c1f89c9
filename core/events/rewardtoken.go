package events

import "math/big"

const (
	// TypeRewardAuthorityBound is emitted when the reward token's mint/burn
	// authority is bound for the lifetime of the ledger.
	TypeRewardAuthorityBound = "rewardtoken.authority.bound"
	// TypeRewardCredited is emitted when reward tokens are minted to a
	// holder.
	TypeRewardCredited = "rewardtoken.credited"
	// TypeRewardDebited is emitted when reward tokens are burned from a
	// holder.
	TypeRewardDebited = "rewardtoken.debited"
)

// RewardAuthorityBound captures the one-time binding of the mint/burn
// authority.
type RewardAuthorityBound struct {
	Authority [20]byte
}

// EventType implements the Event interface.
func (RewardAuthorityBound) EventType() string { return TypeRewardAuthorityBound }

// Attributes implements the Event interface.
func (e RewardAuthorityBound) Attributes() map[string]string {
	return map[string]string{
		"authority": addressAttr(e.Authority),
	}
}

// RewardCredited captures a successful reward token mint.
type RewardCredited struct {
	Holder [20]byte
	Amount *big.Int
}

// EventType implements the Event interface.
func (RewardCredited) EventType() string { return TypeRewardCredited }

// Attributes implements the Event interface.
func (e RewardCredited) Attributes() map[string]string {
	return map[string]string{
		"holder": addressAttr(e.Holder),
		"amount": amountAttr(e.Amount),
	}
}

// RewardDebited captures a successful reward token burn.
type RewardDebited struct {
	Holder [20]byte
	Amount *big.Int
}

// EventType implements the Event interface.
func (RewardDebited) EventType() string { return TypeRewardDebited }

// Attributes implements the Event interface.
func (e RewardDebited) Attributes() map[string]string {
	return map[string]string{
		"holder": addressAttr(e.Holder),
		"amount": amountAttr(e.Amount),
	}
}
