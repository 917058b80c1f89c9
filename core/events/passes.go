package events

import "math/big"

const (
	// TypePassTierConfigured is emitted when the organizer configures or
	// re-configures a pass tier.
	TypePassTierConfigured = "passes.tier.configured"
	// TypePassPurchased is emitted when a holder purchases a pass.
	TypePassPurchased = "passes.purchased"
)

// PassTierConfigured captures a tier's refreshed price and supply window.
type PassTierConfigured struct {
	Tier      uint64
	Price     *big.Int
	MaxSupply uint64
}

// EventType implements the Event interface.
func (PassTierConfigured) EventType() string { return TypePassTierConfigured }

// Attributes implements the Event interface.
func (e PassTierConfigured) Attributes() map[string]string {
	return map[string]string{
		"tier":      uintAttr(e.Tier),
		"price":     amountAttr(e.Price),
		"maxSupply": uintAttr(e.MaxSupply),
	}
}

// PassPurchased captures a completed pass sale, including the reward token
// welcome bonus credited for the premium tiers.
type PassPurchased struct {
	Buyer [20]byte
	Tier  uint64
	Bonus *big.Int
}

// EventType implements the Event interface.
func (PassPurchased) EventType() string { return TypePassPurchased }

// Attributes implements the Event interface.
func (e PassPurchased) Attributes() map[string]string {
	return map[string]string{
		"buyer": addressAttr(e.Buyer),
		"tier":  uintAttr(e.Tier),
		"bonus": amountAttr(e.Bonus),
	}
}
