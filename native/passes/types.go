package passes

import "math/big"

// Tier identifies one of the three enumerated pass classes. The numeric value
// doubles as the asset identifier in the ownership ledger.
type Tier uint8

const (
	TierGeneral Tier = 1
	TierPremier Tier = 2
	TierVIP     Tier = 3
)

// Valid reports whether the tier is one of the enumerated classes.
func (t Tier) Valid() bool {
	return t >= TierGeneral && t <= TierVIP
}

// AssetID returns the ownership ledger asset identifier for the tier.
func (t Tier) AssetID() uint64 {
	return uint64(t)
}

// Multiplier returns the reward scaling factor granted by the tier.
func (t Tier) Multiplier() uint64 {
	switch t {
	case TierGeneral:
		return 1
	case TierPremier:
		return 2
	case TierVIP:
		return 3
	default:
		return 0
	}
}

// TierConfig captures the sale window for a tier.
type TierConfig struct {
	Price     *big.Int
	MaxSupply uint64
	Issued    uint64
}

// Params holds the reward token welcome bonuses credited on premium tier
// purchases.
type Params struct {
	PremierBonus *big.Int
	VIPBonus     *big.Int
}

// DefaultParams returns the production bonus amounts.
func DefaultParams() Params {
	return Params{
		PremierBonus: big.NewInt(100),
		VIPBonus:     big.NewInt(250),
	}
}

func (p Params) bonusFor(tier Tier) *big.Int {
	switch tier {
	case TierPremier:
		if p.PremierBonus != nil {
			return new(big.Int).Set(p.PremierBonus)
		}
	case TierVIP:
		if p.VIPBonus != nil {
			return new(big.Int).Set(p.VIPBonus)
		}
	}
	return big.NewInt(0)
}
