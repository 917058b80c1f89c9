package collectible

import "math/big"

// FirstSeriesID is the lowest series identifier the registry allocates. The
// range below it is reserved for the pass tier asset identifiers.
const FirstSeriesID uint32 = 100

// Series captures a named, price-and-supply-bounded collectible catalog.
// NextItem starts at 1 and never exceeds MaxItems+1.
type Series struct {
	Name         string
	MetadataBase string
	UnitPrice    *big.Int
	MaxItems     uint64
	NextItem     uint64
	Active       bool
}

// Minted describes one redeemed edition.
type Minted struct {
	EncodedID uint64
	SeriesID  uint32
	ItemSeq   uint32
}

// TokenDetails is the decoded, display-ready view of a minted edition.
type TokenDetails struct {
	SeriesID        uint32
	ItemSeq         uint32
	Name            string
	Edition         uint32
	MaxItems        uint64
	MetadataLocator string
}
