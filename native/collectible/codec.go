package collectible

// The encoded collectible identifier packs the series identifier into the
// high 32 bits and the item sequence number into the low 32 bits of a single
// uint64. The packing is a bijection over the full range of both halves, so
// no two distinct (series, item) pairs can collide.

const itemBits = 32

// EncodeItemID packs a (series, item) pair into a single asset identifier.
func EncodeItemID(series, item uint32) uint64 {
	return uint64(series)<<itemBits | uint64(item)
}

// DecodeItemID splits an encoded asset identifier back into its (series,
// item) pair.
func DecodeItemID(encoded uint64) (series, item uint32) {
	return uint32(encoded >> itemBits), uint32(encoded)
}
