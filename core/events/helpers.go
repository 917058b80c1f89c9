package events

import (
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
)

func addressAttr(addr [20]byte) string {
	return "0x" + common.Bytes2Hex(addr[:])
}

func amountAttr(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func uintAttr(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func boolAttr(v bool) string {
	return strconv.FormatBool(v)
}
