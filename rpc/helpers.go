package rpc

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"encorechain/crypto"
)

func decodeBech32(addr string) ([20]byte, error) {
	decoded, err := crypto.DecodeAddress(strings.TrimSpace(addr))
	if err != nil {
		return [20]byte{}, err
	}
	return decoded.Array(), nil
}

func formatAddress(addr [20]byte) string {
	return crypto.MustNewAddress(crypto.EncorePrefix, addr[:]).String()
}

// parseAmount accepts a base-10 integer string and rejects empty or negative
// values.
func parseAmount(raw string) (*big.Int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("amount required")
	}
	amount, ok := new(big.Int).SetString(trimmed, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", raw)
	}
	if amount.Sign() < 0 {
		return nil, fmt.Errorf("amount must not be negative")
	}
	return amount, nil
}

// decodeParams unmarshals the single expected parameter object.
func decodeParams(req *RPCRequest, out interface{}) *RPCError {
	if len(req.Params) != 1 {
		return &RPCError{Code: codeInvalidParams, Message: "exactly one parameter object expected"}
	}
	if err := json.Unmarshal(req.Params[0], out); err != nil {
		return &RPCError{Code: codeInvalidParams, Message: "invalid parameter object", Data: err.Error()}
	}
	return nil
}
