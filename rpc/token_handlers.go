package rpc

import (
	"errors"
	"net/http"

	"encorechain/core"
	"encorechain/native/collectible"
	nativecommon "encorechain/native/common"
	"encorechain/native/passes"
	"encorechain/native/performance"
	"encorechain/native/rewardtoken"
)

// writeModuleError renders a ledger failure in the proper HTTP and JSON-RPC
// error shape.
func writeModuleError(w http.ResponseWriter, id interface{}, message string, err error) {
	status := http.StatusBadRequest
	code := codeInvalidParams
	switch {
	case errors.Is(err, core.ErrNotOwner),
		errors.Is(err, passes.ErrUnauthorized),
		errors.Is(err, performance.ErrUnauthorized),
		errors.Is(err, collectible.ErrUnauthorized),
		errors.Is(err, rewardtoken.ErrNotAuthority):
		status = http.StatusForbidden
		code = codeUnauthorized
	case errors.Is(err, nativecommon.ErrModulePaused):
		status = http.StatusServiceUnavailable
		code = codeServerError
	}
	writeError(w, status, id, code, message, err.Error())
}

type bindParams struct {
	Authority string `json:"authority"`
}

type addressParams struct {
	Address string `json:"address"`
}

func (s *Server) handleTokenBind(w http.ResponseWriter, req *RPCRequest) {
	var params bindParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	authority, err := decodeBech32(params.Authority)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid authority address", err.Error())
		return
	}
	if err := s.ledger.BindRewardAuthority(authority); err != nil {
		writeModuleError(w, req.ID, "failed to bind authority", err)
		return
	}
	writeResult(w, req.ID, formatAddress(authority))
}

type authorityResult struct {
	Authority string `json:"authority,omitempty"`
	Bound     bool   `json:"bound"`
}

func (s *Server) handleTokenAuthority(w http.ResponseWriter, req *RPCRequest) {
	authority, bound, err := s.ledger.RewardAuthority()
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load authority", err.Error())
		return
	}
	result := authorityResult{Bound: bound}
	if bound {
		result.Authority = formatAddress(authority)
	}
	writeResult(w, req.ID, result)
}

type balanceResult struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
}

func (s *Server) handleTokenBalance(w http.ResponseWriter, req *RPCRequest) {
	var params addressParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	holder, err := decodeBech32(params.Address)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid address", err.Error())
		return
	}
	balance, err := s.ledger.RewardBalanceOf(holder)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load balance", err.Error())
		return
	}
	writeResult(w, req.ID, balanceResult{Address: formatAddress(holder), Balance: balance.String()})
}
