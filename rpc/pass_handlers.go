package rpc

import (
	"net/http"

	"encorechain/native/passes"
)

type passConfigureParams struct {
	Caller    string `json:"caller"`
	Tier      uint8  `json:"tier"`
	Price     string `json:"price"`
	MaxSupply uint64 `json:"maxSupply"`
}

type passPurchaseParams struct {
	Caller  string `json:"caller"`
	Tier    uint8  `json:"tier"`
	Payment string `json:"payment"`
}

type passTierParams struct {
	Tier uint8 `json:"tier"`
}

type passTierResult struct {
	Tier      uint8  `json:"tier"`
	Price     string `json:"price"`
	MaxSupply uint64 `json:"maxSupply"`
	Issued    uint64 `json:"issued"`
}

func (s *Server) handlePassConfigure(w http.ResponseWriter, req *RPCRequest) {
	var params passConfigureParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	price, err := parseAmount(params.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid price", err.Error())
		return
	}
	if err := s.ledger.ConfigureTier(caller, passes.Tier(params.Tier), price, params.MaxSupply); err != nil {
		writeModuleError(w, req.ID, "failed to configure tier", err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handlePassPurchase(w http.ResponseWriter, req *RPCRequest) {
	var params passPurchaseParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	payment, err := parseAmount(params.Payment)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid payment", err.Error())
		return
	}
	if err := s.ledger.PurchasePass(caller, passes.Tier(params.Tier), payment); err != nil {
		writeModuleError(w, req.ID, "failed to purchase pass", err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handlePassHasAnyTier(w http.ResponseWriter, req *RPCRequest) {
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
	held, err := s.ledger.HasAnyTier(holder)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load holdings", err.Error())
		return
	}
	writeResult(w, req.ID, held)
}

func (s *Server) handlePassMultiplier(w http.ResponseWriter, req *RPCRequest) {
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
	multiplier, err := s.ledger.MultiplierOf(holder)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to load multiplier", err.Error())
		return
	}
	writeResult(w, req.ID, multiplier)
}

func (s *Server) handlePassTierConfig(w http.ResponseWriter, req *RPCRequest) {
	var params passTierParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	cfg, ok, err := s.ledger.TierConfigOf(passes.Tier(params.Tier))
	if err != nil {
		writeModuleError(w, req.ID, "failed to load tier", err)
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeInvalidParams, "tier not configured", params.Tier)
		return
	}
	writeResult(w, req.ID, passTierResult{
		Tier:      params.Tier,
		Price:     cfg.Price.String(),
		MaxSupply: cfg.MaxSupply,
		Issued:    cfg.Issued,
	})
}
