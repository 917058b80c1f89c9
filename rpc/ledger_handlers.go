package rpc

import (
	"net/http"
)

type setOrganizerParams struct {
	Caller    string `json:"caller"`
	Organizer string `json:"organizer"`
}

type withdrawParams struct {
	Caller string `json:"caller"`
	Target string `json:"target"`
}

type setPausedParams struct {
	Caller string `json:"caller"`
	Module string `json:"module"`
	Paused bool   `json:"paused"`
}

type eventsParams struct {
	Limit int `json:"limit"`
}

type eventResult struct {
	Sequence   uint64            `json:"sequence"`
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}

func (s *Server) handleLedgerSetOrganizer(w http.ResponseWriter, req *RPCRequest) {
	var params setOrganizerParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	organizer, err := decodeBech32(params.Organizer)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid organizer address", err.Error())
		return
	}
	if err := s.ledger.SetOrganizingAuthority(caller, organizer); err != nil {
		writeModuleError(w, req.ID, "failed to rotate organizer", err)
		return
	}
	writeResult(w, req.ID, formatAddress(organizer))
}

func (s *Server) handleLedgerWithdraw(w http.ResponseWriter, req *RPCRequest) {
	var params withdrawParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	target, err := decodeBech32(params.Target)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid target address", err.Error())
		return
	}
	amount, err := s.ledger.Withdraw(caller, target)
	if err != nil {
		writeModuleError(w, req.ID, "failed to withdraw", err)
		return
	}
	writeResult(w, req.ID, amount.String())
}

func (s *Server) handleLedgerSetModulePaused(w http.ResponseWriter, req *RPCRequest) {
	var params setPausedParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.ledger.SetModulePaused(caller, params.Module, params.Paused); err != nil {
		writeModuleError(w, req.ID, "failed to update pause flag", err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleLedgerEvents(w http.ResponseWriter, req *RPCRequest) {
	params := eventsParams{}
	if len(req.Params) > 0 {
		if rpcErr := decodeParams(req, &params); rpcErr != nil {
			writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
			return
		}
	}
	recent := s.ledger.RecentEvents(params.Limit)
	results := make([]eventResult, 0, len(recent))
	for _, e := range recent {
		results = append(results, eventResult{
			Sequence:   e.Sequence,
			Type:       e.Type,
			Attributes: e.Attributes,
		})
	}
	writeResult(w, req.ID, results)
}
