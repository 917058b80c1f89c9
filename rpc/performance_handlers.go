package rpc

import (
	"net/http"
	"time"
)

type perfScheduleParams struct {
	Caller          string `json:"caller"`
	Start           int64  `json:"start"`
	DurationSeconds int64  `json:"durationSeconds"`
	BaseReward      string `json:"baseReward"`
}

type perfIDParams struct {
	ID uint64 `json:"id"`
}

type perfAttendParams struct {
	Caller string `json:"caller"`
	ID     uint64 `json:"id"`
}

type perfResult struct {
	ID         uint64 `json:"id"`
	Start      uint64 `json:"start"`
	End        uint64 `json:"end"`
	BaseReward string `json:"baseReward"`
}

func (s *Server) handlePerfSchedule(w http.ResponseWriter, req *RPCRequest) {
	var params perfScheduleParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	baseReward, err := parseAmount(params.BaseReward)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid base reward", err.Error())
		return
	}
	id, err := s.ledger.SchedulePerformance(caller,
		time.Unix(params.Start, 0),
		time.Duration(params.DurationSeconds)*time.Second,
		baseReward)
	if err != nil {
		writeModuleError(w, req.ID, "failed to schedule performance", err)
		return
	}
	writeResult(w, req.ID, id)
}

func (s *Server) handlePerfIsActive(w http.ResponseWriter, req *RPCRequest) {
	var params perfIDParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	writeResult(w, req.ID, s.ledger.IsPerformanceActive(params.ID))
}

func (s *Server) handlePerfGet(w http.ResponseWriter, req *RPCRequest) {
	var params perfIDParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	record, err := s.ledger.PerformanceOf(params.ID)
	if err != nil {
		writeModuleError(w, req.ID, "failed to load performance", err)
		return
	}
	writeResult(w, req.ID, perfResult{
		ID:         params.ID,
		Start:      record.Start,
		End:        record.End,
		BaseReward: record.BaseReward.String(),
	})
}

func (s *Server) handlePerfAttend(w http.ResponseWriter, req *RPCRequest) {
	var params perfAttendParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	reward, err := s.ledger.Attend(caller, params.ID)
	if err != nil {
		writeModuleError(w, req.ID, "failed to check in", err)
		return
	}
	writeResult(w, req.ID, reward.String())
}
