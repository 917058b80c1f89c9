package rpc

import (
	"net/http"
	"strconv"
	"strings"

	"encorechain/native/collectible"
)

type createSeriesParams struct {
	Caller       string `json:"caller"`
	Name         string `json:"name"`
	MetadataBase string `json:"metadataBase"`
	UnitPrice    string `json:"unitPrice"`
	MaxItems     uint64 `json:"maxItems"`
	Active       bool   `json:"active"`
}

type seriesActiveParams struct {
	Caller   string `json:"caller"`
	SeriesID uint32 `json:"seriesId"`
	Active   bool   `json:"active"`
}

type redeemParams struct {
	Caller   string `json:"caller"`
	SeriesID uint32 `json:"seriesId"`
}

type encodeParams struct {
	SeriesID uint32 `json:"seriesId"`
	ItemSeq  uint32 `json:"itemSeq"`
}

// tokenIDParams carries an encoded edition identifier. Identifiers are
// rendered as decimal strings because they occupy the full uint64 range.
type tokenIDParams struct {
	TokenID string `json:"tokenId"`
}

type mintedResult struct {
	TokenID  string `json:"tokenId"`
	SeriesID uint32 `json:"seriesId"`
	ItemSeq  uint32 `json:"itemSeq"`
}

type detailsResult struct {
	SeriesID        uint32 `json:"seriesId"`
	ItemSeq         uint32 `json:"itemSeq"`
	Name            string `json:"name"`
	Edition         uint32 `json:"edition"`
	MaxItems        uint64 `json:"maxItems"`
	MetadataLocator string `json:"metadataLocator"`
}

// ownedResult lists a holder's editions as parallel arrays.
type ownedResult struct {
	TokenIDs  []string `json:"tokenIds"`
	SeriesIDs []uint32 `json:"seriesIds"`
	ItemSeqs  []uint32 `json:"itemSeqs"`
}

func parseTokenID(raw string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
}

func formatTokenID(id uint64) string {
	return strconv.FormatUint(id, 10)
}

func (s *Server) handleCollectibleCreateSeries(w http.ResponseWriter, req *RPCRequest) {
	var params createSeriesParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	unitPrice, err := parseAmount(params.UnitPrice)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid unit price", err.Error())
		return
	}
	id, err := s.ledger.CreateSeries(caller, params.Name, params.MetadataBase, unitPrice, params.MaxItems, params.Active)
	if err != nil {
		writeModuleError(w, req.ID, "failed to create series", err)
		return
	}
	writeResult(w, req.ID, id)
}

func (s *Server) handleCollectibleSetSeriesActive(w http.ResponseWriter, req *RPCRequest) {
	var params seriesActiveParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	if err := s.ledger.SetSeriesActive(caller, params.SeriesID, params.Active); err != nil {
		writeModuleError(w, req.ID, "failed to update series", err)
		return
	}
	writeResult(w, req.ID, "ok")
}

func (s *Server) handleCollectibleRedeem(w http.ResponseWriter, req *RPCRequest) {
	var params redeemParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := decodeBech32(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid caller address", err.Error())
		return
	}
	minted, err := s.ledger.RedeemCollectible(caller, params.SeriesID)
	if err != nil {
		writeModuleError(w, req.ID, "failed to redeem", err)
		return
	}
	writeResult(w, req.ID, mintedResult{
		TokenID:  formatTokenID(minted.EncodedID),
		SeriesID: minted.SeriesID,
		ItemSeq:  minted.ItemSeq,
	})
}

func (s *Server) handleCollectibleEncode(w http.ResponseWriter, req *RPCRequest) {
	var params encodeParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	writeResult(w, req.ID, formatTokenID(collectible.EncodeItemID(params.SeriesID, params.ItemSeq)))
}

func (s *Server) handleCollectibleDecode(w http.ResponseWriter, req *RPCRequest) {
	var params tokenIDParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	encoded, err := parseTokenID(params.TokenID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid token id", err.Error())
		return
	}
	seriesID, itemSeq := collectible.DecodeItemID(encoded)
	writeResult(w, req.ID, encodeParams{SeriesID: seriesID, ItemSeq: itemSeq})
}

func (s *Server) handleCollectibleDetails(w http.ResponseWriter, req *RPCRequest) {
	var params tokenIDParams
	if rpcErr := decodeParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	encoded, err := parseTokenID(params.TokenID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, "invalid token id", err.Error())
		return
	}
	details, err := s.ledger.CollectibleDetails(encoded)
	if err != nil {
		writeModuleError(w, req.ID, "failed to load token", err)
		return
	}
	writeResult(w, req.ID, detailsResult{
		SeriesID:        details.SeriesID,
		ItemSeq:         details.ItemSeq,
		Name:            details.Name,
		Edition:         details.Edition,
		MaxItems:        details.MaxItems,
		MetadataLocator: details.MetadataLocator,
	})
}

func (s *Server) handleCollectibleOwned(w http.ResponseWriter, req *RPCRequest) {
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
	owned, err := s.ledger.OwnedCollectibles(holder)
	if err != nil {
		writeError(w, http.StatusInternalServerError, req.ID, codeServerError, "failed to scan holdings", err.Error())
		return
	}
	result := ownedResult{
		TokenIDs:  make([]string, 0, len(owned)),
		SeriesIDs: make([]uint32, 0, len(owned)),
		ItemSeqs:  make([]uint32, 0, len(owned)),
	}
	for _, minted := range owned {
		result.TokenIDs = append(result.TokenIDs, formatTokenID(minted.EncodedID))
		result.SeriesIDs = append(result.SeriesIDs, minted.SeriesID)
		result.ItemSeqs = append(result.ItemSeqs, minted.ItemSeq)
	}
	writeResult(w, req.ID, result)
}
