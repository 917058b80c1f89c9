package rpc

import (
	"bytes"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"encorechain/core"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB

	// AuthTokenEnv names the environment variable carrying the bearer token
	// required by mutating methods.
	AuthTokenEnv = "ENCORE_RPC_TOKEN"
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
	codeRateLimited    = -32020
)

// Server exposes the ledger over JSON-RPC 2.0.
type Server struct {
	ledger    *core.Ledger
	authToken string
	log       *slog.Logger

	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	rateLimit rate.Limit
	rateBurst int
}

// NewServer builds an RPC server over the ledger. The auth token is read from
// the ENCORE_RPC_TOKEN environment variable; when empty, mutating methods are
// rejected. Rate limiting is applied per client IP.
func NewServer(ledger *core.Ledger, log *slog.Logger, limitPerSecond, burst int) *Server {
	if log == nil {
		log = slog.Default()
	}
	if limitPerSecond <= 0 {
		limitPerSecond = 20
	}
	if burst < limitPerSecond {
		burst = limitPerSecond
	}
	return &Server{
		ledger:    ledger,
		authToken: strings.TrimSpace(os.Getenv(AuthTokenEnv)),
		log:       log,
		limiters:  make(map[string]*rate.Limiter),
		rateLimit: rate.Limit(limitPerSecond),
		rateBurst: burst,
	}
}

// Handler returns the HTTP handler serving the JSON-RPC endpoint.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handle)
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      interface{}       `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	_ = json.NewEncoder(w).Encode(RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj})
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	_ = json.NewEncoder(w).Encode(RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result})
}

func (s *Server) limiterFor(source string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	limiter, ok := s.limiters[source]
	if !ok {
		limiter = rate.NewLimiter(s.rateLimit, s.rateBurst)
		s.limiters[source] = limiter
	}
	return limiter
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) requireAuth(r *http.Request) *RPCError {
	if s.authToken == "" {
		return &RPCError{Code: codeUnauthorized, Message: "RPC authentication token not configured"}
	}
	header := r.Header.Get("Authorization")
	if header == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing Authorization header"}
	}
	if !strings.HasPrefix(header, "Bearer ") {
		return &RPCError{Code: codeUnauthorized, Message: "Authorization header must use Bearer scheme"}
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" {
		return &RPCError{Code: codeUnauthorized, Message: "missing bearer token"}
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
		return &RPCError{Code: codeUnauthorized, Message: "invalid RPC credentials"}
	}
	return nil
}

// handle is the main request handler that routes to specific handlers.
func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	source := clientIP(r)
	if !s.limiterFor(source).Allow() {
		writeError(w, http.StatusTooManyRequests, nil, codeRateLimited, "rate limit exceeded", nil)
		return
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	correlation := uuid.NewString()
	started := time.Now()
	s.log.Info("rpc request", "correlation", correlation, "method", req.Method, "source", source)
	defer func() {
		s.log.Info("rpc request done", "correlation", correlation, "method", req.Method, "elapsed", time.Since(started))
	}()

	switch req.Method {
	case "token_bind":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleTokenBind(w, req)
	case "token_authority":
		s.handleTokenAuthority(w, req)
	case "token_balance":
		s.handleTokenBalance(w, req)
	case "pass_configure":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handlePassConfigure(w, req)
	case "pass_purchase":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handlePassPurchase(w, req)
	case "pass_hasAnyTier":
		s.handlePassHasAnyTier(w, req)
	case "pass_multiplier":
		s.handlePassMultiplier(w, req)
	case "pass_tierConfig":
		s.handlePassTierConfig(w, req)
	case "perf_schedule":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handlePerfSchedule(w, req)
	case "perf_isActive":
		s.handlePerfIsActive(w, req)
	case "perf_get":
		s.handlePerfGet(w, req)
	case "perf_attend":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handlePerfAttend(w, req)
	case "collectible_createSeries":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleCollectibleCreateSeries(w, req)
	case "collectible_setSeriesActive":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleCollectibleSetSeriesActive(w, req)
	case "collectible_redeem":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleCollectibleRedeem(w, req)
	case "collectible_encode":
		s.handleCollectibleEncode(w, req)
	case "collectible_decode":
		s.handleCollectibleDecode(w, req)
	case "collectible_details":
		s.handleCollectibleDetails(w, req)
	case "collectible_owned":
		s.handleCollectibleOwned(w, req)
	case "ledger_setOrganizer":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleLedgerSetOrganizer(w, req)
	case "ledger_withdraw":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleLedgerWithdraw(w, req)
	case "ledger_setModulePaused":
		if authErr := s.requireAuth(r); authErr != nil {
			writeError(w, http.StatusUnauthorized, req.ID, authErr.Code, authErr.Message, authErr.Data)
			return
		}
		s.handleLedgerSetModulePaused(w, req)
	case "ledger_events":
		s.handleLedgerEvents(w, req)
	default:
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method), nil)
	}
}
