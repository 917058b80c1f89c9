package rpc

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"encorechain/core"
	"encorechain/core/state"
	"encorechain/crypto"
	"encorechain/storage"
)

const testToken = "test-token"

type env struct {
	ledger *core.Ledger
	server *httptest.Server

	owner     string
	organizer string
	holder    string
}

func testAddr(t *testing.T, b byte) string {
	t.Helper()
	raw := make([]byte, 20)
	raw[19] = b
	addr, err := crypto.NewAddress(crypto.EncorePrefix, raw)
	require.NoError(t, err)
	return addr.String()
}

func newEnv(t *testing.T) *env {
	t.Helper()
	t.Setenv(AuthTokenEnv, testToken)

	db := storage.NewMemDB()
	t.Cleanup(db.Close)
	ledger, err := core.NewLedger(state.NewManager(db), core.DefaultConfig())
	require.NoError(t, err)

	e := &env{
		ledger:    ledger,
		owner:     testAddr(t, 0x01),
		organizer: testAddr(t, 0x02),
		holder:    testAddr(t, 0x10),
	}
	ownerRaw, err := crypto.DecodeAddress(e.owner)
	require.NoError(t, err)
	organizerRaw, err := crypto.DecodeAddress(e.organizer)
	require.NoError(t, err)
	require.NoError(t, ledger.InitGenesis(ownerRaw.Array(), organizerRaw.Array()))
	require.NoError(t, ledger.BindRewardAuthority(core.ModuleAddress))

	srv := NewServer(ledger, slog.Default(), 1000, 1000)
	e.server = httptest.NewServer(srv.Handler())
	t.Cleanup(e.server.Close)
	return e
}

type rpcReply struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
}

func (e *env) call(t *testing.T, method string, params interface{}, token string) (int, *rpcReply) {
	t.Helper()
	body := map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  method,
	}
	if params != nil {
		body["params"] = []interface{}{params}
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, e.server.URL, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	reply := &rpcReply{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(reply))
	return resp.StatusCode, reply
}

func TestMutatingMethodsRequireAuth(t *testing.T) {
	e := newEnv(t)

	status, reply := e.call(t, "pass_configure", map[string]interface{}{
		"caller": e.organizer, "tier": 1, "price": "10", "maxSupply": 5,
	}, "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, reply.Error)
	require.Equal(t, codeUnauthorized, reply.Error.Code)

	status, reply = e.call(t, "pass_configure", map[string]interface{}{
		"caller": e.organizer, "tier": 1, "price": "10", "maxSupply": 5,
	}, "wrong-token")
	require.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, reply.Error)
}

func TestUnknownMethod(t *testing.T) {
	e := newEnv(t)
	status, reply := e.call(t, "pass_teleport", nil, "")
	require.Equal(t, http.StatusNotFound, status)
	require.NotNil(t, reply.Error)
	require.Equal(t, codeMethodNotFound, reply.Error.Code)
}

func TestPassPurchaseFlow(t *testing.T) {
	e := newEnv(t)

	status, reply := e.call(t, "pass_configure", map[string]interface{}{
		"caller": e.organizer, "tier": 3, "price": "500", "maxSupply": 10,
	}, testToken)
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, reply.Error)

	status, reply = e.call(t, "pass_purchase", map[string]interface{}{
		"caller": e.holder, "tier": 3, "payment": "500",
	}, testToken)
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, reply.Error)

	// Wrong payment surfaces as an invalid-params rejection.
	status, reply = e.call(t, "pass_purchase", map[string]interface{}{
		"caller": e.holder, "tier": 3, "payment": "400",
	}, testToken)
	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, reply.Error)

	status, reply = e.call(t, "token_balance", map[string]interface{}{"address": e.holder}, "")
	require.Equal(t, http.StatusOK, status)
	require.Nil(t, reply.Error)
	var balance struct {
		Balance string `json:"balance"`
	}
	require.NoError(t, json.Unmarshal(reply.Result, &balance))
	require.Equal(t, "250", balance.Balance)

	status, reply = e.call(t, "pass_multiplier", map[string]interface{}{"address": e.holder}, "")
	require.Equal(t, http.StatusOK, status)
	var multiplier uint64
	require.NoError(t, json.Unmarshal(reply.Result, &multiplier))
	require.Equal(t, uint64(3), multiplier)
}

func TestPerformanceAttendanceFlow(t *testing.T) {
	e := newEnv(t)
	now := time.Unix(1_700_000_000, 0)
	e.ledger.SetNow(func() time.Time { return now })

	_, reply := e.call(t, "pass_configure", map[string]interface{}{
		"caller": e.organizer, "tier": 2, "price": "100", "maxSupply": 10,
	}, testToken)
	require.Nil(t, reply.Error)
	_, reply = e.call(t, "pass_purchase", map[string]interface{}{
		"caller": e.holder, "tier": 2, "payment": "100",
	}, testToken)
	require.Nil(t, reply.Error)

	_, reply = e.call(t, "perf_schedule", map[string]interface{}{
		"caller":          e.organizer,
		"start":           now.Add(time.Hour).Unix(),
		"durationSeconds": 7200,
		"baseReward":      "50",
	}, testToken)
	require.Nil(t, reply.Error)
	var id uint64
	require.NoError(t, json.Unmarshal(reply.Result, &id))

	_, reply = e.call(t, "perf_isActive", map[string]interface{}{"id": id}, "")
	var active bool
	require.NoError(t, json.Unmarshal(reply.Result, &active))
	require.False(t, active)

	now = now.Add(90 * time.Minute)
	_, reply = e.call(t, "perf_attend", map[string]interface{}{
		"caller": e.holder, "id": id,
	}, testToken)
	require.Nil(t, reply.Error)
	var reward string
	require.NoError(t, json.Unmarshal(reply.Result, &reward))
	require.Equal(t, "100", reward) // 50 x Premier multiplier 2

	// Second check-in on the same performance is rejected.
	status, reply := e.call(t, "perf_attend", map[string]interface{}{
		"caller": e.holder, "id": id,
	}, testToken)
	require.Equal(t, http.StatusBadRequest, status)
	require.NotNil(t, reply.Error)
}

func TestCollectibleCodecOverRPC(t *testing.T) {
	e := newEnv(t)

	_, reply := e.call(t, "collectible_encode", map[string]interface{}{
		"seriesId": 100, "itemSeq": 7,
	}, "")
	require.Nil(t, reply.Error)
	var encoded string
	require.NoError(t, json.Unmarshal(reply.Result, &encoded))

	_, reply = e.call(t, "collectible_decode", map[string]interface{}{"tokenId": encoded}, "")
	require.Nil(t, reply.Error)
	var decoded struct {
		SeriesID uint32 `json:"seriesId"`
		ItemSeq  uint32 `json:"itemSeq"`
	}
	require.NoError(t, json.Unmarshal(reply.Result, &decoded))
	require.Equal(t, uint32(100), decoded.SeriesID)
	require.Equal(t, uint32(7), decoded.ItemSeq)
}

func TestCollectibleRedeemFlow(t *testing.T) {
	e := newEnv(t)

	// Fund the holder through a VIP purchase bonus.
	_, reply := e.call(t, "pass_configure", map[string]interface{}{
		"caller": e.organizer, "tier": 3, "price": "500", "maxSupply": 10,
	}, testToken)
	require.Nil(t, reply.Error)
	_, reply = e.call(t, "pass_purchase", map[string]interface{}{
		"caller": e.holder, "tier": 3, "payment": "500",
	}, testToken)
	require.Nil(t, reply.Error)

	_, reply = e.call(t, "collectible_createSeries", map[string]interface{}{
		"caller": e.organizer, "name": "Encore Poster", "metadataBase": "ipfs://encore",
		"unitPrice": "250", "maxItems": 5, "active": true,
	}, testToken)
	require.Nil(t, reply.Error)
	var seriesID uint32
	require.NoError(t, json.Unmarshal(reply.Result, &seriesID))

	_, reply = e.call(t, "collectible_redeem", map[string]interface{}{
		"caller": e.holder, "seriesId": seriesID,
	}, testToken)
	require.Nil(t, reply.Error)
	var minted struct {
		TokenID string `json:"tokenId"`
		ItemSeq uint32 `json:"itemSeq"`
	}
	require.NoError(t, json.Unmarshal(reply.Result, &minted))
	require.Equal(t, uint32(1), minted.ItemSeq)

	_, reply = e.call(t, "collectible_details", map[string]interface{}{"tokenId": minted.TokenID}, "")
	require.Nil(t, reply.Error)
	var details struct {
		MetadataLocator string `json:"metadataLocator"`
	}
	require.NoError(t, json.Unmarshal(reply.Result, &details))
	require.Equal(t, "ipfs://encore/items/1", details.MetadataLocator)

	_, reply = e.call(t, "collectible_owned", map[string]interface{}{"address": e.holder}, "")
	require.Nil(t, reply.Error)
	var owned struct {
		TokenIDs []string `json:"tokenIds"`
	}
	require.NoError(t, json.Unmarshal(reply.Result, &owned))
	require.Equal(t, []string{minted.TokenID}, owned.TokenIDs)
}

func TestLedgerAdminOverRPC(t *testing.T) {
	e := newEnv(t)

	_, reply := e.call(t, "pass_configure", map[string]interface{}{
		"caller": e.organizer, "tier": 1, "price": "10", "maxSupply": 100,
	}, testToken)
	require.Nil(t, reply.Error)
	_, reply = e.call(t, "pass_purchase", map[string]interface{}{
		"caller": e.holder, "tier": 1, "payment": "10",
	}, testToken)
	require.Nil(t, reply.Error)

	// Non-owner withdrawal is forbidden.
	status, reply := e.call(t, "ledger_withdraw", map[string]interface{}{
		"caller": e.holder, "target": e.holder,
	}, testToken)
	require.Equal(t, http.StatusForbidden, status)
	require.NotNil(t, reply.Error)

	_, reply = e.call(t, "ledger_withdraw", map[string]interface{}{
		"caller": e.owner, "target": e.owner,
	}, testToken)
	require.Nil(t, reply.Error)
	var amount string
	require.NoError(t, json.Unmarshal(reply.Result, &amount))
	require.Equal(t, "10", amount)

	_, reply = e.call(t, "ledger_events", nil, "")
	require.Nil(t, reply.Error)
	var recent []struct {
		Type string `json:"type"`
	}
	require.NoError(t, json.Unmarshal(reply.Result, &recent))
	require.NotEmpty(t, recent)
}
