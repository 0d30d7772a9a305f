package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/assets"
	"github.com/LeJamon/goMarketd/internal/core/collectionoffers"
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/LeJamon/goMarketd/internal/crypto"
	"github.com/LeJamon/goMarketd/internal/events"
	"github.com/LeJamon/goMarketd/internal/storage/database/memory"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	registrar  = types.MustParseAccountID("0x00000000000000000000000000000000000000f0")
	module     = types.MustParseAccountID("0x00000000000000000000000000000000000000f1")
	collection = types.MustParseAccountID("0x00000000000000000000000000000000000000c1")
	other      = types.MustParseAccountID("0x00000000000000000000000000000000000000c9")
)

type testNode struct {
	t      *testing.T
	engine *tx.Engine
	http   *httptest.Server
	hub    *Hub
	alice  *crypto.KeyPair
}

func (n *testNode) aliceID() types.AccountID {
	return types.AccountID(n.alice.AccountID())
}

// newTestNode serves a fresh ledger in which alice holds 1000 base units.
// Committed events reach the websocket hub through a publisher.
func newTestNode(t *testing.T, admin bool) *testNode {
	t.Helper()
	l, err := ledger.New(memory.NewDB(), 0)
	require.NoError(t, err)
	engine := tx.NewEngine(l, tx.EngineConfig{Registrar: registrar, Module: module})

	n := &testNode{t: t, engine: engine, alice: crypto.KeyPairFromSeed([]byte("alice"))}
	res := engine.Apply(assets.NewDeposit(registrar, n.aliceID(), types.NewAmount(1000)))
	require.Equal(t, tx.TesSUCCESS, res.Result)

	svc := &ServiceContainer{Engine: engine, Decimals: 2, Version: "test", Started: time.Now()}
	srv := NewServer(svc, time.Second, func(string) bool { return admin })
	n.hub = NewHub(srv, 16)

	pub := events.NewPublisher(16, n.hub)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = pub.Run(ctx)
	}()
	engine.SetEventSink(pub)

	n.http = httptest.NewServer(srv.Handler(n.hub))
	t.Cleanup(func() {
		n.hub.Close()
		n.http.Close()
		cancel()
		<-done
	})
	return n
}

func (n *testNode) call(method string, params interface{}) map[string]interface{} {
	n.t.Helper()
	req := map[string]interface{}{"method": method}
	if params != nil {
		req["params"] = []interface{}{params}
	}
	body, err := json.Marshal(req)
	require.NoError(n.t, err)

	resp, err := http.Post(n.http.URL, "application/json", bytes.NewReader(body))
	require.NoError(n.t, err)
	defer resp.Body.Close()
	require.Equal(n.t, http.StatusOK, resp.StatusCode)

	var out struct {
		Result map[string]interface{} `json:"result"`
	}
	require.NoError(n.t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Result
}

func (n *testNode) signed(t tx.Transaction) tx.SignedTx {
	n.t.Helper()
	body, err := json.Marshal(t)
	require.NoError(n.t, err)
	s, err := tx.Sign(body, n.alice)
	require.NoError(n.t, err)
	return s
}

func (n *testNode) submitCreate(amount uint64) map[string]interface{} {
	n.t.Helper()
	create := collectionoffers.NewCollectionOfferCreate(n.aliceID(), collection, types.NewAmount(amount))
	return n.call("submit", n.signed(create))
}

func TestPingAndUnknownMethod(t *testing.T) {
	n := newTestNode(t, false)

	assert.Equal(t, "success", n.call("ping", nil)["status"])

	res := n.call("no_such_method", map[string]interface{}{})
	assert.Equal(t, "error", res["status"])
	assert.Equal(t, "unknownCmd", res["error"])
	assert.Equal(t, "no_such_method", res["request"].(map[string]interface{})["command"])
}

func TestGetDefaultsToServerInfo(t *testing.T) {
	n := newTestNode(t, false)

	resp, err := http.Get(n.http.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out struct {
		Result struct {
			Status string `json:"status"`
			Info   struct {
				Sequence float64 `json:"sequence"`
				Module   string  `json:"module"`
			} `json:"info"`
		} `json:"result"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "success", out.Result.Status)
	assert.Equal(t, float64(1), out.Result.Info.Sequence)
	assert.Equal(t, module.String(), out.Result.Info.Module)
}

func TestSubmitCreateThenQueryBook(t *testing.T) {
	n := newTestNode(t, false)

	res := n.submitCreate(150)
	require.Equal(t, "tesSUCCESS", res["engine_result"], res)
	assert.Equal(t, true, res["applied"])
	assert.Equal(t, []interface{}{"OfferCreated"}, res["events"])
	n.submitCreate(50)

	book := n.call("collection_book", map[string]interface{}{"collection": collection.String()})
	require.Equal(t, "success", book["status"])
	offers := book["offers"].([]interface{})
	require.Len(t, offers, 2)
	floor := offers[0].(map[string]interface{})
	assert.Equal(t, float64(2), floor["offer_id"])
	assert.Equal(t, map[string]interface{}{"value": "50", "display": "0.5"}, floor["amount"])
	assert.Equal(t, float64(1), floor["next_offer_id"])

	limited := n.call("collection_book", map[string]interface{}{"collection": collection.String(), "limit": 1})
	assert.Len(t, limited["offers"], 1)
	assert.Equal(t, true, limited["truncated"])

	ext := n.call("collection_extremes", map[string]interface{}{"collection": collection.String()})
	assert.Equal(t, float64(2), ext["floor_offer_id"])
	assert.Equal(t, float64(1), ext["ceiling_offer_id"])
	assert.Equal(t, "150", ext["ceiling_amount"].(map[string]interface{})["value"])

	offer := n.call("collection_offer", map[string]interface{}{"collection": collection.String(), "offer_id": 1})
	assert.Equal(t, "pending", offer["offer_status"])

	bal := n.call("account_balance", map[string]interface{}{"account": n.aliceID().String()})
	assert.Equal(t, "8", bal["balance"].(map[string]interface{})["display"])
}

func TestCanceledOfferReportsStatus(t *testing.T) {
	n := newTestNode(t, false)
	n.submitCreate(10)

	cancel := collectionoffers.NewCollectionOfferCancel(n.aliceID(), collection, 1)
	res := n.call("submit", n.signed(cancel))
	require.Equal(t, "tesSUCCESS", res["engine_result"], res)

	offer := n.call("collection_offer", map[string]interface{}{"collection": collection.String(), "offer_id": 1})
	assert.Equal(t, "canceled", offer["offer_status"])

	missing := n.call("collection_offer", map[string]interface{}{"collection": collection.String(), "offer_id": 7})
	assert.Equal(t, "objectNotFound", missing["error"])
}

func TestSubmitRejections(t *testing.T) {
	n := newTestNode(t, false)

	create := collectionoffers.NewCollectionOfferCreate(n.aliceID(), collection, types.NewAmount(10))
	s := n.signed(create)
	s.TxJSON = json.RawMessage(strings.Replace(string(s.TxJSON), `"10"`, `"11"`, 1))
	res := n.call("submit", s)
	assert.Equal(t, "tefBAD_SIGNATURE", res["engine_result"])
	assert.Equal(t, false, res["applied"])

	unfunded := n.submitCreate(5000)
	assert.Equal(t, "tecUNFUNDED", unfunded["engine_result"])
	assert.Equal(t, "economic", unfunded["category"])

	missing := n.call("submit", map[string]interface{}{})
	assert.Equal(t, "invalidParams", missing["error"])

	bad := n.call("collection_book", map[string]interface{}{"collection": "nope"})
	assert.Equal(t, "actMalformed", bad["error"])
}

func TestSignIsAdminOnly(t *testing.T) {
	txJSON := map[string]interface{}{
		"TransactionType": "CollectionOfferCreate",
		"Collection":      collection.String(),
		"Amount":          "25",
		"Value":           "25",
	}

	guest := newTestNode(t, false)
	res := guest.call("sign", map[string]interface{}{"tx_json": txJSON, "secret": guest.alice.SecretHex()})
	assert.Equal(t, "commandUntrusted", res["error"])

	admin := newTestNode(t, true)
	res = admin.call("sign", map[string]interface{}{"tx_json": txJSON, "secret": admin.alice.SecretHex()})
	require.Equal(t, "success", res["status"], res)
	delete(res, "status")

	submitted := admin.call("submit", res)
	assert.Equal(t, "tesSUCCESS", submitted["engine_result"], submitted)

	wrong := crypto.KeyPairFromSeed([]byte("mallory"))
	txJSON["Account"] = admin.aliceID().String()
	res = admin.call("sign", map[string]interface{}{"tx_json": txJSON, "secret": wrong.SecretHex()})
	assert.Equal(t, "badSecret", res["error"])
}

func TestWalletProposeFromPassphrase(t *testing.T) {
	n := newTestNode(t, false)

	res := n.call("wallet_propose", map[string]interface{}{"passphrase": "alice"})
	assert.Equal(t, n.aliceID().String(), res["account_id"])
	assert.Equal(t, n.alice.SecretHex(), res["secret_hex"])
}

func TestFindersFeeMethods(t *testing.T) {
	n := newTestNode(t, false)
	n.submitCreate(10)

	fee := n.call("finders_fee", nil)
	assert.Equal(t, float64(collectionoffers.DefaultFindersFeeBps), fee["finders_fee_bps"])

	set := collectionoffers.NewCollectionOfferSetFindersFee(n.aliceID(), collection, 1, 0)
	require.Equal(t, "tesSUCCESS", n.call("submit", n.signed(set))["engine_result"])

	override := n.call("finders_fee_override", map[string]interface{}{"collection": collection.String(), "offer_id": 1})
	assert.Equal(t, true, override["override_set"])
	assert.Equal(t, float64(0), override["finders_fee_bps"])
	assert.Equal(t, float64(0), override["effective_bps"])
}

func TestHistoryMethodsNeedStore(t *testing.T) {
	n := newTestNode(t, false)

	res := n.call("offer_history", map[string]interface{}{"collection": collection.String(), "offer_id": 1})
	assert.Equal(t, "notEnabled", res["error"])
	assert.Equal(t, "notEnabled", n.call("events", nil)["error"])
}

func dial(t *testing.T, n *testNode) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(n.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg map[string]interface{}
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocketCommands(t *testing.T) {
	n := newTestNode(t, false)
	conn := dial(t, n)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"command": "finders_fee", "id": "q1"}))
	msg := readJSON(t, conn)
	assert.Equal(t, "response", msg["type"])
	assert.Equal(t, "q1", msg["id"])
	assert.Equal(t, "success", msg["status"])

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"id": 2}))
	msg = readJSON(t, conn)
	assert.Equal(t, "missingCommand", msg["error"])

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"command": "subscribe", "id": 3, "streams": []string{"ledger"}}))
	msg = readJSON(t, conn)
	assert.Equal(t, "malformedStream", msg["error"])
}

func TestWebSocketStreamsFilteredOffers(t *testing.T) {
	n := newTestNode(t, false)
	conn := dial(t, n)

	require.NoError(t, conn.WriteJSON(map[string]interface{}{
		"command":     "subscribe",
		"id":          1,
		"streams":     []string{StreamOffers},
		"collections": []string{collection.String()},
	}))
	assert.Equal(t, "success", readJSON(t, conn)["status"])

	// An offer on another collection is filtered out.
	otherCreate := collectionoffers.NewCollectionOfferCreate(n.aliceID(), other, types.NewAmount(5))
	require.Equal(t, "tesSUCCESS", n.call("submit", n.signed(otherCreate))["engine_result"])
	require.Equal(t, "tesSUCCESS", n.submitCreate(20)["engine_result"])

	msg := readJSON(t, conn)
	assert.Equal(t, StreamOffers, msg["type"])
	assert.Equal(t, float64(3), msg["sequence"])
	evs := msg["events"].([]interface{})
	require.Len(t, evs, 1)
	ev := evs[0].(map[string]interface{})
	assert.Equal(t, "OfferCreated", ev["type"])
	assert.Equal(t, collection.String(), ev["collection"])

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"command": "unsubscribe", "id": 2, "streams": []string{StreamOffers}}))
	assert.Equal(t, "success", readJSON(t, conn)["status"])
	assert.Eventually(t, func() bool { return n.hub.Connections() == 1 }, time.Second, 10*time.Millisecond)
}
