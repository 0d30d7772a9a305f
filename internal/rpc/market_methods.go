package rpc

import (
	"encoding/json"
	"strconv"

	"github.com/LeJamon/goMarketd/internal/core/assets"
	"github.com/LeJamon/goMarketd/internal/core/collectionoffers"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/LeJamon/goMarketd/internal/storage/history"
)

const (
	defaultBookLimit = 200
	maxBookLimit     = 1000
)

func parseAccountParam(name, s string) (types.AccountID, *RpcError) {
	if s == "" {
		return types.ZeroAccount, RpcErrorInvalidParams("Missing field '" + name + "'")
	}
	id, err := types.ParseAccountID(s)
	if err != nil {
		return types.ZeroAccount, RpcErrorActMalformed("Malformed " + name + ": " + s)
	}
	return id, nil
}

// amountJSON renders base units and the decimal display side by side.
func amountJSON(a types.Amount, decimals int32) map[string]interface{} {
	return map[string]interface{}{
		"value":   a.String(),
		"display": a.Display(decimals),
	}
}

func offerJSON(o entry.Offer, decimals int32) map[string]interface{} {
	return map[string]interface{}{
		"collection":    o.Collection.String(),
		"offer_id":      o.ID,
		"maker":         o.Maker.String(),
		"amount":        amountJSON(o.Amount, decimals),
		"prev_offer_id": o.PrevID,
		"next_offer_id": o.NextID,
	}
}

func bookJSON(b entry.Book, decimals int32) map[string]interface{} {
	return map[string]interface{}{
		"collection":       b.Collection.String(),
		"floor_offer_id":   b.FloorID,
		"ceiling_offer_id": b.CeilingID,
		"floor_amount":     amountJSON(b.FloorAmount, decimals),
		"ceiling_amount":   amountJSON(b.CeilingAmount, decimals),
		"offer_count":      b.OfferCount,
		"active":           b.Active,
		"escrowed":         amountJSON(b.Escrowed, decimals),
	}
}

// offerRequest addresses one offer of a collection.
type offerRequest struct {
	Collection string `json:"collection"`
	OfferID    uint64 `json:"offer_id"`
}

func (r *offerRequest) parse(params json.RawMessage) (types.AccountID, *RpcError) {
	if err := parseParams(params, r); err != nil {
		return types.ZeroAccount, err
	}
	collection, rpcErr := parseAccountParam("collection", r.Collection)
	if rpcErr != nil {
		return types.ZeroAccount, rpcErr
	}
	if r.OfferID == 0 {
		return types.ZeroAccount, RpcErrorInvalidParams("Missing field 'offer_id'")
	}
	return collection, nil
}

// CollectionOfferMethod returns one offer, pending or settled.
type CollectionOfferMethod struct{ guestMethod }

func (m *CollectionOfferMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var req offerRequest
	collection, rpcErr := req.parse(params)
	if rpcErr != nil {
		return nil, rpcErr
	}
	l := ctx.Services.Ledger()

	o, found, err := collectionoffers.Offer(l, collection, req.OfferID)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	if found {
		return map[string]interface{}{
			"offer":        offerJSON(o, ctx.Services.Decimals),
			"offer_status": "pending",
		}, nil
	}

	status, settled, err := collectionoffers.OfferStatus(l, collection, req.OfferID)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	if !settled {
		return nil, RpcErrorObjectNotFound("Offer not found")
	}
	return map[string]interface{}{
		"collection":   collection.String(),
		"offer_id":     req.OfferID,
		"offer_status": status.String(),
	}, nil
}

// CollectionBookMethod walks a book from floor to ceiling.
type CollectionBookMethod struct{ guestMethod }

func (m *CollectionBookMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var req struct {
		Collection string `json:"collection"`
		Limit      int    `json:"limit"`
	}
	if err := parseParams(params, &req); err != nil {
		return nil, err
	}
	collection, rpcErr := parseAccountParam("collection", req.Collection)
	if rpcErr != nil {
		return nil, rpcErr
	}
	limit := req.Limit
	switch {
	case limit < 0:
		return nil, RpcErrorInvalidParams("limit must not be negative")
	case limit == 0:
		limit = defaultBookLimit
	case limit > maxBookLimit:
		limit = maxBookLimit
	}

	l := ctx.Services.Ledger()
	book, err := collectionoffers.Book(l, collection)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}

	decimals := ctx.Services.Decimals
	offers := make([]interface{}, 0)
	truncated := false
	err = collectionoffers.Walk(l, collection, func(o entry.Offer) bool {
		if len(offers) == limit {
			truncated = true
			return false
		}
		offers = append(offers, offerJSON(o, decimals))
		return true
	})
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}

	result := map[string]interface{}{
		"book":   bookJSON(book, decimals),
		"offers": offers,
	}
	if truncated {
		result["truncated"] = true
	}
	return result, nil
}

// CollectionExtremesMethod returns the floor and ceiling of a book.
type CollectionExtremesMethod struct{ guestMethod }

func (m *CollectionExtremesMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var req struct {
		Collection string `json:"collection"`
	}
	if err := parseParams(params, &req); err != nil {
		return nil, err
	}
	collection, rpcErr := parseAccountParam("collection", req.Collection)
	if rpcErr != nil {
		return nil, rpcErr
	}

	l := ctx.Services.Ledger()
	floorID, err := collectionoffers.FloorOfferID(l, collection)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	floorAmount, err := collectionoffers.FloorOfferAmount(l, collection)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	ceilingID, err := collectionoffers.CeilingOfferID(l, collection)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	ceilingAmount, err := collectionoffers.CeilingOfferAmount(l, collection)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}

	decimals := ctx.Services.Decimals
	return map[string]interface{}{
		"collection":       collection.String(),
		"floor_offer_id":   floorID,
		"floor_amount":     amountJSON(floorAmount, decimals),
		"ceiling_offer_id": ceilingID,
		"ceiling_amount":   amountJSON(ceilingAmount, decimals),
	}, nil
}

// FindersFeeMethod returns the global finders fee.
type FindersFeeMethod struct{ guestMethod }

func (m *FindersFeeMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	bps, err := collectionoffers.FindersFeeBps(ctx.Services.Ledger())
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	return map[string]interface{}{"finders_fee_bps": bps}, nil
}

// FindersFeeOverrideMethod returns an offer's override and the fee a fill
// would pay.
type FindersFeeOverrideMethod struct{ guestMethod }

func (m *FindersFeeOverrideMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var req offerRequest
	collection, rpcErr := req.parse(params)
	if rpcErr != nil {
		return nil, rpcErr
	}
	l := ctx.Services.Ledger()

	bps, set, err := collectionoffers.FindersFeeOverride(l, collection, req.OfferID)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	effective, err := collectionoffers.ResolveFindersFee(l, collection, req.OfferID)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	result := map[string]interface{}{
		"collection":    collection.String(),
		"offer_id":      req.OfferID,
		"override_set":  set,
		"effective_bps": effective,
	}
	if set {
		result["finders_fee_bps"] = bps
	}
	return result, nil
}

func recordsJSON(records []history.Record) []interface{} {
	out := make([]interface{}, 0, len(records))
	for _, r := range records {
		out = append(out, map[string]interface{}{
			"sequence":   r.Sequence,
			"index":      r.Index,
			"tx_hash":    r.TxHash,
			"type":       r.Type,
			"collection": r.Collection,
			"offer_id":   r.OfferID,
			"event":      r.Payload,
			"time":       r.Time,
		})
	}
	return out
}

// OfferHistoryMethod lists the events recorded for one offer.
type OfferHistoryMethod struct{ guestMethod }

func (m *OfferHistoryMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	store := ctx.Services.History
	if store == nil {
		return nil, RpcErrorNotEnabled("history")
	}
	var req offerRequest
	collection, rpcErr := req.parse(params)
	if rpcErr != nil {
		return nil, rpcErr
	}

	records, err := store.OfferHistory(ctx.Context, collection.String(), req.OfferID)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	return map[string]interface{}{
		"collection": collection.String(),
		"offer_id":   req.OfferID,
		"events":     recordsJSON(records),
	}, nil
}

// EventsMethod pages through the history store by sequence.
type EventsMethod struct{ guestMethod }

func (m *EventsMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	store := ctx.Services.History
	if store == nil {
		return nil, RpcErrorNotEnabled("history")
	}
	var req struct {
		Since uint64 `json:"since"`
		Limit int    `json:"limit"`
	}
	if err := parseParams(params, &req); err != nil {
		return nil, err
	}
	if req.Limit == 0 {
		req.Limit = defaultBookLimit
	}
	if req.Limit < 0 || req.Limit > history.MaxLimit {
		return nil, RpcErrorInvalidParams("limit must be between 1 and " + strconv.Itoa(history.MaxLimit))
	}

	records, err := store.Events(ctx.Context, req.Since, req.Limit)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	result := map[string]interface{}{"events": recordsJSON(records)}
	if n := len(records); n > 0 {
		result["marker"] = records[n-1].Sequence
	}
	return result, nil
}

// AccountBalanceMethod returns what an account holds of an asset, the
// native currency by default.
type AccountBalanceMethod struct{ guestMethod }

func (m *AccountBalanceMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var req struct {
		Account string `json:"account"`
		Asset   string `json:"asset"`
	}
	if err := parseParams(params, &req); err != nil {
		return nil, err
	}
	account, rpcErr := parseAccountParam("account", req.Account)
	if rpcErr != nil {
		return nil, rpcErr
	}
	asset := assets.Native
	if req.Asset != "" {
		if asset, rpcErr = parseAccountParam("asset", req.Asset); rpcErr != nil {
			return nil, rpcErr
		}
	}

	balance, err := assets.BalanceOf(ctx.Services.Ledger(), asset, account)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	return map[string]interface{}{
		"account": account.String(),
		"asset":   asset.String(),
		"balance": amountJSON(balance, ctx.Services.Decimals),
	}, nil
}

// TokenOwnerMethod returns the owner of an NFT.
type TokenOwnerMethod struct{ guestMethod }

func (m *TokenOwnerMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	var req struct {
		Collection string        `json:"collection"`
		TokenID    types.TokenID `json:"token_id"`
	}
	if err := parseParams(params, &req); err != nil {
		return nil, err
	}
	collection, rpcErr := parseAccountParam("collection", req.Collection)
	if rpcErr != nil {
		return nil, rpcErr
	}

	owner, err := assets.OwnerOf(ctx.Services.Ledger(), collection, req.TokenID)
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	if owner.IsZero() {
		return nil, RpcErrorObjectNotFound("Token not found")
	}
	return map[string]interface{}{
		"collection": collection.String(),
		"token_id":   req.TokenID.String(),
		"owner":      owner.String(),
	}, nil
}
