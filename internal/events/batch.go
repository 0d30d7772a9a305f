// Package events delivers the events of committed transactions to sinks:
// the history store, websocket subscribers and Kafka.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/LeJamon/goMarketd/internal/storage/history"
)

// Envelope is one serialized event.
type Envelope struct {
	Index      int             `json:"index"`
	Type       string          `json:"type"`
	Key        string          `json:"key,omitempty"`
	Collection string          `json:"collection,omitempty"`
	OfferID    uint64          `json:"offerId,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

// Batch holds the events of one committed transaction.
type Batch struct {
	Sequence uint64          `json:"sequence"`
	TxHash   string          `json:"txHash"`
	TxType   string          `json:"txType"`
	Account  types.AccountID `json:"account"`
	Time     time.Time       `json:"time"`
	Events   []Envelope      `json:"events"`
}

type keyed interface {
	EventKey() string
}

type offerScoped interface {
	OfferRef() (types.AccountID, uint64)
}

// NewBatch serializes the events of an applied result.
func NewBatch(r tx.ApplyResult, now time.Time) (Batch, error) {
	b := Batch{
		Sequence: r.Sequence,
		TxHash:   r.TxHashHex(),
		TxType:   r.TxType.String(),
		Account:  r.Account,
		Time:     now.UTC(),
		Events:   make([]Envelope, 0, len(r.Events)),
	}
	for i, ev := range r.Events {
		payload, err := json.Marshal(ev)
		if err != nil {
			return Batch{}, fmt.Errorf("marshal %s: %w", ev.EventType(), err)
		}
		env := Envelope{Index: i, Type: ev.EventType(), Payload: payload}
		if k, ok := ev.(keyed); ok {
			env.Key = k.EventKey()
		}
		if o, ok := ev.(offerScoped); ok {
			c, id := o.OfferRef()
			env.Collection, env.OfferID = c.String(), id
		}
		b.Events = append(b.Events, env)
	}
	return b, nil
}

// Records converts the batch to history rows.
func (b Batch) Records() []history.Record {
	out := make([]history.Record, 0, len(b.Events))
	for _, e := range b.Events {
		out = append(out, history.Record{
			Sequence:   b.Sequence,
			Index:      e.Index,
			TxHash:     b.TxHash,
			Type:       e.Type,
			Collection: e.Collection,
			OfferID:    e.OfferID,
			Payload:    e.Payload,
			Time:       b.Time,
		})
	}
	return out
}
