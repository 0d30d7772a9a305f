package testing

import (
	"github.com/LeJamon/goMarketd/internal/core/tx"
)

// TxResult represents the result of applying a transaction.
type TxResult struct {
	// Code is the engine result.
	Code tx.Result

	// Success indicates whether the transaction was committed.
	Success bool

	// Message provides additional details about the result.
	Message string

	// Sequence is the commit sequence, zero when rejected.
	Sequence uint64

	// Events holds the events of a committed transaction.
	Events []tx.Event
}

func newTxResult(r tx.ApplyResult) TxResult {
	return TxResult{
		Code:     r.Result,
		Success:  r.Applied,
		Message:  r.Message,
		Sequence: r.Sequence,
		Events:   r.Events,
	}
}

// EventTypes returns the type names of the result's events in order.
func (r TxResult) EventTypes() []string {
	names := make([]string, 0, len(r.Events))
	for _, e := range r.Events {
		names = append(names, e.EventType())
	}
	return names
}

// Event returns the first event with the given type name.
func (r TxResult) Event(name string) (tx.Event, bool) {
	for _, e := range r.Events {
		if e.EventType() == name {
			return e, true
		}
	}
	return nil, false
}
