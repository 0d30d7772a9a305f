package tx

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// ErrUnknownTransactionType is returned when a transaction type is unknown
var ErrUnknownTransactionType = errors.New("unknown transaction type")

// Factory allocates an empty transaction of one type.
type Factory func() Transaction

var (
	registryMu sync.RWMutex
	registry   = make(map[Type]Factory)
)

// Register makes a transaction type parseable. Sub-packages call it from init.
func Register(t Type, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[t] = f
}

// NewFromType creates a new transaction of the given type
func NewFromType(t Type) (Transaction, error) {
	registryMu.RLock()
	f, ok := registry[t]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransactionType, t)
	}
	return f(), nil
}

// FromJSON creates a Transaction from a JSON object
func FromJSON(data []byte) (Transaction, error) {
	var raw struct {
		TransactionType string `json:"TransactionType"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	txType, ok := TypeFromName(raw.TransactionType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTransactionType, raw.TransactionType)
	}

	t, err := NewFromType(txType)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, t); err != nil {
		return nil, err
	}
	return t, nil
}
