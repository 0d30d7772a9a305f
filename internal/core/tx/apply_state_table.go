package tx

import (
	"errors"
	"sort"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
)

var (
	ErrEntryExists   = errors.New("entry already exists")
	ErrEntryNotFound = errors.New("entry not found")
)

// Action represents the type of modification to a state entry
type Action int

const (
	// ActionCache means the entry was read but not modified
	ActionCache Action = iota
	// ActionInsert means a new entry was created
	ActionInsert
	// ActionModify means an existing entry was modified
	ActionModify
	// ActionErase means an entry was deleted
	ActionErase
)

// TrackedEntry represents a state entry being tracked for changes
type TrackedEntry struct {
	Action   Action
	Original []byte // nil for inserts
	Current  []byte
}

// LedgerView provides read/write access to state during one transaction.
type LedgerView interface {
	ledger.Reader
	Insert(k keylet.Keylet, data []byte) error
	Update(k keylet.Keylet, data []byte) error
	Erase(k keylet.Keylet) error
}

// ApplyStateTable buffers every write of one transaction over a read-only
// base. Nothing reaches the base until the engine commits Changes().
type ApplyStateTable struct {
	base  ledger.Reader
	items map[[32]byte]*TrackedEntry
}

// NewApplyStateTable creates a new ApplyStateTable wrapping the given base view
func NewApplyStateTable(base ledger.Reader) *ApplyStateTable {
	return &ApplyStateTable{
		base:  base,
		items: make(map[[32]byte]*TrackedEntry),
	}
}

// Read reads an entry, tracking it as cached
func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if entry, exists := t.items[k.Key]; exists {
		if entry.Action == ActionErase {
			return nil, nil
		}
		return entry.Current, nil
	}

	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}

	if data != nil {
		t.items[k.Key] = &TrackedEntry{
			Action:   ActionCache,
			Original: data,
			Current:  data,
		}
	}
	return data, nil
}

// Exists checks if an entry exists
func (t *ApplyStateTable) Exists(k keylet.Keylet) (bool, error) {
	if entry, exists := t.items[k.Key]; exists {
		return entry.Action != ActionErase, nil
	}
	return t.base.Exists(k)
}

// Insert adds a new entry
func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	if entry, exists := t.items[k.Key]; exists {
		if entry.Action != ActionErase {
			return ErrEntryExists
		}
		// Re-inserting a deleted entry becomes a modify
		entry.Action = ActionModify
		entry.Current = data
		return nil
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return ErrEntryExists
	}

	t.items[k.Key] = &TrackedEntry{Action: ActionInsert, Current: data}
	return nil
}

// Update modifies an existing entry
func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	if entry, exists := t.items[k.Key]; exists {
		if entry.Action == ActionErase {
			return ErrEntryNotFound
		}
		if entry.Action == ActionCache {
			entry.Action = ActionModify
		}
		entry.Current = data
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	if original == nil {
		return ErrEntryNotFound
	}

	t.items[k.Key] = &TrackedEntry{
		Action:   ActionModify,
		Original: original,
		Current:  data,
	}
	return nil
}

// Erase removes an entry
func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	if entry, exists := t.items[k.Key]; exists {
		if entry.Action == ActionErase {
			return ErrEntryNotFound
		}
		if entry.Action == ActionInsert {
			// Inserting then deleting = no change
			delete(t.items, k.Key)
			return nil
		}
		entry.Action = ActionErase
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	if original == nil {
		return ErrEntryNotFound
	}

	t.items[k.Key] = &TrackedEntry{
		Action:   ActionErase,
		Original: original,
		Current:  original,
	}
	return nil
}

// Changes returns the writes to commit, ordered by key.
func (t *ApplyStateTable) Changes() []ledger.Change {
	changes := make([]ledger.Change, 0, len(t.items))
	for key, entry := range t.items {
		switch entry.Action {
		case ActionInsert, ActionModify:
			changes = append(changes, ledger.Change{Key: key, Data: entry.Current})
		case ActionErase:
			changes = append(changes, ledger.Change{Key: key})
		}
	}
	sort.Slice(changes, func(i, j int) bool {
		return string(changes[i].Key[:]) < string(changes[j].Key[:])
	})
	return changes
}

// Discard drops every buffered change.
func (t *ApplyStateTable) Discard() {
	t.items = make(map[[32]byte]*TrackedEntry)
}
