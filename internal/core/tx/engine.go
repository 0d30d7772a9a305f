package tx

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/ledger/entry"
	"github.com/LeJamon/goMarketd/internal/core/ledger/keylet"
	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/LeJamon/goMarketd/internal/crypto"
	"go.uber.org/zap"
)

// EngineConfig holds configuration for the transaction engine
type EngineConfig struct {
	// Registrar may change global fee settings and run administrative transactions
	Registrar types.AccountID

	// Module is the account that escrows offer funds and receives NFT approvals
	Module types.AccountID
}

// EventSink receives the events of every committed transaction.
type EventSink interface {
	Publish(result ApplyResult)
}

// ApplyResult contains the result of applying a transaction
type ApplyResult struct {
	Result   Result
	Applied  bool
	TxType   Type
	Account  types.AccountID
	TxHash   [32]byte
	Sequence uint64
	Events   []Event
	Message  string
}

// TxHashHex returns the transaction hash as upper-case hex.
func (r ApplyResult) TxHashHex() string {
	return fmt.Sprintf("%X", r.TxHash[:])
}

// Engine applies transactions one at a time. Each transaction runs in its
// own ApplyStateTable which is committed to the base ledger only on
// tesSUCCESS.
type Engine struct {
	mu     sync.Mutex
	base   *ledger.Ledger
	config EngineConfig
	sink   EventSink
	log    *zap.Logger
}

// NewEngine creates an engine over base.
func NewEngine(base *ledger.Ledger, config EngineConfig) *Engine {
	return &Engine{
		base:   base,
		config: config,
		log:    zap.L().Named("engine"),
	}
}

// SetEventSink installs the receiver of committed events.
func (e *Engine) SetEventSink(sink EventSink) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sink = sink
}

// Config returns the engine configuration.
func (e *Engine) Config() EngineConfig {
	return e.config
}

// Ledger returns the committed state.
func (e *Engine) Ledger() *ledger.Ledger {
	return e.base
}

// Sequence returns the number of transactions committed so far.
func (e *Engine) Sequence() (uint64, error) {
	var st entry.NodeState
	if _, err := ledger.ReadEntry(e.base, keylet.NodeState(), &st); err != nil {
		return 0, err
	}
	return st.Sequence, nil
}

// Apply validates and applies t.
func (e *Engine) Apply(t Transaction) ApplyResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	common := t.GetCommon()
	res := ApplyResult{TxType: t.TxType(), Account: common.Account}

	if result := e.preflight(t); !result.IsSuccess() {
		res.Result = result
		res.Message = result.Message()
		return res
	}

	table := NewApplyStateTable(e.base)
	var state entry.NodeState
	if _, err := ledger.ReadEntry(table, keylet.NodeState(), &state); err != nil {
		e.log.Error("read node state", zap.Error(err))
		res.Result = TefINTERNAL
		res.Message = err.Error()
		return res
	}
	seq := state.Sequence + 1

	txHash, err := computeTransactionHash(t, seq)
	if err != nil {
		res.Result = TefINTERNAL
		res.Message = "failed to compute transaction hash: " + err.Error()
		return res
	}
	res.TxHash = txHash

	ctx := NewApplyContext(table, common.Account, common.Value, e.config)
	ctx.TxHash = txHash
	ctx.Sequence = seq

	result := e.doApply(t, ctx)
	if result.IsSuccess() {
		state.Sequence = seq
		if err := ctx.PutEntry(keylet.NodeState(), &state); err != nil {
			result = TefINTERNAL
		}
	}
	if result.IsSuccess() {
		if err := e.base.Commit(table.Changes()); err != nil {
			e.log.Error("commit failed", zap.String("tx", t.TxType().String()), zap.Error(err))
			result = TefINTERNAL
		}
	}

	res.Result = result
	res.Applied = result.IsApplied()
	res.Message = result.Message()
	if !res.Applied {
		table.Discard()
		e.log.Debug("transaction rejected",
			zap.String("tx", t.TxType().String()),
			zap.Stringer("account", common.Account),
			zap.Stringer("result", result))
		return res
	}

	res.Sequence = seq
	res.Events = ctx.Events()
	e.log.Debug("transaction applied",
		zap.String("tx", t.TxType().String()),
		zap.Uint64("seq", seq),
		zap.Int("events", len(res.Events)))

	if e.sink != nil {
		e.sink.Publish(res)
	}
	return res
}

func (e *Engine) preflight(t Transaction) Result {
	if t.GetCommon().TxType() == TypeInvalid {
		return TemUNKNOWN_TYPE
	}
	if err := t.Validate(); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return verr.Code
		}
		return TemMALFORMED
	}
	return TesSUCCESS
}

func (e *Engine) doApply(t Transaction, ctx *ApplyContext) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("panic while applying transaction",
				zap.String("tx", t.TxType().String()),
				zap.Any("panic", r))
			result = TefINTERNAL
		}
	}()
	return t.Apply(ctx)
}

func computeTransactionHash(t Transaction, seq uint64) ([32]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return [32]byte{}, err
	}
	var seqBytes [8]byte
	binary.BigEndian.PutUint64(seqBytes[:], seq)
	return crypto.Sha512Half([]byte("TXN\x00"), seqBytes[:], data), nil
}

// ParseTxHash decodes a hex transaction hash.
func ParseTxHash(s string) ([32]byte, error) {
	var h [32]byte
	b, err := hex.DecodeString(s)
	if err != nil || len(b) != len(h) {
		return h, fmt.Errorf("invalid transaction hash %q", s)
	}
	copy(h[:], b)
	return h, nil
}
