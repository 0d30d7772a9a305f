package rpc

import (
	"time"

	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/storage/history"
)

// ServiceContainer holds the services RPC handlers read and write through.
type ServiceContainer struct {
	Engine *tx.Engine
	// History is nil when the history store is disabled
	History *history.Store
	// Decimals of the native currency, for display amounts
	Decimals int32
	Version  string
	Started  time.Time
}

// Ledger returns committed state.
func (s *ServiceContainer) Ledger() *ledger.Ledger {
	return s.Engine.Ledger()
}
