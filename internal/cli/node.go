package cli

import (
	"fmt"

	"github.com/LeJamon/goMarketd/internal/config"
	"github.com/LeJamon/goMarketd/internal/core/ledger"
	"github.com/LeJamon/goMarketd/internal/core/tx"
	"github.com/LeJamon/goMarketd/internal/storage/database"
	"github.com/LeJamon/goMarketd/internal/storage/database/backends"
)

// stateDBName is the database holding committed ledger entries.
const stateDBName = "state"

// node is the opened state of a marketd data directory.
type node struct {
	manager database.Manager
	ledger  *ledger.Ledger
	engine  *tx.Engine
}

func openNode(cfg *config.Config) (*node, error) {
	registrar, err := cfg.Market.RegistrarID()
	if err != nil {
		return nil, err
	}
	module, err := cfg.Market.ModuleID()
	if err != nil {
		return nil, err
	}

	manager, err := backends.NewManager(cfg.NodeDB.Type, cfg.NodeDB.Path)
	if err != nil {
		return nil, err
	}
	db, err := manager.OpenDB(stateDBName)
	if err != nil {
		manager.Close()
		return nil, fmt.Errorf("open state database: %w", err)
	}
	l, err := ledger.New(db, cfg.NodeDB.CacheSize)
	if err != nil {
		manager.Close()
		return nil, err
	}
	return &node{
		manager: manager,
		ledger:  l,
		engine:  tx.NewEngine(l, tx.EngineConfig{Registrar: registrar, Module: module}),
	}, nil
}

func (n *node) Close() error {
	return n.manager.Close()
}
