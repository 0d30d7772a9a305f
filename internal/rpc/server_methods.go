package rpc

import (
	"encoding/json"
	"time"
)

// ServerInfoMethod reports the node's state.
type ServerInfoMethod struct{ guestMethod }

func (m *ServerInfoMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	svc := ctx.Services
	seq, err := svc.Engine.Sequence()
	if err != nil {
		return nil, RpcErrorInternal(err.Error())
	}
	cfg := svc.Engine.Config()
	hits, misses := svc.Ledger().CacheStats()

	info := map[string]interface{}{
		"build_version": svc.Version,
		"server_state":  "full",
		"sequence":      seq,
		"registrar":     cfg.Registrar.String(),
		"module":        cfg.Module.String(),
		"decimals":      svc.Decimals,
		"history":       svc.History != nil,
		"cache_hits":    hits,
		"cache_misses":  misses,
		"uptime":        int64(time.Since(svc.Started).Seconds()),
		"time":          time.Now().UTC().Format(time.RFC3339),
	}
	if ctx.Role == RoleAdmin {
		info["admin"] = true
	}
	return map[string]interface{}{"info": info}, nil
}

// PingMethod answers with an empty result.
type PingMethod struct{ guestMethod }

func (m *PingMethod) Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError) {
	return map[string]interface{}{}, nil
}
