package rpc

import (
	"context"
	"encoding/json"
	"sort"
)

// Role-based access control
type Role int

const (
	RoleGuest Role = iota
	RoleAdmin
)

// RpcContext contains request-specific information
type RpcContext struct {
	Context  context.Context
	Role     Role
	ClientIP string
	Services *ServiceContainer
}

// MethodHandler is implemented by every RPC method
type MethodHandler interface {
	Handle(ctx *RpcContext, params json.RawMessage) (interface{}, *RpcError)
	RequiredRole() Role
}

// MethodRegistry maps method names to handlers
type MethodRegistry struct {
	methods map[string]MethodHandler
}

func NewMethodRegistry() *MethodRegistry {
	return &MethodRegistry{
		methods: make(map[string]MethodHandler),
	}
}

func (r *MethodRegistry) Register(name string, handler MethodHandler) {
	r.methods[name] = handler
}

func (r *MethodRegistry) Get(name string) (MethodHandler, bool) {
	handler, exists := r.methods[name]
	return handler, exists
}

// List returns the registered method names, sorted.
func (r *MethodRegistry) List() []string {
	methods := make([]string, 0, len(r.methods))
	for name := range r.methods {
		methods = append(methods, name)
	}
	sort.Strings(methods)
	return methods
}

// RpcRequest is a JSON-RPC request
// Format: {"method": "method_name", "params": [{...}]}
type RpcRequest struct {
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params,omitempty"`
}

// WebSocketResponse answers a command sent over a websocket
type WebSocketResponse struct {
	Type   string      `json:"type"`
	ID     interface{} `json:"id,omitempty"`
	Status string      `json:"status,omitempty"`
	Result interface{} `json:"result,omitempty"`
}

// guestMethod and adminMethod give handlers their RequiredRole.
type guestMethod struct{}

func (guestMethod) RequiredRole() Role { return RoleGuest }

type adminMethod struct{}

func (adminMethod) RequiredRole() Role { return RoleAdmin }

// parseParams decodes params into out. Missing params decode as {}.
func parseParams(params json.RawMessage, out interface{}) *RpcError {
	if len(params) == 0 {
		params = json.RawMessage("{}")
	}
	if err := json.Unmarshal(params, out); err != nil {
		return RpcErrorInvalidParams("Invalid parameters: " + err.Error())
	}
	return nil
}
