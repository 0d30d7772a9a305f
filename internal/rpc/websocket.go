package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/LeJamon/goMarketd/internal/core/types"
	"github.com/LeJamon/goMarketd/internal/events"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// StreamOffers carries the events of every committed transaction.
const StreamOffers = "offers"

const (
	wsMaxMessageSize = 512 * 1024
	wsPongWait       = 60 * time.Second
	wsPingPeriod     = 54 * time.Second
	wsWriteWait      = 10 * time.Second
)

// DefaultSendQueueLimit bounds the messages buffered per connection.
const DefaultSendQueueLimit = 256

// Hub serves websocket clients: RPC commands plus the offers stream. It is
// an events.Sink so the publisher can fan committed events out to it.
type Hub struct {
	upgrader  websocket.Upgrader
	server    *Server
	sendQueue int
	log       *zap.Logger

	mu          sync.RWMutex
	connections map[string]*wsConnection
	closed      bool
}

// wsConnection represents a single WebSocket connection
type wsConnection struct {
	id     string
	conn   *websocket.Conn
	role   Role
	ip     string
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
	once   sync.Once

	mu sync.RWMutex
	// subscribed is set once the offers stream is requested; an empty
	// collections set then means every collection.
	subscribed  bool
	collections map[string]struct{}
}

// NewHub creates a hub dispatching commands to server.
func NewHub(server *Server, sendQueue int) *Hub {
	if sendQueue <= 0 {
		sendQueue = DefaultSendQueueLimit
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		server:      server,
		sendQueue:   sendQueue,
		log:         zap.L().Named("ws"),
		connections: make(map[string]*wsConnection),
	}
}

// ServeHTTP handles WebSocket upgrade requests
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &wsConnection{
		id:          uuid.NewString(),
		conn:        conn,
		role:        h.server.roleFor(r),
		ip:          getClientIP(r),
		send:        make(chan []byte, h.sendQueue),
		ctx:         ctx,
		cancel:      cancel,
		collections: make(map[string]struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		cancel()
		_ = conn.Close()
		return
	}
	h.connections[c.id] = c
	h.mu.Unlock()

	h.log.Debug("websocket connected", zap.String("conn", c.id), zap.String("ip", c.ip))

	go h.writePump(c)
	go h.readPump(c)
}

// Connections returns the number of open connections.
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	conns := make([]*wsConnection, 0, len(h.connections))
	for _, c := range h.connections {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		h.closeConnection(c)
	}
}

func (h *Hub) readPump(c *wsConnection) {
	defer h.closeConnection(c)

	c.conn.SetReadLimit(wsMaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug("websocket read failed", zap.String("conn", c.id), zap.Error(err))
			}
			return
		}
		h.handleMessage(c, message)
	}
}

func (h *Hub) writePump(c *wsConnection) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		h.closeConnection(c)
	}()

	for {
		select {
		case <-c.ctx.Done():
			return
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage processes a single message: {"command": ..., "id": ..., params at top level}
func (h *Hub) handleMessage(c *wsConnection, message []byte) {
	var cmdMap map[string]json.RawMessage
	if err := json.Unmarshal(message, &cmdMap); err != nil {
		h.sendError(c, NewRpcError(RpcINVALID_PARAMS, "jsonInvalid", "jsonInvalid", "Invalid JSON: "+err.Error()), nil)
		return
	}

	var id interface{}
	if raw, ok := cmdMap["id"]; ok {
		_ = json.Unmarshal(raw, &id)
	}
	var command string
	if raw, ok := cmdMap["command"]; ok {
		_ = json.Unmarshal(raw, &command)
	}
	if command == "" {
		h.sendError(c, NewRpcError(RpcMISSING_COMMAND, "missingCommand", "missingCommand", "Missing command field"), id)
		return
	}

	delete(cmdMap, "command")
	delete(cmdMap, "id")
	params, _ := json.Marshal(cmdMap)

	var (
		result interface{}
		rpcErr *RpcError
	)
	switch command {
	case "subscribe":
		result, rpcErr = h.subscribe(c, params)
	case "unsubscribe":
		result, rpcErr = h.unsubscribe(c, params)
	default:
		result, rpcErr = h.server.executeMethod(c.ctx, command, params, c.role, c.ip)
	}

	if rpcErr != nil {
		h.sendError(c, rpcErr, id)
		return
	}
	h.sendJSON(c, WebSocketResponse{
		Type:   "response",
		ID:     id,
		Status: "success",
		Result: result,
	})
}

// streamRequest is the body of subscribe and unsubscribe.
type streamRequest struct {
	Streams     []string `json:"streams"`
	Collections []string `json:"collections"`
}

func (r *streamRequest) parse(params json.RawMessage) ([]string, *RpcError) {
	if err := parseParams(params, r); err != nil {
		return nil, err
	}
	for _, s := range r.Streams {
		if s != StreamOffers {
			return nil, NewRpcError(RpcSTREAM_MALFORMED, "malformedStream", "malformedStream", "Unknown stream: "+s)
		}
	}
	collections := make([]string, 0, len(r.Collections))
	for _, s := range r.Collections {
		id, err := types.ParseAccountID(s)
		if err != nil {
			return nil, RpcErrorActMalformed("Malformed collection: " + s)
		}
		collections = append(collections, id.String())
	}
	return collections, nil
}

func (h *Hub) subscribe(c *wsConnection, params json.RawMessage) (interface{}, *RpcError) {
	var req streamRequest
	collections, rpcErr := req.parse(params)
	if rpcErr != nil {
		return nil, rpcErr
	}
	if len(req.Streams) == 0 && len(collections) == 0 {
		return nil, RpcErrorInvalidParams("Nothing to subscribe to")
	}

	c.mu.Lock()
	c.subscribed = true
	for _, col := range collections {
		c.collections[col] = struct{}{}
	}
	c.mu.Unlock()
	return map[string]interface{}{}, nil
}

// unsubscribe with streams drops the subscription; with collections only it
// narrows the filter.
func (h *Hub) unsubscribe(c *wsConnection, params json.RawMessage) (interface{}, *RpcError) {
	var req streamRequest
	collections, rpcErr := req.parse(params)
	if rpcErr != nil {
		return nil, rpcErr
	}

	c.mu.Lock()
	if len(req.Streams) > 0 {
		c.subscribed = false
		c.collections = make(map[string]struct{})
	}
	for _, col := range collections {
		delete(c.collections, col)
	}
	if len(c.collections) == 0 && len(req.Streams) == 0 && len(collections) > 0 {
		c.subscribed = false
	}
	c.mu.Unlock()
	return map[string]interface{}{}, nil
}

// wants returns the events of b this connection subscribed to.
func (c *wsConnection) wants(b events.Batch) []events.Envelope {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.subscribed {
		return nil
	}
	if len(c.collections) == 0 {
		return b.Events
	}
	var out []events.Envelope
	for _, e := range b.Events {
		if _, ok := c.collections[envelopeCollection(e)]; ok {
			out = append(out, e)
		}
	}
	return out
}

// envelopeCollection returns the collection an event belongs to, if any.
// Collection-level events carry the bare collection as their key.
func envelopeCollection(e events.Envelope) string {
	if e.Collection != "" {
		return e.Collection
	}
	if e.Key != "" && !strings.Contains(e.Key, ":") {
		return e.Key
	}
	return ""
}

// Name implements events.Sink.
func (h *Hub) Name() string { return "websocket" }

// Write implements events.Sink: it queues the batch for every subscriber.
// Clients whose queue is full are disconnected.
func (h *Hub) Write(_ context.Context, b events.Batch) error {
	h.mu.RLock()
	conns := make([]*wsConnection, 0, len(h.connections))
	for _, c := range h.connections {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		evs := c.wants(b)
		if len(evs) == 0 {
			continue
		}
		h.sendJSON(c, map[string]interface{}{
			"type":     StreamOffers,
			"sequence": b.Sequence,
			"tx_hash":  b.TxHash,
			"tx_type":  b.TxType,
			"account":  b.Account,
			"time":     b.Time,
			"events":   evs,
		})
	}
	return nil
}

// sendError sends a response with flat error fields
func (h *Hub) sendError(c *wsConnection, rpcErr *RpcError, id interface{}) {
	response := map[string]interface{}{
		"type":          "response",
		"status":        "error",
		"error":         rpcErr.ErrorString,
		"error_code":    rpcErr.Code,
		"error_message": rpcErr.Message,
	}
	if id != nil {
		response["id"] = id
	}
	h.sendJSON(c, response)
}

func (h *Hub) sendJSON(c *wsConnection, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		h.log.Error("failed to marshal websocket message", zap.Error(err))
		return
	}

	select {
	case <-c.ctx.Done():
		return
	default:
	}
	select {
	case c.send <- data:
	default:
		h.log.Warn("websocket send queue full, closing connection", zap.String("conn", c.id))
		h.closeConnection(c)
	}
}

// closeConnection closes a WebSocket connection
func (h *Hub) closeConnection(c *wsConnection) {
	c.once.Do(func() {
		c.cancel()

		h.mu.Lock()
		delete(h.connections, c.id)
		h.mu.Unlock()

		_ = c.conn.Close()
		h.log.Debug("websocket connection closed", zap.String("conn", c.id))
	})
}

var _ events.Sink = (*Hub)(nil)
