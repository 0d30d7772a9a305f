package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds the execution of a single method call.
const DefaultTimeout = 30 * time.Second

// maxBodySize caps a JSON-RPC request body.
const maxBodySize = 1 << 20

// Server handles HTTP JSON-RPC requests in the {"method", "params": [{}]} format
type Server struct {
	registry *MethodRegistry
	services *ServiceContainer
	timeout  time.Duration
	isAdmin  func(ip string) bool
	log      *zap.Logger
}

// NewServer creates a new RPC server. isAdmin decides which client IPs may
// call admin methods; nil grants admin to nobody.
func NewServer(services *ServiceContainer, timeout time.Duration, isAdmin func(ip string) bool) *Server {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if isAdmin == nil {
		isAdmin = func(string) bool { return false }
	}
	server := &Server{
		registry: NewMethodRegistry(),
		services: services,
		timeout:  timeout,
		isAdmin:  isAdmin,
		log:      zap.L().Named("rpc"),
	}

	// Register all RPC methods
	server.registerAllMethods()

	return server
}

// Methods lists the registered method names.
func (s *Server) Methods() []string {
	return s.registry.List()
}

// ServeHTTP implements http.Handler interface
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	// Handle preflight requests
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.handleGetRequest(w, r)
	case http.MethodPost:
		s.handlePostRequest(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleGetRequest processes GET requests with query parameters
func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Query().Get("command")
	if method == "" {
		// Default to server_info for GET requests without command
		method = "server_info"
	}

	result, rpcErr := s.executeMethod(r.Context(), method, nil, s.roleFor(r), getClientIP(r))
	s.writeResponse(w, map[string]interface{}{"command": method}, result, rpcErr)
}

// handlePostRequest processes POST requests with a JSON-RPC payload
func (s *Server) handlePostRequest(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		s.writeError(w, "internal", "Failed to read request body")
		return
	}

	var request RpcRequest
	if err := json.Unmarshal(body, &request); err != nil {
		s.writeError(w, "jsonInvalid", "Invalid JSON: "+err.Error())
		return
	}
	if request.Method == "" {
		s.writeError(w, "missingCommand", "Missing method field")
		return
	}

	// params is an array with one object
	var params json.RawMessage
	if len(request.Params) > 0 {
		params = request.Params[0]
	}

	result, rpcErr := s.executeMethod(r.Context(), request.Method, params, s.roleFor(r), getClientIP(r))

	// Echo the request on errors
	requestObj := map[string]interface{}{}
	if params != nil {
		_ = json.Unmarshal(params, &requestObj)
	}
	requestObj["command"] = request.Method

	s.writeResponse(w, requestObj, result, rpcErr)
}

// executeMethod runs method under the server timeout.
func (s *Server) executeMethod(parent context.Context, method string, params json.RawMessage, role Role, clientIP string) (result interface{}, rpcErr *RpcError) {
	handler, exists := s.registry.Get(method)
	if !exists {
		return nil, RpcErrorMethodNotFound(method)
	}
	if role < handler.RequiredRole() {
		return nil, RpcErrorUntrusted(method)
	}

	ctx, cancel := context.WithTimeout(parent, s.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			s.log.Error("panic in rpc handler", zap.String("method", method), zap.Any("panic", r))
			result, rpcErr = nil, RpcErrorInternal("internal error")
		}
	}()

	result, rpcErr = handler.Handle(&RpcContext{
		Context:  ctx,
		Role:     role,
		ClientIP: clientIP,
		Services: s.services,
	}, params)
	if rpcErr == nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, RpcErrorInternal("request timed out")
	}
	return result, rpcErr
}

// writeResponse writes {"result": {..., "status": "success"|"error"}}.
func (s *Server) writeResponse(w http.ResponseWriter, request interface{}, result interface{}, rpcErr *RpcError) {
	response := map[string]interface{}{
		"result": buildResult(request, result, rpcErr),
	}
	s.writeJSON(w, response)
}

// writeError writes an error response for requests that never reached a method
func (s *Server) writeError(w http.ResponseWriter, errorCode string, message string) {
	s.writeJSON(w, map[string]interface{}{
		"result": map[string]interface{}{
			"status":        "error",
			"error":         errorCode,
			"error_message": message,
		},
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		s.log.Error("failed to marshal response", zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// buildResult shapes a method outcome into the result object shared by
// HTTP and websocket responses.
func buildResult(request interface{}, result interface{}, rpcErr *RpcError) map[string]interface{} {
	if rpcErr != nil {
		resultObj := map[string]interface{}{
			"status":        "error",
			"error":         rpcErr.ErrorString,
			"error_code":    rpcErr.Code,
			"error_message": rpcErr.Message,
		}
		if request != nil {
			resultObj["request"] = request
		}
		return resultObj
	}
	if resultMap, ok := result.(map[string]interface{}); ok {
		resultMap["status"] = "success"
		return resultMap
	}
	return map[string]interface{}{
		"status": "success",
		"data":   result,
	}
}

// roleFor grants admin by the connection's address, never by forwarded headers.
func (s *Server) roleFor(r *http.Request) Role {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if s.isAdmin(host) {
		return RoleAdmin
	}
	return RoleGuest
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Handler returns the mux serving JSON-RPC on "/" and websockets on "/ws".
func (s *Server) Handler(hub *Hub) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", s)
	if hub != nil {
		mux.Handle("/ws", hub)
	}
	return mux
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, hub *Hub) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(hub),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("rpc listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if hub != nil {
			hub.Close()
		}
		return srv.Shutdown(shutdownCtx)
	}
}
