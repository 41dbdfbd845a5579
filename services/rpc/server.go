// Package rpc implements the florind control-plane JSON-RPC service: the
// command registry and dispatcher, parameter canonicalization, and the
// handlers operating on the node's ban list and fee policy.
package rpc

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/florin-chain/florind/errors"
	"github.com/florin-chain/florind/services/p2p"
	"github.com/florin-chain/florind/services/rpc/flnjson"
	"github.com/florin-chain/florind/settings"
	"github.com/florin-chain/florind/ulogger"
	"github.com/florin-chain/florind/util"
)

// rpcAuthTimeoutSeconds is how long a connection may take to authenticate
// before it is dropped.
const rpcAuthTimeoutSeconds = 10

var timeZeroVal time.Time

// FeeSource supplies the weighted fee-rate samples getfeestats aggregates.
type FeeSource interface {
	FeeStats(ctx context.Context, height int32) ([]util.WeightedValue, int64, error)
}

// RPCServer serves JSON-RPC requests over HTTP POST and dispatches them to
// registered command handlers.
type RPCServer struct {
	logger    ulogger.Logger
	settings  *settings.Settings
	banList   *p2p.BanList
	feeSource FeeSource
	nodeState *NodeState
	commands  *CommandTable
	clock     util.Clock

	authsha      [sha256.Size]byte
	limitauthsha [sha256.Size]byte

	httpServer *http.Server
	listener   net.Listener

	numClients int32
	started    int32
	shutdown   int32

	txFee atomic.Int64

	statusLock  sync.RWMutex
	statusLines map[int]string

	startTime              time.Time
	requestProcessShutdown chan struct{}
	shutdownOnce           sync.Once
	wg                     sync.WaitGroup
}

// NewServer wires the RPC server. The node state is owned by the caller's
// startup sequence; the server only reads it.
func NewServer(logger ulogger.Logger, tSettings *settings.Settings, banList *p2p.BanList, feeSource FeeSource, nodeState *NodeState, clock util.Clock) (*RPCServer, error) {
	if tSettings == nil {
		return nil, errors.NewConfigurationError("settings are required")
	}

	if nodeState == nil {
		nodeState = NewNodeState()
	}

	if clock == nil {
		clock = util.SystemClock{}
	}

	s := &RPCServer{
		logger:                 logger,
		settings:               tSettings,
		banList:                banList,
		feeSource:              feeSource,
		nodeState:              nodeState,
		commands:               NewCommandTable(),
		clock:                  clock,
		statusLines:            make(map[int]string),
		requestProcessShutdown: make(chan struct{}),
	}
	s.startTime = clock.Now()

	if tSettings.RPC.RPCUser != "" && tSettings.RPC.RPCPass != "" {
		login := tSettings.RPC.RPCUser + ":" + tSettings.RPC.RPCPass
		auth := "Basic " + base64.StdEncoding.EncodeToString([]byte(login))
		s.authsha = sha256.Sum256([]byte(auth))
	}

	if tSettings.RPC.RPCLimitUser != "" && tSettings.RPC.RPCLimitPass != "" {
		login := tSettings.RPC.RPCLimitUser + ":" + tSettings.RPC.RPCLimitPass
		auth := "Basic " + base64.StdEncoding.EncodeToString([]byte(login))
		s.limitauthsha = sha256.Sum256([]byte(auth))
	}

	if tSettings.Policy != nil {
		s.txFee.Store(tSettings.Policy.MinMiningTxFee)
	}

	registerHandlers(s.commands)
	initPrometheusMetrics()

	return s, nil
}

// TxFee returns the currently configured transaction fee rate per kB in
// smallest units.
func (s *RPCServer) TxFee() int64 {
	return s.txFee.Load()
}

// RequestedProcessShutdown returns a channel closed when the stop command
// has been executed.
func (s *RPCServer) RequestedProcessShutdown() <-chan struct{} {
	return s.requestProcessShutdown
}

// Start begins listening and serving. It returns once the listener is bound;
// serving continues in the background until Stop.
func (s *RPCServer) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.started, 0, 1) {
		return errors.NewServiceError("RPC server already started")
	}

	listener, err := net.Listen("tcp", s.settings.RPC.RPCListenerURL)
	if err != nil {
		return errors.NewServiceError("failed to listen on %s", s.settings.RPC.RPCListenerURL, err)
	}

	s.listener = listener
	s.startTime = s.clock.Now()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Connection", "close")
		w.Header().Set("Content-Type", "application/json")
		r.Close = true

		if s.limitConnections(w, r.RemoteAddr) {
			return
		}

		s.incrementClients()
		defer s.decrementClients()

		ok, isAdmin, err := s.checkAuth(r, true)
		if err != nil || !ok {
			jsonAuthFail(w)
			return
		}

		s.jsonRPCRead(r.Context(), w, r, isAdmin)
	})

	s.httpServer = &http.Server{
		Handler:     mux,
		ReadTimeout: time.Second * rpcAuthTimeoutSeconds,
	}

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		s.logger.Infof("RPC server listening on %s", listener.Addr())

		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Errorf("RPC server exited: %v", err)
		}
	}()

	if s.settings.RPC.SkipWarmupOnStart {
		s.nodeState.MarkWarmupFinished()
	}

	return nil
}

// Stop shuts the server down and waits for the serving goroutine to finish.
func (s *RPCServer) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.shutdown, 0, 1) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Errorf("error shutting down RPC server: %v", err)
		}
	}

	s.wg.Wait()
	s.logger.Infof("RPC server stopped")

	return nil
}

// Addr returns the bound listener address, for tests that listen on port 0.
func (s *RPCServer) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}

	return s.listener.Addr()
}

// limitConnections responds with a 503 and returns true when adding another
// client would exceed the configured maximum.
func (s *RPCServer) limitConnections(w http.ResponseWriter, remoteAddr string) bool {
	if int(atomic.LoadInt32(&s.numClients)+1) > s.settings.RPC.RPCMaxClients {
		s.logger.Infof("max RPC clients exceeded [%d] - disconnecting client %s", s.settings.RPC.RPCMaxClients, remoteAddr)
		http.Error(w, "503 Too busy.  Try again later.", http.StatusServiceUnavailable)

		return true
	}

	return false
}

func (s *RPCServer) incrementClients() {
	atomic.AddInt32(&s.numClients, 1)
}

func (s *RPCServer) decrementClients() {
	atomic.AddInt32(&s.numClients, -1)
}

// checkAuth verifies the HTTP Basic authentication on r against the admin
// and limited credentials. The comparison is constant-time. The first return
// signals auth success, the second whether the user has admin rights.
func (s *RPCServer) checkAuth(r *http.Request, require bool) (bool, bool, error) {
	authhdr := r.Header["Authorization"]
	if len(authhdr) == 0 {
		if require {
			s.logger.Warnf("RPC authentication failure from %s", r.RemoteAddr)
			return false, false, errors.NewServiceError("auth failure")
		}

		return false, false, nil
	}

	authsha := sha256.Sum256([]byte(authhdr[0]))

	// Check the limited user first; limited setups tend to carry the higher
	// call volume.
	limitcmp := subtle.ConstantTimeCompare(authsha[:], s.limitauthsha[:])
	if limitcmp == 1 {
		return true, false, nil
	}

	cmp := subtle.ConstantTimeCompare(authsha[:], s.authsha[:])
	if cmp == 1 {
		return true, true, nil
	}

	s.logger.Warnf("RPC authentication failure from %s", r.RemoteAddr)

	return false, false, errors.NewServiceError("auth failure")
}

func jsonAuthFail(w http.ResponseWriter) {
	w.Header().Add("WWW-Authenticate", `Basic realm="florind RPC"`)
	http.Error(w, "401 Unauthorized.", http.StatusUnauthorized)
}

// createMarshalledReply builds the wire response, converting any error that
// is not already a *flnjson.RPCError.
func createMarshalledReply(id interface{}, result interface{}, replyErr *flnjson.RPCError) ([]byte, error) {
	return flnjson.MarshalResponse(id, result, replyErr)
}

// processRequest dispatches one parsed request and returns the marshalled
// response, or nil for notifications.
func (s *RPCServer) processRequest(ctx context.Context, req *flnjson.Request, isAdmin bool) []byte {
	if req.Method == "" {
		reply, err := createMarshalledReply(req.ID, nil, flnjson.NewRPCError(flnjson.ErrRPCInvalidRequest, "Invalid request: malformed"))
		if err != nil {
			s.logger.Errorf("failed to marshal reply: %v", err)
			return nil
		}

		return reply
	}

	// Requests with no ID are notifications and get no response.
	if req.ID == nil {
		return nil
	}

	if !isAdmin && !limitedMethods[req.Method] {
		reply, err := createMarshalledReply(req.ID, nil, flnjson.NewRPCError(flnjson.ErrRPCInvalidParameter, "limited user not authorized for this method"))
		if err != nil {
			s.logger.Errorf("failed to marshal reply: %v", err)
			return nil
		}

		return reply
	}

	result, rpcErr := s.Execute(ctx, req)

	reply, err := createMarshalledReply(req.ID, result, rpcErr)
	if err != nil {
		s.logger.Errorf("failed to marshal reply: %v", err)
		return nil
	}

	return reply
}

// jsonRPCRead reads one JSON-RPC request from the POST body, dispatches it
// and writes the response. The connection is hijacked so the auth read
// deadline stops applying once the request is in hand.
func (s *RPCServer) jsonRPCRead(ctx context.Context, w http.ResponseWriter, r *http.Request, isAdmin bool) {
	if atomic.LoadInt32(&s.shutdown) != 0 {
		return
	}

	body, err := io.ReadAll(r.Body)
	r.Body.Close()

	if err != nil {
		errCode := http.StatusBadRequest
		http.Error(w, fmt.Sprintf("%d error reading JSON message: %v", errCode, err), errCode)

		return
	}

	hj, ok := w.(http.Hijacker)
	if !ok {
		errCode := http.StatusInternalServerError
		http.Error(w, fmt.Sprintf("%d webserver doesn't support hijacking", errCode), errCode)

		return
	}

	conn, buf, err := hj.Hijack()
	if err != nil {
		s.logger.Warnf("failed to hijack HTTP connection: %v", err)

		errCode := http.StatusInternalServerError
		http.Error(w, fmt.Sprintf("%d %v", errCode, err), errCode)

		return
	}

	defer conn.Close()
	defer buf.Flush()

	_ = conn.SetReadDeadline(timeZeroVal)

	var reply []byte

	var req flnjson.Request
	if err := json.Unmarshal(body, &req); err != nil {
		rpcErr := flnjson.NewRPCError(flnjson.ErrRPCParse, fmt.Sprintf("Failed to parse request: %v", err))

		reply, err = createMarshalledReply(nil, nil, rpcErr)
		if err != nil {
			s.logger.Errorf("failed to create parse error reply: %v", err)
			return
		}
	} else {
		reply = s.processRequest(ctx, &req, isAdmin)
	}

	if err := s.writeHTTPResponseHeaders(r, w.Header(), http.StatusOK, len(reply)+1, buf); err != nil {
		s.logger.Errorf("failed to write response headers: %v", err)
		return
	}

	if len(reply) > 0 {
		if _, err := buf.Write(reply); err != nil {
			s.logger.Errorf("failed to write reply: %v", err)
			return
		}
	}

	if _, err := buf.Write([]byte{'\n'}); err != nil {
		s.logger.Errorf("failed to append terminating newline: %v", err)
	}
}

// writeHTTPResponseHeaders writes the status line and headers directly to
// the hijacked connection.
func (s *RPCServer) writeHTTPResponseHeaders(req *http.Request, headers http.Header, code, contentLength int, w io.Writer) error {
	if _, err := io.WriteString(w, s.httpStatusLine(req, code)); err != nil {
		return err
	}

	headers.Set("Content-Length", strconv.Itoa(contentLength))

	if err := headers.Write(w); err != nil {
		return err
	}

	_, err := io.WriteString(w, "\r\n")

	return err
}

// httpStatusLine returns a response status line for the given code, keeping
// a cache per protocol version the way the standard library does internally.
func (s *RPCServer) httpStatusLine(req *http.Request, code int) string {
	key := code
	proto11 := req.ProtoAtLeast(1, 1)

	if !proto11 {
		key = -key
	}

	s.statusLock.RLock()
	line, ok := s.statusLines[key]
	s.statusLock.RUnlock()

	if ok {
		return line
	}

	proto := "HTTP/1.0"
	if proto11 {
		proto = "HTTP/1.1"
	}

	codeStr := strconv.Itoa(code)
	text := http.StatusText(code)

	if text == "" {
		return proto + " " + codeStr + "\r\n"
	}

	line = proto + " " + codeStr + " " + text + "\r\n"

	s.statusLock.Lock()
	s.statusLines[key] = line
	s.statusLock.Unlock()

	return line
}
