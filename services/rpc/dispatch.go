package rpc

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/florin-chain/florind/errors"
	"github.com/florin-chain/florind/services/rpc/flnjson"
)

// NodeState tracks the node lifecycle phase the dispatcher gates on. The
// warmup transition is one-way; once finished it never reverts.
type NodeState struct {
	warmupFinished atomic.Bool
}

func NewNodeState() *NodeState {
	return &NodeState{}
}

func (n *NodeState) MarkWarmupFinished() {
	n.warmupFinished.Store(true)
}

func (n *NodeState) IsWarmupInProgress() bool {
	return !n.warmupFinished.Load()
}

// CommandHandler executes one RPC command with canonical positional params.
type CommandHandler func(ctx context.Context, s *RPCServer, params []json.RawMessage) (interface{}, error)

// Command describes one registered RPC command. Commands are created at
// registry setup and immutable afterwards.
type Command struct {
	Name     string
	Category string
	Handler  CommandHandler
	ArgNames []string
	UniqueID uint64
	Help     string
}

// CommandTable maps method names to commands. Registering an existing name
// replaces the previous entry.
type CommandTable struct {
	mu       sync.RWMutex
	commands map[string]*Command
}

func NewCommandTable() *CommandTable {
	return &CommandTable{commands: make(map[string]*Command)}
}

func (t *CommandTable) Register(cmd *Command) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.commands[cmd.Name] = cmd
}

func (t *CommandTable) Lookup(name string) (*Command, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	cmd, ok := t.commands[name]

	return cmd, ok
}

// Names returns the registered method names, unordered.
func (t *CommandTable) Names() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	names := make([]string, 0, len(t.commands))
	for name := range t.commands {
		names = append(names, name)
	}

	return names
}

// Execute dispatches one request: warmup gate, method lookup, parameter
// canonicalization, handler invocation. Every failure leaves here as a
// structured *flnjson.RPCError; nothing propagates unshaped.
func (s *RPCServer) Execute(ctx context.Context, req *flnjson.Request) (interface{}, *flnjson.RPCError) {
	if s.nodeState.IsWarmupInProgress() {
		return nil, flnjson.NewRPCError(flnjson.ErrRPCInWarmup, "RPC in warm-up")
	}

	cmd, ok := s.commands.Lookup(req.Method)
	if !ok {
		return nil, flnjson.NewRPCError(flnjson.ErrRPCMethodNotFound, "Method not found")
	}

	params, err := transformParams(req.Params, cmd.ArgNames)
	if err != nil {
		return nil, rpcErrorFromError(err)
	}

	stopTimer := observeHandler(cmd.Name)
	result, err := cmd.Handler(ctx, s, params)
	stopTimer()

	if err != nil {
		s.logger.Debugf("rpc %s failed: %v", req.Method, err)

		return nil, rpcErrorFromError(err)
	}

	return result, nil
}

// rpcErrorFromError is the single conversion point from internal error codes
// to wire codes. Handlers may return a *flnjson.RPCError directly to control
// the wire code themselves.
func rpcErrorFromError(err error) *flnjson.RPCError {
	var rpcErr *flnjson.RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	var typed *errors.Error
	if !errors.As(err, &typed) {
		return flnjson.NewRPCError(flnjson.ErrRPCInternal, err.Error())
	}

	var code flnjson.RPCErrorCode

	switch typed.Code() {
	case errors.ERR_METHOD_NOT_FOUND:
		code = flnjson.ErrRPCMethodNotFound
	case errors.ERR_INVALID_PARAMETER, errors.ERR_INVALID_ARGUMENT:
		code = flnjson.ErrRPCInvalidParameter
	case errors.ERR_PARSE:
		code = flnjson.ErrRPCParse
	case errors.ERR_AMOUNT_OVERFLOW, errors.ERR_AMOUNT_INVALID:
		code = flnjson.ErrRPCType
	case errors.ERR_SERVICE_NOT_STARTED:
		code = flnjson.ErrRPCInWarmup
	case errors.ERR_CONFLICT:
		code = flnjson.ErrRPCClientNodeAdded
	case errors.ERR_NOT_FOUND:
		code = flnjson.ErrRPCClientInvalidIPOrSubnet
	default:
		code = flnjson.ErrRPCInternal
	}

	return flnjson.NewRPCError(code, typed.Message())
}
