// Package flnjson defines the JSON-RPC wire types and error codes used by
// the florind RPC service.
package flnjson

import (
	"encoding/json"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// RPCErrorCode is a wire-level error code. The values follow the
// bitcoin-lineage numbering so existing clients interpret them correctly.
type RPCErrorCode int

const (
	ErrRPCMisc                    RPCErrorCode = -1
	ErrRPCType                    RPCErrorCode = -3
	ErrRPCInvalidAddressOrKey     RPCErrorCode = -5
	ErrRPCInvalidParameter        RPCErrorCode = -8
	ErrRPCClientNodeAdded         RPCErrorCode = -23
	ErrRPCClientNodeNotAdded      RPCErrorCode = -24
	ErrRPCInWarmup                RPCErrorCode = -28
	ErrRPCClientInvalidIPOrSubnet RPCErrorCode = -30

	ErrRPCInvalidRequest RPCErrorCode = -32600
	ErrRPCMethodNotFound RPCErrorCode = -32601
	ErrRPCInvalidParams  RPCErrorCode = -32602
	ErrRPCInternal       RPCErrorCode = -32603
	ErrRPCParse          RPCErrorCode = -32700
)

// RPCError is the error object returned in a JSON-RPC response.
type RPCError struct {
	Code    RPCErrorCode `json:"code,omitempty"`
	Message string       `json:"message,omitempty"`
}

var _ error = (*RPCError)(nil)

func (e RPCError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}

func NewRPCError(code RPCErrorCode, message string) *RPCError {
	return &RPCError{Code: code, Message: message}
}

// Request is an unmarshalled JSON-RPC request. Params is kept raw; the
// dispatcher decides how to interpret it per command.
type Request struct {
	Jsonrpc string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      interface{}     `json:"id"`
}

// Response is the marshalled form of a JSON-RPC response.
type Response struct {
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
	ID     *interface{}    `json:"id"`
}

var jsonCfg = jsoniter.ConfigCompatibleWithStandardLibrary

// IsValidIDType reports whether id is allowed by the JSON-RPC spec: strings,
// numbers and null.
func IsValidIDType(id interface{}) bool {
	switch id.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64,
		string, nil:
		return true
	default:
		return false
	}
}

// NewResponse builds a Response from a marshallable result or an RPCError.
func NewResponse(id interface{}, marshalledResult []byte, rpcErr *RPCError) (*Response, error) {
	if !IsValidIDType(id) {
		return nil, fmt.Errorf("the id of type '%T' is invalid", id)
	}

	pid := &id

	return &Response{
		Result: marshalledResult,
		Error:  rpcErr,
		ID:     pid,
	}, nil
}

// MarshalResponse marshals a result or error into the full JSON-RPC
// response wire form.
func MarshalResponse(id interface{}, result interface{}, rpcErr *RPCError) ([]byte, error) {
	marshalledResult, err := jsonCfg.Marshal(result)
	if err != nil {
		return nil, err
	}

	response, err := NewResponse(id, marshalledResult, rpcErr)
	if err != nil {
		return nil, err
	}

	return jsonCfg.Marshal(&response)
}
