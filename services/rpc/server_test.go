package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florin-chain/florind/services/p2p"
	"github.com/florin-chain/florind/services/rpc/flnjson"
	"github.com/florin-chain/florind/settings"
	"github.com/florin-chain/florind/ulogger"
	"github.com/florin-chain/florind/util"
)

func newTestSettings() *settings.Settings {
	return &settings.Settings{
		ClientName: "florind",
		Version:    "1.0.0",
		Commit:     "abcdef0",
		RPC: settings.RPCSettings{
			RPCUser:        "user",
			RPCPass:        "pass",
			RPCLimitUser:   "limiteduser",
			RPCLimitPass:   "limitedpass",
			RPCListenerURL: "localhost:0",
			RPCMaxClients:  10,
		},
		P2P: settings.P2PSettings{
			BanDefaultDuration: 24 * time.Hour,
		},
		Policy: &settings.PolicySettings{
			MinMiningTxFee: 10000,
		},
	}
}

func newTestServer(t *testing.T) (*RPCServer, *util.MockClock, *MockFeeSource) {
	t.Helper()

	clock := util.NewMockClock(time.Unix(1_700_000_000, 0))
	logger := ulogger.NewVerboseTestLogger(t)
	banList := p2p.NewBanList(logger, clock, 24*time.Hour)
	feeSource := NewMockFeeSource()

	nodeState := NewNodeState()
	nodeState.MarkWarmupFinished()

	s, err := NewServer(logger, newTestSettings(), banList, feeSource, nodeState, clock)
	require.NoError(t, err)

	return s, clock, feeSource
}

func executeMethod(t *testing.T, s *RPCServer, method, params string) (interface{}, *flnjson.RPCError) {
	t.Helper()

	req := &flnjson.Request{
		Jsonrpc: "1.0",
		Method:  method,
		ID:      float64(1),
	}
	if params != "" {
		req.Params = json.RawMessage(params)
	}

	return s.Execute(context.Background(), req)
}

func TestExecuteWarmupGate(t *testing.T) {
	clock := util.NewMockClock(time.Unix(1_700_000_000, 0))
	logger := ulogger.NewVerboseTestLogger(t)
	banList := p2p.NewBanList(logger, clock, 24*time.Hour)
	nodeState := NewNodeState()

	s, err := NewServer(logger, newTestSettings(), banList, nil, nodeState, clock)
	require.NoError(t, err)

	_, rpcErr := executeMethod(t, s, "version", "")
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCInWarmup, rpcErr.Code)

	// even unknown methods are refused during warmup
	_, rpcErr = executeMethod(t, s, "nosuchmethod", "")
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCInWarmup, rpcErr.Code)

	nodeState.MarkWarmupFinished()

	result, rpcErr := executeMethod(t, s, "version", "")
	require.Nil(t, rpcErr)
	require.NotNil(t, result)
}

func TestExecuteWarmupTransitionIsOneWayUnderConcurrency(t *testing.T) {
	s, _, _ := newTestServer(t)
	nodeState := NewNodeState()
	s.nodeState = nodeState

	var wg sync.WaitGroup

	start := make(chan struct{})

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			<-start
			nodeState.MarkWarmupFinished()
		}()
	}

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()
			<-start

			for j := 0; j < 100; j++ {
				_, _ = executeMethod(t, s, "uptime", "")
			}
		}()
	}

	close(start)
	wg.Wait()

	// once finished, no caller may observe warmup again
	for i := 0; i < 100; i++ {
		_, rpcErr := executeMethod(t, s, "uptime", "")
		require.Nil(t, rpcErr)
	}
}

func TestExecuteMethodNotFound(t *testing.T) {
	s, _, _ := newTestServer(t)

	_, rpcErr := executeMethod(t, s, "nosuchmethod", "")
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCMethodNotFound, rpcErr.Code)
}

func TestExecuteParamErrorsMapToWireCodes(t *testing.T) {
	s, _, _ := newTestServer(t)

	_, rpcErr := executeMethod(t, s, "setban", `{"bogus":1}`)
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCInvalidParameter, rpcErr.Code)
	assert.Contains(t, rpcErr.Message, "Unknown named parameter bogus")

	_, rpcErr = executeMethod(t, s, "settxfee", `["1e-9"]`)
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCType, rpcErr.Code)

	_, rpcErr = executeMethod(t, s, "settxfee", `["1e11"]`)
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCType, rpcErr.Code)
}

func TestCommandTableRegisterReplaces(t *testing.T) {
	table := NewCommandTable()

	table.Register(&Command{Name: "ping", UniqueID: 1})
	table.Register(&Command{Name: "ping", UniqueID: 2})

	cmd, ok := table.Lookup("ping")
	require.True(t, ok)
	assert.Equal(t, uint64(2), cmd.UniqueID)
	assert.Len(t, table.Names(), 1)
}

func doRPC(t *testing.T, url, user, pass, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader([]byte(body)))
	require.NoError(t, err)
	req.SetBasicAuth(user, pass)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, payload
}

func TestServerHTTPRoundTrip(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.nodeState.MarkWarmupFinished()

	require.NoError(t, s.Start(context.Background()))

	defer func() {
		require.NoError(t, s.Stop(context.Background()))
	}()

	url := fmt.Sprintf("http://%s/", s.Addr())

	resp, payload := doRPC(t, url, "user", "pass", `{"jsonrpc":"1.0","method":"uptime","params":[],"id":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply struct {
		Result int64             `json:"result"`
		Error  *flnjson.RPCError `json:"error"`
		ID     interface{}       `json:"id"`
	}
	require.NoError(t, json.Unmarshal(payload, &reply))
	assert.Nil(t, reply.Error)
	assert.Equal(t, float64(1), reply.ID)
}

func TestServerHTTPAuthFailure(t *testing.T) {
	s, _, _ := newTestServer(t)

	require.NoError(t, s.Start(context.Background()))

	defer func() {
		require.NoError(t, s.Stop(context.Background()))
	}()

	url := fmt.Sprintf("http://%s/", s.Addr())

	resp, _ := doRPC(t, url, "user", "wrongpass", `{"jsonrpc":"1.0","method":"uptime","params":[],"id":1}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServerHTTPLimitedUser(t *testing.T) {
	s, _, _ := newTestServer(t)
	s.nodeState.MarkWarmupFinished()

	require.NoError(t, s.Start(context.Background()))

	defer func() {
		require.NoError(t, s.Stop(context.Background()))
	}()

	url := fmt.Sprintf("http://%s/", s.Addr())

	// limited users may call uptime
	resp, payload := doRPC(t, url, "limiteduser", "limitedpass", `{"jsonrpc":"1.0","method":"uptime","params":[],"id":1}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reply flnjson.Response
	require.NoError(t, json.Unmarshal(payload, &reply))
	assert.Nil(t, reply.Error)

	// but not setban
	_, payload = doRPC(t, url, "limiteduser", "limitedpass", `{"jsonrpc":"1.0","method":"setban","params":["1.2.3.4","add"],"id":2}`)
	require.NoError(t, json.Unmarshal(payload, &reply))
	require.NotNil(t, reply.Error)
	assert.Contains(t, reply.Error.Message, "limited user not authorized")
}

func TestServerHTTPParseError(t *testing.T) {
	s, _, _ := newTestServer(t)

	require.NoError(t, s.Start(context.Background()))

	defer func() {
		require.NoError(t, s.Stop(context.Background()))
	}()

	url := fmt.Sprintf("http://%s/", s.Addr())

	_, payload := doRPC(t, url, "user", "pass", `{"jsonrpc":`)

	var reply flnjson.Response
	require.NoError(t, json.Unmarshal(payload, &reply))
	require.NotNil(t, reply.Error)
	assert.Equal(t, flnjson.ErrRPCParse, reply.Error.Code)
}
