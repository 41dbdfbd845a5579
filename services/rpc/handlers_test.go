package rpc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/florin-chain/florind/services/p2p"
	"github.com/florin-chain/florind/services/rpc/flnjson"
	"github.com/florin-chain/florind/util"
)

func TestHandleSetBanAddAndList(t *testing.T) {
	s, clock, _ := newTestServer(t)
	createdAt := clock.Now().Unix()

	result, rpcErr := executeMethod(t, s, "setban", `["127.0.0.0/24","add",200]`)
	require.Nil(t, rpcErr)
	assert.Nil(t, result)

	clock.Advance(2 * time.Second)

	result, rpcErr = executeMethod(t, s, "listbanned", "")
	require.Nil(t, rpcErr)

	entries, ok := result.([]p2p.BanListEntry)
	require.True(t, ok)
	require.Len(t, entries, 1)

	assert.Equal(t, "127.0.0.0/24", entries[0].Address)
	assert.Equal(t, createdAt+200, entries[0].BannedUntil)
	assert.Equal(t, int64(200), entries[0].BanDuration)
	assert.Equal(t, int64(198), entries[0].TimeRemaining)
}

func TestHandleSetBanNamedParams(t *testing.T) {
	s, _, _ := newTestServer(t)

	_, rpcErr := executeMethod(t, s, "setban", `{"subnet":"10.1.0.0/16","command":"add","bantime":3600}`)
	require.Nil(t, rpcErr)

	result, rpcErr := executeMethod(t, s, "listbanned", "")
	require.Nil(t, rpcErr)

	entries := result.([]p2p.BanListEntry)
	require.Len(t, entries, 1)
	assert.Equal(t, "10.1.0.0/16", entries[0].Address)
}

func TestHandleSetBanErrors(t *testing.T) {
	s, _, _ := newTestServer(t)

	_, rpcErr := executeMethod(t, s, "setban", `["not-a-subnet","add"]`)
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCClientInvalidIPOrSubnet, rpcErr.Code)
	assert.Equal(t, "Error: Invalid IP/Subnet", rpcErr.Message)

	_, rpcErr = executeMethod(t, s, "setban", `["127.0.0.0/24","add"]`)
	require.Nil(t, rpcErr)

	_, rpcErr = executeMethod(t, s, "setban", `["127.0.0.1","add"]`)
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCClientNodeAdded, rpcErr.Code)
	assert.Equal(t, "Error: IP/Subnet already banned", rpcErr.Message)

	_, rpcErr = executeMethod(t, s, "setban", `["192.168.0.1","remove"]`)
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCClientInvalidIPOrSubnet, rpcErr.Code)
	assert.Equal(t, "Error: Unban failed. Requested address/subnet was not previously manually banned.", rpcErr.Message)

	_, rpcErr = executeMethod(t, s, "setban", `["127.0.0.1","freeze"]`)
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCInvalidParameter, rpcErr.Code)
}

func TestHandleClearBanned(t *testing.T) {
	s, _, _ := newTestServer(t)

	_, rpcErr := executeMethod(t, s, "setban", `["127.0.0.1","add"]`)
	require.Nil(t, rpcErr)

	_, rpcErr = executeMethod(t, s, "clearbanned", "")
	require.Nil(t, rpcErr)

	result, rpcErr := executeMethod(t, s, "listbanned", "")
	require.Nil(t, rpcErr)
	assert.Empty(t, result.([]p2p.BanListEntry))
}

func TestHandleGetFeeStats(t *testing.T) {
	s, _, feeSource := newTestServer(t)

	samples := []util.WeightedValue{
		{Value: 1, Weight: 9},
		{Value: 2, Weight: 16},
		{Value: 4, Weight: 50},
		{Value: 5, Weight: 10},
		{Value: 9, Weight: 15},
	}
	feeSource.On("FeeStats", mock.Anything, int32(850000)).Return(samples, int64(100), nil)

	result, rpcErr := executeMethod(t, s, "getfeestats", `[850000]`)
	require.Nil(t, rpcErr)

	stats, ok := result.(*FeeStatsResult)
	require.True(t, ok)

	assert.Equal(t, int64(850000), stats.Height)
	assert.Equal(t, int64(100), stats.TotalWeight)
	assert.Equal(t, []string{"0.000002", "0.000002", "0.000004", "0.000004", "0.000009"}, stats.FeeratePercentiles)

	feeSource.AssertExpectations(t)
}

func TestHandleGetFeeStatsSourceError(t *testing.T) {
	s, _, feeSource := newTestServer(t)

	feeSource.On("FeeStats", mock.Anything, int32(-1)).Return(nil, int64(0), assert.AnError)

	_, rpcErr := executeMethod(t, s, "getfeestats", "")
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCInternal, rpcErr.Code)
}

func TestHandleSetTxFee(t *testing.T) {
	s, _, _ := newTestServer(t)
	assert.Equal(t, int64(10000), s.TxFee())

	result, rpcErr := executeMethod(t, s, "settxfee", `["0.5"]`)
	require.Nil(t, rpcErr)
	assert.Equal(t, true, result)
	assert.Equal(t, int64(500000), s.TxFee())

	result, rpcErr = executeMethod(t, s, "settxfee", `[0.000010]`)
	require.Nil(t, rpcErr)
	assert.Equal(t, true, result)
	assert.Equal(t, int64(10), s.TxFee())

	_, rpcErr = executeMethod(t, s, "settxfee", `["-0.000001"]`)
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCType, rpcErr.Code)

	_, rpcErr = executeMethod(t, s, "settxfee", "")
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCInvalidParameter, rpcErr.Code)
}

func TestHandleHelp(t *testing.T) {
	s, _, _ := newTestServer(t)

	result, rpcErr := executeMethod(t, s, "help", "")
	require.Nil(t, rpcErr)
	assert.Contains(t, result.(string), "setban")
	assert.Contains(t, result.(string), "uptime")

	result, rpcErr = executeMethod(t, s, "help", `["settxfee"]`)
	require.Nil(t, rpcErr)
	assert.Contains(t, result.(string), "settxfee amount")

	_, rpcErr = executeMethod(t, s, "help", `["nosuchcommand"]`)
	require.NotNil(t, rpcErr)
	assert.Equal(t, flnjson.ErrRPCMisc, rpcErr.Code)
}

func TestHandleUptime(t *testing.T) {
	s, clock, _ := newTestServer(t)

	clock.Advance(90 * time.Second)

	result, rpcErr := executeMethod(t, s, "uptime", "")
	require.Nil(t, rpcErr)
	assert.Equal(t, int64(90), result)
}

func TestHandleStop(t *testing.T) {
	s, _, _ := newTestServer(t)

	result, rpcErr := executeMethod(t, s, "stop", "")
	require.Nil(t, rpcErr)
	assert.Equal(t, "florind stopping.", result)

	select {
	case <-s.RequestedProcessShutdown():
	default:
		t.Fatal("shutdown channel not closed")
	}

	// a second stop must not panic on the closed channel
	_, rpcErr = executeMethod(t, s, "stop", "")
	require.Nil(t, rpcErr)
}

func TestHandleVersion(t *testing.T) {
	s, _, _ := newTestServer(t)

	result, rpcErr := executeMethod(t, s, "version", "")
	require.Nil(t, rpcErr)

	versions, ok := result.(map[string]VersionResult)
	require.True(t, ok)
	assert.Equal(t, "1.0.0", versions["florind"].VersionString)
	assert.Equal(t, "abcdef0", versions["florind"].Commit)
}
