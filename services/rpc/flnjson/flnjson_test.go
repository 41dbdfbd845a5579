package flnjson

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRPCErrorError(t *testing.T) {
	err := NewRPCError(ErrRPCMethodNotFound, "Method not found")
	assert.Equal(t, "-32601: Method not found", err.Error())
}

func TestIsValidIDType(t *testing.T) {
	assert.True(t, IsValidIDType(1))
	assert.True(t, IsValidIDType(1.5))
	assert.True(t, IsValidIDType("abc"))
	assert.True(t, IsValidIDType(nil))
	assert.False(t, IsValidIDType([]string{"abc"}))
	assert.False(t, IsValidIDType(map[string]string{}))
}

func TestMarshalResponse(t *testing.T) {
	b, err := MarshalResponse(float64(1), "ok", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":"ok","error":null,"id":1}`, string(b))

	b, err = MarshalResponse("req-2", nil, NewRPCError(ErrRPCInvalidParameter, "bad"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":null,"error":{"code":-8,"message":"bad"},"id":"req-2"}`, string(b))

	_, err = MarshalResponse([]int{1}, "ok", nil)
	require.Error(t, err)
}

func TestRequestUnmarshal(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"1.0","method":"setban","params":["1.2.3.4","add"],"id":7}`), &req))

	assert.Equal(t, "setban", req.Method)
	assert.Equal(t, json.RawMessage(`["1.2.3.4","add"]`), req.Params)
	assert.Equal(t, float64(7), req.ID)
}
