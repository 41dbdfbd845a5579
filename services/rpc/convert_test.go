package rpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/florin-chain/florind/errors"
)

func TestConvertCliArgs(t *testing.T) {
	out, err := ConvertCliArgs("setban", []string{"127.0.0.0/24", "add", "200", "false"})
	require.NoError(t, err)
	assert.JSONEq(t, `["127.0.0.0/24","add",200,false]`, string(out))

	out, err = ConvertCliArgs("getfeestats", []string{"850000"})
	require.NoError(t, err)
	assert.JSONEq(t, `[850000]`, string(out))

	out, err = ConvertCliArgs("settxfee", []string{"0.000010"})
	require.NoError(t, err)
	assert.JSONEq(t, `["0.000010"]`, string(out))

	out, err = ConvertCliArgs("listbanned", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(out))
}

func TestConvertCliArgsStrictParsing(t *testing.T) {
	_, err := ConvertCliArgs("setban", []string{"127.0.0.1", "add", "soon"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))

	_, err = ConvertCliArgs("setban", []string{"127.0.0.1", "add", "200", "yes"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))

	_, err = ConvertCliArgs("setban", []string{"127.0.0.1", "add", "1.5"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))
}

func TestConvertCliArgsUnknownMethod(t *testing.T) {
	_, err := ConvertCliArgs("nosuchmethod", []string{"x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMethodNotFound))

	_, err = ConvertCliNamedArgs("nosuchmethod", []string{"x=1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMethodNotFound))
}

func TestConvertTokenJSONKinds(t *testing.T) {
	out, err := convertToken(`[1,2,3]`, kindJSONArray, "list")
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`[1,2,3]`), out)

	out, err = convertToken(`{"a":1}`, kindJSONObject, "opts")
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`{"a":1}`), out)

	_, err = convertToken(`[1,2`, kindJSONArray, "list")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrParse))

	_, err = convertToken(`{"a":`, kindJSONObject, "opts")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrParse))

	_, err = convertToken(`1,2,3`, kindJSONArray, "list")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrParse))
}

func TestConvertCliNamedArgs(t *testing.T) {
	out, err := ConvertCliNamedArgs("setban", []string{"subnet=10.0.0.0/8", "command=add", "bantime=3600"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"subnet":"10.0.0.0/8","command":"add","bantime":3600}`, string(out))

	// bare tokens become leading positional args
	out, err = ConvertCliNamedArgs("setban", []string{"10.0.0.0/8", "command=add"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"command":"add","args":["10.0.0.0/8"]}`, string(out))

	_, err = ConvertCliNamedArgs("setban", []string{"whatever=1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))

	_, err = ConvertCliNamedArgs("setban", []string{"bantime=never"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidParameter))
}
