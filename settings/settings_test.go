package settings

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSettingsDefaults(t *testing.T) {
	s := NewSettings()
	require.NotNil(t, s)

	assert.Equal(t, "florind", s.ClientName)
	assert.Equal(t, ":9332", s.RPC.RPCListenerURL)
	assert.Equal(t, 10, s.RPC.RPCMaxClients)
	assert.Equal(t, 24*time.Hour, s.P2P.BanDefaultDuration)

	require.NotNil(t, s.Policy)
	assert.Equal(t, int64(10000), s.Policy.MinMiningTxFee)
}
