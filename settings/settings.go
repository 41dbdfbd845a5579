package settings

import (
	"time"
)

func NewSettings() *Settings {
	return &Settings{
		ClientName: getString("clientName", "florind"),
		DataFolder: getString("dataFolder", "data"),
		LogLevel:   getString("logLevel", "INFO"),
		RPC: RPCSettings{
			RPCUser:           getString("rpc_user", ""),
			RPCPass:           getString("rpc_pass", ""),
			RPCLimitUser:      getString("rpc_limit_user", ""),
			RPCLimitPass:      getString("rpc_limit_pass", ""),
			RPCListenerURL:    getString("rpc_listener_url", ":9332"),
			RPCMaxClients:     getInt("rpc_max_clients", 10),
			RPCQuirks:         getBool("rpc_quirks", true),
			SkipWarmupOnStart: getBool("rpc_skip_warmup_on_start", false),
		},
		P2P: P2PSettings{
			BanDefaultDuration: getDuration("p2p_ban_default_duration", 24*time.Hour),
		},
		Policy: &PolicySettings{
			MinMiningTxFee: getInt64("minminingtxfee", 10000), // 0.010000 FLN/kB
		},
	}
}
