package settings

import (
	"time"
)

type RPCSettings struct {
	RPCUser           string
	RPCPass           string
	RPCLimitUser      string
	RPCLimitPass      string
	RPCListenerURL    string
	RPCMaxClients     int
	RPCQuirks         bool
	SkipWarmupOnStart bool
}

type P2PSettings struct {
	BanDefaultDuration time.Duration
}

type PolicySettings struct {
	MinMiningTxFee int64 // smallest units per kilobyte
}

type Settings struct {
	ClientName string
	DataFolder string
	LogLevel   string
	Version    string
	Commit     string

	RPC    RPCSettings
	P2P    P2PSettings
	Policy *PolicySettings
}
