package rpc

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/florin-chain/florind/errors"
	"github.com/florin-chain/florind/services/rpc/flnjson"
	"github.com/florin-chain/florind/util"
)

// limitedMethods are the commands a limited-credentials user may call.
var limitedMethods = map[string]bool{
	"getfeestats": true,
	"help":        true,
	"uptime":      true,
	"version":     true,
}

func registerHandlers(table *CommandTable) {
	for i, cmd := range []*Command{
		{
			Name:     "setban",
			Category: "network",
			Handler:  handleSetBan,
			ArgNames: []string{"subnet", "command", "bantime", "absolute"},
			Help:     "setban \"subnet\" \"add|remove\" (bantime) (absolute) - attempts to add or remove an IP/subnet from the banned list",
		},
		{
			Name:     "listbanned",
			Category: "network",
			Handler:  handleListBanned,
			Help:     "listbanned - list all manually banned IPs/subnets",
		},
		{
			Name:     "clearbanned",
			Category: "network",
			Handler:  handleClearBanned,
			Help:     "clearbanned - clear all manually banned IPs/subnets",
		},
		{
			Name:     "getfeestats",
			Category: "mining",
			Handler:  handleGetFeeStats,
			ArgNames: []string{"height"},
			Help:     "getfeestats (height) - weighted fee rate percentiles for the given height",
		},
		{
			Name:     "settxfee",
			Category: "wallet",
			Handler:  handleSetTxFee,
			ArgNames: []string{"amount"},
			Help:     "settxfee amount - set the transaction fee rate per kB",
		},
		{
			Name:     "help",
			Category: "control",
			Handler:  handleHelp,
			ArgNames: []string{"command"},
			Help:     "help (\"command\") - list commands, or get help for a command",
		},
		{
			Name:     "uptime",
			Category: "control",
			Handler:  handleUptime,
			Help:     "uptime - returns the total uptime of the server in seconds",
		},
		{
			Name:     "stop",
			Category: "control",
			Handler:  handleStop,
			Help:     "stop - stop the node",
		},
		{
			Name:     "version",
			Category: "control",
			Handler:  handleVersion,
			Help:     "version - returns the server version information",
		},
	} {
		cmd.UniqueID = uint64(i)
		table.Register(cmd)
	}
}

func paramAt(params []json.RawMessage, idx int) json.RawMessage {
	if idx >= len(params) {
		return nil
	}

	raw := params[idx]
	if string(raw) == "null" {
		return nil
	}

	return raw
}

func stringParam(params []json.RawMessage, idx int, name string) (string, error) {
	raw := paramAt(params, idx)
	if raw == nil {
		return "", errors.NewInvalidParameterError("missing required parameter %s", name)
	}

	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", errors.NewInvalidParameterError("parameter %s must be a string", name)
	}

	return v, nil
}

func optionalInt64Param(params []json.RawMessage, idx int, name string, defaultValue int64) (int64, error) {
	raw := paramAt(params, idx)
	if raw == nil {
		return defaultValue, nil
	}

	var v int64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, errors.NewInvalidParameterError("parameter %s must be an integer", name)
	}

	return v, nil
}

func optionalBoolParam(params []json.RawMessage, idx int, name string, defaultValue bool) (bool, error) {
	raw := paramAt(params, idx)
	if raw == nil {
		return defaultValue, nil
	}

	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, errors.NewInvalidParameterError("parameter %s must be a boolean", name)
	}

	return v, nil
}

// handleSetBan implements the setban command.
func handleSetBan(ctx context.Context, s *RPCServer, params []json.RawMessage) (interface{}, error) {
	subnet, err := stringParam(params, 0, "subnet")
	if err != nil {
		return nil, err
	}

	command, err := stringParam(params, 1, "command")
	if err != nil {
		return nil, err
	}

	switch command {
	case "add":
		banTime, err := optionalInt64Param(params, 2, "bantime", 0)
		if err != nil {
			return nil, err
		}

		absolute, err := optionalBoolParam(params, 3, "absolute", false)
		if err != nil {
			return nil, err
		}

		if err := s.banList.Add(subnet, banTime, absolute); err != nil {
			if errors.Is(err, errors.ErrConflict) {
				return nil, flnjson.NewRPCError(flnjson.ErrRPCClientNodeAdded, "Error: IP/Subnet already banned")
			}

			return nil, flnjson.NewRPCError(flnjson.ErrRPCClientInvalidIPOrSubnet, "Error: Invalid IP/Subnet")
		}
	case "remove":
		if err := s.banList.Remove(subnet); err != nil {
			if errors.Is(err, errors.ErrNotFound) {
				return nil, flnjson.NewRPCError(flnjson.ErrRPCClientInvalidIPOrSubnet,
					"Error: Unban failed. Requested address/subnet was not previously manually banned.")
			}

			return nil, flnjson.NewRPCError(flnjson.ErrRPCClientInvalidIPOrSubnet, "Error: Invalid IP/Subnet")
		}
	default:
		return nil, errors.NewInvalidParameterError("invalid command: %s", command)
	}

	return nil, nil
}

// handleListBanned implements the listbanned command.
func handleListBanned(ctx context.Context, s *RPCServer, params []json.RawMessage) (interface{}, error) {
	return s.banList.ListEntries(), nil
}

// handleClearBanned implements the clearbanned command.
func handleClearBanned(ctx context.Context, s *RPCServer, params []json.RawMessage) (interface{}, error) {
	s.banList.Clear()
	return nil, nil
}

// FeeStatsResult is the getfeestats reply.
type FeeStatsResult struct {
	Height             int64    `json:"height"`
	TotalWeight        int64    `json:"total_weight"`
	FeeratePercentiles []string `json:"feerate_percentiles"`
}

// handleGetFeeStats implements the getfeestats command.
func handleGetFeeStats(ctx context.Context, s *RPCServer, params []json.RawMessage) (interface{}, error) {
	if s.feeSource == nil {
		return nil, errors.NewServiceError("no fee source configured")
	}

	height, err := optionalInt64Param(params, 0, "height", -1)
	if err != nil {
		return nil, err
	}

	samples, totalWeight, err := s.feeSource.FeeStats(ctx, int32(height))
	if err != nil {
		return nil, errors.NewServiceError("failed to collect fee stats", err)
	}

	var percentiles [util.NumPercentiles]float64
	util.CalculatePercentilesByWeight(&percentiles, samples, totalWeight)

	formatted := make([]string, util.NumPercentiles)
	for i, p := range percentiles {
		formatted[i] = util.FormatAmount(int64(p))
	}

	return &FeeStatsResult{
		Height:             height,
		TotalWeight:        totalWeight,
		FeeratePercentiles: formatted,
	}, nil
}

// handleSetTxFee implements the settxfee command.
func handleSetTxFee(ctx context.Context, s *RPCServer, params []json.RawMessage) (interface{}, error) {
	raw := paramAt(params, 0)
	if raw == nil {
		return nil, errors.NewInvalidParameterError("missing required parameter amount")
	}

	amount, err := util.AmountFromValue(raw)
	if err != nil {
		return nil, err
	}

	s.txFee.Store(amount)
	s.logger.Infof("transaction fee rate set to %s/kB", util.FormatAmount(amount))

	return true, nil
}

// handleHelp implements the help command.
func handleHelp(ctx context.Context, s *RPCServer, params []json.RawMessage) (interface{}, error) {
	raw := paramAt(params, 0)
	if raw == nil {
		names := s.commands.Names()
		sort.Strings(names)

		help := ""
		for _, name := range names {
			cmd, _ := s.commands.Lookup(name)
			help += cmd.Help + "\n"
		}

		return help, nil
	}

	name, err := stringParam(params, 0, "command")
	if err != nil {
		return nil, err
	}

	cmd, ok := s.commands.Lookup(name)
	if !ok {
		return nil, flnjson.NewRPCError(flnjson.ErrRPCMisc, "Unknown command: "+name)
	}

	return cmd.Help, nil
}

// handleUptime implements the uptime command.
func handleUptime(ctx context.Context, s *RPCServer, params []json.RawMessage) (interface{}, error) {
	return int64(s.clock.Now().Sub(s.startTime) / time.Second), nil
}

// handleStop implements the stop command.
func handleStop(ctx context.Context, s *RPCServer, params []json.RawMessage) (interface{}, error) {
	s.shutdownOnce.Do(func() {
		close(s.requestProcessShutdown)
	})

	return s.settings.ClientName + " stopping.", nil
}

// VersionResult is the version command reply.
type VersionResult struct {
	VersionString string `json:"versionstring"`
	Commit        string `json:"commit"`
}

// handleVersion implements the version command.
func handleVersion(ctx context.Context, s *RPCServer, params []json.RawMessage) (interface{}, error) {
	return map[string]VersionResult{
		s.settings.ClientName: {
			VersionString: s.settings.Version,
			Commit:        s.settings.Commit,
		},
	}, nil
}
