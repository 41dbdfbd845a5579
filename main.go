package main

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ordishs/gocore"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/florin-chain/florind/services/p2p"
	"github.com/florin-chain/florind/services/rpc"
	"github.com/florin-chain/florind/settings"
	"github.com/florin-chain/florind/ulogger"
	"github.com/florin-chain/florind/util"
)

// Name used by build script for the binaries. (Please keep on single line)
const progname = "florind"

// Version & commit strings injected at build with -ldflags -X...
var version string
var commit string

func init() {
	gocore.SetInfo(progname, version, commit)
}

func main() {
	tSettings := settings.NewSettings()
	tSettings.Version = version
	tSettings.Commit = commit

	logger := ulogger.New(progname, ulogger.WithLevel(tSettings.LogLevel))

	stats := gocore.Config().Stats()
	logger.Infof("STATS\n%s\nVERSION\n-------\n%s (%s)\n\n", stats, version, commit)

	go func() {
		profilerAddr, ok := gocore.Config().Get("profilerAddr")
		if ok {
			logger.Infof("Starting profiler on http://%s/debug/pprof", profilerAddr)
			logger.Fatalf("%v", http.ListenAndServe(profilerAddr, nil))
		}
	}()

	prometheusEndpoint, ok := gocore.Config().Get("prometheusEndpoint")
	if ok && prometheusEndpoint != "" {
		logger.Infof("Starting prometheus endpoint on %s", prometheusEndpoint)
		http.Handle(prometheusEndpoint, promhttp.Handler())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	clock := util.SystemClock{}
	banList := p2p.NewBanList(logger.New("p2p"), clock, tSettings.P2P.BanDefaultDuration)
	nodeState := rpc.NewNodeState()

	rpcServer, err := rpc.NewServer(logger.New("rpc"), tSettings, banList, nil, nodeState, clock)
	if err != nil {
		logger.Fatalf("failed to create RPC server: %v", err)
	}

	g.Go(func() error {
		logger.Infof("Starting RPC server")

		return rpcServer.Start(ctx)
	})

	// The request layer has no dependent subsystems to wait for yet, so
	// warmup ends as soon as the server is up.
	nodeState.MarkWarmupFinished()

	select {
	case <-interrupt:
	case <-ctx.Done():
	case <-rpcServer.RequestedProcessShutdown():
	}

	logger.Infof("received shutdown signal")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := rpcServer.Stop(shutdownCtx); err != nil {
		logger.Errorf("error stopping RPC server: %v", err)
	}

	if err := g.Wait(); err != nil {
		logger.Errorf("server returning an error: %v", err)
		os.Exit(2)
	}
}
