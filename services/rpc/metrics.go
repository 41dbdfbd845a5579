package rpc

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/florin-chain/florind/util"
)

var (
	prometheusHandleSetBan      prometheus.Histogram
	prometheusHandleListBanned  prometheus.Histogram
	prometheusHandleClearBanned prometheus.Histogram
	prometheusHandleGetFeeStats prometheus.Histogram
	prometheusHandleSetTxFee    prometheus.Histogram
	prometheusHandleHelp        prometheus.Histogram
	prometheusHandleUptime      prometheus.Histogram
	prometheusHandleStop        prometheus.Histogram
	prometheusHandleVersion     prometheus.Histogram

	prometheusHandlerHistograms map[string]prometheus.Histogram
)

var prometheusMetricsInitOnce sync.Once

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func newHandlerHistogram(name, handler string) prometheus.Histogram {
	return promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "rpc",
			Name:      name,
			Help:      "Histogram of calls to " + handler + " in the rpc service",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)
}

func _initPrometheusMetrics() {
	prometheusHandleSetBan = newHandlerHistogram("set_ban", "handleSetBan")
	prometheusHandleListBanned = newHandlerHistogram("list_banned", "handleListBanned")
	prometheusHandleClearBanned = newHandlerHistogram("clear_banned", "handleClearBanned")
	prometheusHandleGetFeeStats = newHandlerHistogram("get_fee_stats", "handleGetFeeStats")
	prometheusHandleSetTxFee = newHandlerHistogram("set_tx_fee", "handleSetTxFee")
	prometheusHandleHelp = newHandlerHistogram("help", "handleHelp")
	prometheusHandleUptime = newHandlerHistogram("uptime", "handleUptime")
	prometheusHandleStop = newHandlerHistogram("stop", "handleStop")
	prometheusHandleVersion = newHandlerHistogram("version", "handleVersion")

	prometheusHandlerHistograms = map[string]prometheus.Histogram{
		"setban":      prometheusHandleSetBan,
		"listbanned":  prometheusHandleListBanned,
		"clearbanned": prometheusHandleClearBanned,
		"getfeestats": prometheusHandleGetFeeStats,
		"settxfee":    prometheusHandleSetTxFee,
		"help":        prometheusHandleHelp,
		"uptime":      prometheusHandleUptime,
		"stop":        prometheusHandleStop,
		"version":     prometheusHandleVersion,
	}
}

// observeHandler starts timing one handler invocation and returns the stop
// function that records it.
func observeHandler(name string) func() {
	initPrometheusMetrics()

	histogram, ok := prometheusHandlerHistograms[name]
	if !ok {
		return func() {}
	}

	start := time.Now()

	return func() {
		histogram.Observe(time.Since(start).Seconds())
	}
}
