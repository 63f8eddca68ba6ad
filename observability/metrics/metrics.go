// Package metrics exposes the node-level Prometheus collectors shared
// across the ambient stack: identity, chain head, and network gauges
// consumed by cmd/albacored. Component-local collectors (e.g. the
// push/inherent histograms in package blockchain) register themselves
// directly in their own package, following the same
// prometheus.MustRegister-in-init convention used here.
package metrics

import (
	"fmt"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// --- Node Info ---

var NodeInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
	Name: "albacore_node_info",
	Help: "Node information (always 1)",
}, []string{"name", "version"})

var NodeStartTime = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "albacore_node_start_time_seconds",
	Help: "Start timestamp",
})

// --- Chain ---

var HeadHeight = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "albacore_head_height",
	Help: "Block number of the current main-chain tip",
})

var LastMacroHeight = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "albacore_last_macro_height",
	Help: "Block number of the most recently finalized macro block",
})

var ValidatorsCount = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "albacore_validators_count",
	Help: "Number of validators in the current epoch's slot bands",
})

// --- Network ---

var ConnectedPeers = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "albacore_connected_peers",
	Help: "Number of connected libp2p peers",
})

func init() {
	prometheus.MustRegister(
		NodeInfo,
		NodeStartTime,
		HeadHeight,
		LastMacroHeight,
		ValidatorsCount,
		ConnectedPeers,
	)
}

// Serve starts the Prometheus metrics HTTP server on the given port.
func Serve(port int) {
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), nil); err != nil {
			log.Printf("metrics server error: %v", err)
		}
	}()
}
