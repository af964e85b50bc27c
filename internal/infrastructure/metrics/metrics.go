// Package metrics exposes the client's prometheus counters.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Result label values.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultInvalid = "invalid"
)

// Metrics groups the counters written by the services. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Connects      *prometheus.CounterVec
	BalanceReads  *prometheus.CounterVec
	TokenReads    *prometheus.CounterVec
	Transfers     *prometheus.CounterVec
	WalletEvents  *prometheus.CounterVec
	PriceRequests *prometheus.CounterVec
}

// New builds the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Connects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wallet_client",
			Name:      "connects_total",
			Help:      "Wallet connect attempts by result.",
		}, []string{"result"}),
		BalanceReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wallet_client",
			Name:      "balance_reads_total",
			Help:      "Native balance reads by result.",
		}, []string{"result"}),
		TokenReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wallet_client",
			Name:      "token_reads_total",
			Help:      "Token lookups by result.",
		}, []string{"result"}),
		Transfers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wallet_client",
			Name:      "transfers_total",
			Help:      "Transfer outcomes by asset and outcome.",
		}, []string{"asset", "outcome"}),
		WalletEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wallet_client",
			Name:      "wallet_events_total",
			Help:      "Wallet notifications handled by kind.",
		}, []string{"kind"}),
		PriceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wallet_client",
			Name:      "price_requests_total",
			Help:      "Native USD price lookups by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.Connects, m.BalanceReads, m.TokenReads, m.Transfers, m.WalletEvents, m.PriceRequests)
	return m
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the counters registered with the default prometheus registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = New(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

func (m *Metrics) ObserveConnect(result string) {
	if m != nil {
		m.Connects.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveBalanceRead(result string) {
	if m != nil {
		m.BalanceReads.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveTokenRead(result string) {
	if m != nil {
		m.TokenReads.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) ObserveTransfer(asset, outcome string) {
	if m != nil {
		m.Transfers.WithLabelValues(asset, outcome).Inc()
	}
}

func (m *Metrics) ObserveWalletEvent(kind string) {
	if m != nil {
		m.WalletEvents.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) ObservePriceRequest(result string) {
	if m != nil {
		m.PriceRequests.WithLabelValues(result).Inc()
	}
}
