package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// LedgerMetrics counters for postings, product operations and rate snapshots
type LedgerMetrics struct {
	postings   *prometheus.CounterVec
	operations *prometheus.CounterVec
	snapshots  *prometheus.CounterVec
	published  prometheus.Counter
}

var (
	ledgerOnce     sync.Once
	ledgerRegistry *LedgerMetrics
)

// Ledger process wide metrics registry
func Ledger() *LedgerMetrics {
	ledgerOnce.Do(func() {
		ledgerRegistry = &LedgerMetrics{
			postings: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lendledger_postings_total",
				Help: "Ledger postings by side and account kind.",
			}, []string{"side", "kind"}),
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lendledger_operations_total",
				Help: "Product operations by name and outcome.",
			}, []string{"operation", "outcome"}),
			snapshots: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "lendledger_rate_snapshots_total",
				Help: "Rate snapshot attempts by side and whether a row was written.",
			}, []string{"side", "written"}),
			published: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "lendledger_entries_published_total",
				Help: "Ledger entries shipped to the entry stream.",
			}),
		}
		prometheus.MustRegister(
			ledgerRegistry.postings,
			ledgerRegistry.operations,
			ledgerRegistry.snapshots,
			ledgerRegistry.published,
		)
	})
	return ledgerRegistry
}

// ObservePosting count one debit or credit
func (m *LedgerMetrics) ObservePosting(side, kind string) {
	if m == nil {
		return
	}
	m.postings.WithLabelValues(side, kind).Inc()
}

// ObserveOperation count a product operation, outcome is ok or the error category
func (m *LedgerMetrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	if outcome == "" {
		outcome = "unknown"
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

// ObserveSnapshot count a rate snapshot attempt
func (m *LedgerMetrics) ObserveSnapshot(side string, written bool) {
	if m == nil {
		return
	}
	label := "false"
	if written {
		label = "true"
	}
	m.snapshots.WithLabelValues(side, label).Inc()
}

// ObservePublished count published entries
func (m *LedgerMetrics) ObservePublished(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.published.Add(float64(n))
}
