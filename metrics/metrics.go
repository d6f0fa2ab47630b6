// Package metrics exposes the counters and histograms the transaction
// pipeline updates as it runs, following the prometheus/client_golang
// collector-struct pattern (register once, pass the struct around instead
// of touching global metrics).
package metrics

import (
	"math/big"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/starkcore/txexec/transaction"
)

// TxMetrics groups the counters and histograms one transaction execution
// updates.
type TxMetrics struct {
	Executed      *prometheus.CounterVec
	Reverted      *prometheus.CounterVec
	ActualFee     *prometheus.HistogramVec
	ExecutionTime *prometheus.HistogramVec
}

// NewTxMetrics constructs and registers the collectors against reg. Passing
// a fresh prometheus.NewRegistry() keeps tests isolated from the global
// default registry.
func NewTxMetrics(reg prometheus.Registerer) *TxMetrics {
	m := &TxMetrics{
		Executed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "txcore",
			Name:      "transactions_executed_total",
			Help:      "Transactions that completed execution, reverted or not.",
		}, []string{"tx_type"}),
		Reverted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "txcore",
			Name:      "transactions_reverted_total",
			Help:      "Transactions whose execution reverted.",
		}, []string{"tx_type"}),
		ActualFee: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "txcore",
			Name:      "transaction_actual_fee",
			Help:      "Actual fee charged per transaction, in fee-token smallest units.",
			Buckets:   prometheus.ExponentialBuckets(1, 8, 10),
		}, []string{"tx_type"}),
		ExecutionTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "txcore",
			Name:      "transaction_execution_seconds",
			Help:      "Wall-clock time spent executing one transaction.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"tx_type"}),
	}
	reg.MustRegister(m.Executed, m.Reverted, m.ActualFee, m.ExecutionTime)
	return m
}

// Observe records the outcome of one transaction execution. feeUnits is the
// actual fee as a float64 approximation of the felt value, sufficient for
// histogram bucketing (exact accounting lives in TransactionExecutionInfo,
// not in the metrics path).
func (m *TxMetrics) Observe(txType transaction.TxType, info *transaction.TransactionExecutionInfo, seconds float64) {
	label := string(txType)
	m.Executed.WithLabelValues(label).Inc()
	m.ExecutionTime.WithLabelValues(label).Observe(seconds)
	if info == nil {
		return
	}
	if info.Reverted() {
		m.Reverted.WithLabelValues(label).Inc()
	}
	if info.ActualFee != nil {
		var bi big.Int
		info.ActualFee.BigInt(&bi)
		feeUnits, _ := new(big.Float).SetInt(&bi).Float64()
		m.ActualFee.WithLabelValues(label).Observe(feeUnits)
	}
}
