package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// TradeMetrics holds the escrow and contract counters. A nil *TradeMetrics
// is valid and records nothing.
type TradeMetrics struct {
	LedgersCreatedTotal       prometheus.CounterVec
	LedgersCreatedAmountTotal prometheus.CounterVec
	LedgerTransitionsTotal    prometheus.CounterVec
	LedgersReleasedAmount     prometheus.CounterVec
	PlatformFeeCollected      prometheus.CounterVec

	DisputesRaisedTotal   prometheus.Counter
	DisputesResolvedTotal prometheus.CounterVec

	ContractsCreatedTotal    prometheus.CounterVec
	ContractTransitionsTotal prometheus.CounterVec

	RequestsCreatedTotal  prometheus.Counter
	RequestsAcceptedTotal prometheus.Counter
	RequestsRejectedTotal prometheus.Counter
}

func NewTradeMetrics() *TradeMetrics {
	return &TradeMetrics{
		LedgersCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_ledgers_created_total",
				Help: "Total escrow ledgers created",
			},
			[]string{"status", "currency"},
		),
		LedgersCreatedAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_ledgers_created_amount_total",
				Help: "Total amount placed into escrow, in minor units",
			},
			[]string{"currency"},
		),
		LedgerTransitionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_ledger_transitions_total",
				Help: "Escrow ledger status transitions",
			},
			[]string{"to_status"},
		),
		LedgersReleasedAmount: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_ledgers_released_amount_total",
				Help: "Total amount released to sellers, in minor units",
			},
			[]string{"currency"},
		),
		PlatformFeeCollected: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "platform_fee_collected_total",
				Help: "Total platform fee collected, in minor units",
			},
			[]string{"currency"},
		),
		DisputesRaisedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "escrow_disputes_raised_total",
				Help: "Total disputes raised on escrow ledgers",
			},
		),
		DisputesResolvedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "escrow_disputes_resolved_total",
				Help: "Total disputes resolved, by resolution",
			},
			[]string{"resolution"},
		),
		ContractsCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contracts_created_total",
				Help: "Total contracts created",
			},
			[]string{"crop"},
		),
		ContractTransitionsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contract_stage_transitions_total",
				Help: "Contract stage transitions",
			},
			[]string{"to_stage"},
		),
		RequestsCreatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_requests_created_total",
				Help: "Total payment requests created",
			},
		),
		RequestsAcceptedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_requests_accepted_total",
				Help: "Total payment requests accepted",
			},
		),
		RequestsRejectedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "payment_requests_rejected_total",
				Help: "Total payment requests rejected",
			},
		),
	}
}

func (m *TradeMetrics) LedgerCreated(status, currency string, amount int64) {
	if m == nil {
		return
	}
	m.LedgersCreatedTotal.WithLabelValues(status, currency).Inc()
	m.LedgersCreatedAmountTotal.WithLabelValues(currency).Add(float64(amount))
}

func (m *TradeMetrics) LedgerTransition(toStatus string) {
	if m == nil {
		return
	}
	m.LedgerTransitionsTotal.WithLabelValues(toStatus).Inc()
}

func (m *TradeMetrics) LedgerReleased(currency string, released, fee int64) {
	if m == nil {
		return
	}
	m.LedgerTransitionsTotal.WithLabelValues("released").Inc()
	m.LedgersReleasedAmount.WithLabelValues(currency).Add(float64(released))
	m.PlatformFeeCollected.WithLabelValues(currency).Add(float64(fee))
}

func (m *TradeMetrics) DisputeRaised() {
	if m == nil {
		return
	}
	m.DisputesRaisedTotal.Inc()
	m.LedgerTransitionsTotal.WithLabelValues("dispute").Inc()
}

func (m *TradeMetrics) DisputeResolved(resolution string) {
	if m == nil {
		return
	}
	m.DisputesResolvedTotal.WithLabelValues(resolution).Inc()
}

func (m *TradeMetrics) ContractCreated(crop string) {
	if m == nil {
		return
	}
	m.ContractsCreatedTotal.WithLabelValues(crop).Inc()
}

func (m *TradeMetrics) ContractTransition(toStage string) {
	if m == nil {
		return
	}
	m.ContractTransitionsTotal.WithLabelValues(toStage).Inc()
}

func (m *TradeMetrics) RequestCreated() {
	if m == nil {
		return
	}
	m.RequestsCreatedTotal.Inc()
}

func (m *TradeMetrics) RequestAccepted() {
	if m == nil {
		return
	}
	m.RequestsAcceptedTotal.Inc()
}

func (m *TradeMetrics) RequestRejected() {
	if m == nil {
		return
	}
	m.RequestsRejectedTotal.Inc()
}
