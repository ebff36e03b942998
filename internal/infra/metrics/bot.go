package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Inbound Telegram updates handled, by update kind.",
		},
		[]string{"kind"},
	)

	adminDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_admin_decisions_total",
			Help: "Administrator decisions applied to the ledger, by outcome.",
		},
		[]string{"decision"},
	)

	paymentIntentsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_payment_intents_total",
			Help: "Payment intents stamped with a transaction identifier.",
		},
	)

	sendFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_send_failures_total",
			Help: "Outbound Telegram deliveries that failed.",
		},
	)

	ledgerRecords = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bot_ledger_records",
			Help: "Records currently in the ledger, by status.",
		},
		[]string{"status"},
	)
)

func init() {
	enroll(updatesTotal, adminDecisionsTotal, paymentIntentsTotal, sendFailuresTotal, ledgerRecords)
}

func IncUpdate(kind string)       { updatesTotal.WithLabelValues(kind).Inc() }
func IncDecision(decision string) { adminDecisionsTotal.WithLabelValues(decision).Inc() }
func IncPaymentIntent()           { paymentIntentsTotal.Inc() }
func IncSendFailure()             { sendFailuresTotal.Inc() }

func SetLedgerRecords(status string, n int) {
	ledgerRecords.WithLabelValues(status).Set(float64(n))
}
