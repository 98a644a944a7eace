package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Period metrics
	PeriodsOpened      prometheus.Counter
	PeriodsLocked      prometheus.Counter
	Settlements        *prometheus.CounterVec
	SettlementDuration prometheus.Histogram

	// Write metrics
	TransactionsRecorded *prometheus.CounterVec
	WritesRejected       *prometheus.CounterVec

	// Loan metrics
	LoansIssued     prometheus.Counter
	LoansCompleted  prometheus.Counter
	PaymentsApplied prometheus.Counter
	LoanPrincipal   prometheus.Histogram

	// Store metrics
	DBRetries *prometheus.CounterVec

	// Redis metrics
	CacheLookups *prometheus.CounterVec

	// Event metrics
	EventsPublished *prometheus.CounterVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter
}

// New creates and registers all Prometheus metrics with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates all metrics and registers them with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		PeriodsOpened: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_periods_opened_total",
			Help: "Total number of cashbook periods opened",
		}),
		PeriodsLocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_periods_locked_total",
			Help: "Total number of cashbook periods locked",
		}),
		Settlements: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_settlements_total",
				Help: "Total period settlements by result",
			},
			[]string{"result"},
		),
		SettlementDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashbook_settlement_duration_seconds",
			Help:    "Duration of period settlements",
			Buckets: prometheus.DefBuckets,
		}),

		TransactionsRecorded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_transactions_recorded_total",
				Help: "Total expenses and owner transactions recorded by kind",
			},
			[]string{"kind"},
		),
		WritesRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_writes_rejected_total",
				Help: "Total rejected writes by operation and reason",
			},
			[]string{"operation", "reason"},
		),

		LoansIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_loans_issued_total",
			Help: "Total number of loans issued",
		}),
		LoansCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_loans_completed_total",
			Help: "Total number of loans fully repaid",
		}),
		PaymentsApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_payments_applied_total",
			Help: "Total number of loan repayments applied",
		}),
		LoanPrincipal: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "cashbook_loan_principal",
			Help:    "Principal of issued loans",
			Buckets: []float64{1000, 10000, 50000, 100000, 500000, 1000000, 5000000},
		}),

		DBRetries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_db_retries_total",
				Help: "Total transaction retries by postgres error code",
			},
			[]string{"code"},
		),

		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_cache_lookups_total",
				Help: "Total cache lookups by result",
			},
			[]string{"result"},
		),

		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashbook_events_published_total",
				Help: "Total outbox events published by type",
			},
			[]string{"event_type"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "cashbook_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),
	}
}
