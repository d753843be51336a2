package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Posting metrics
	JournalsPosted  prometheus.Counter
	JournalRejects  *prometheus.CounterVec
	PostingDuration prometheus.Histogram
	JournalAmount   prometheus.Histogram

	// Reconciliation metrics
	Reconciliations        prometheus.Counter
	ReconcileCompensations prometheus.Counter
	ReconcileErrors        *prometheus.CounterVec
	SuggestionsServed      prometheus.Counter

	// Period and reminder metrics
	PeriodsCreated   prometheus.Counter
	RemindersCreated prometheus.Counter
	RemindersOverdue prometheus.Counter
	PostingsLocked   prometheus.Counter

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Database metrics
	DBQueries     *prometheus.CounterVec
	DBDuration    *prometheus.HistogramVec
	DBConnections prometheus.Gauge
	DBErrors      *prometheus.CounterVec

	// Authentication metrics
	AuthAttempts *prometheus.CounterVec
	AuthFailures *prometheus.CounterVec

	// Audit metrics
	AuditLogsCreated *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		// Posting metrics
		JournalsPosted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propledger_journals_posted_total",
			Help: "Total number of journals posted",
		}),
		JournalRejects: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propledger_journal_rejects_total",
				Help: "Total number of journals rejected by reason",
			},
			[]string{"reason"},
		),
		PostingDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "propledger_posting_duration_seconds",
			Help:    "Duration of journal posting operations",
			Buckets: prometheus.DefBuckets,
		}),
		JournalAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "propledger_journal_amount",
			Help:    "Total debit amount per posted journal",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),

		// Reconciliation metrics
		Reconciliations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propledger_reconciliations_total",
			Help: "Total number of bank transactions reconciled",
		}),
		ReconcileCompensations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propledger_reconcile_compensations_total",
			Help: "Total number of reconciliations rolled back after a failed posting",
		}),
		ReconcileErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propledger_reconcile_errors_total",
				Help: "Total number of reconciliation errors by type",
			},
			[]string{"error_type"},
		),
		SuggestionsServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propledger_match_suggestions_total",
			Help: "Total number of match suggestion requests served",
		}),

		// Period and reminder metrics
		PeriodsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propledger_periods_created_total",
			Help: "Total number of accounting periods created",
		}),
		RemindersCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propledger_reminders_created_total",
			Help: "Total number of reminders created",
		}),
		RemindersOverdue: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propledger_reminders_overdue_total",
			Help: "Total number of reminders swept to overdue",
		}),
		PostingsLocked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "propledger_postings_locked_total",
			Help: "Total number of postings rejected by a locked period",
		}),

		// API metrics
		HTTPRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propledger_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "propledger_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		// Database metrics
		DBQueries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propledger_db_queries_total",
				Help: "Total database queries",
			},
			[]string{"operation", "table"},
		),
		DBDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "propledger_db_query_duration_seconds",
				Help:    "Database query duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "table"},
		),
		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "propledger_db_connections",
			Help: "Current number of database connections",
		}),
		DBErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propledger_db_errors_total",
				Help: "Total database errors",
			},
			[]string{"operation"},
		),

		// Authentication metrics
		AuthAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propledger_auth_attempts_total",
				Help: "Total authentication attempts",
			},
			[]string{"status"},
		),
		AuthFailures: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propledger_auth_failures_total",
				Help: "Total authentication failures",
			},
			[]string{"reason"},
		),

		// Audit metrics
		AuditLogsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "propledger_audit_logs_total",
				Help: "Total audit logs created",
			},
			[]string{"action", "status"},
		),
	}
}
