package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_orders_created_total",
		Help: "Total number of orders submitted",
	})

	OrdersRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_orders_rejected_total",
		Help: "Total number of rejected order submissions",
	}, []string{"reason"})

	PaymentsRecordedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_payments_recorded_total",
		Help: "Total number of payments recorded",
	}, []string{"method"})

	PaymentsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_payments_rejected_total",
		Help: "Total number of rejected payments",
	}, []string{"reason"})

	PaymentAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_payment_amount_total",
		Help: "Sum of recorded payment amounts",
	})

	TransitionsAppliedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_status_transitions_total",
		Help: "Total number of applied status transitions",
	}, []string{"to"})

	TransitionsRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pos_status_transitions_rejected_total",
		Help: "Total number of rejected status transitions",
	}, []string{"reason"})

	OrdersExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pos_orders_expired_total",
		Help: "Total number of pending_dp orders expired by the sweep",
	})

	ReportBuildLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pos_finance_report_build_seconds",
		Help:    "Latency of finance report aggregation",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
