package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CartActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_actions_total",
		Help: "Total number of cart actions applied",
	}, []string{"action"})

	CheckoutSessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "checkout_sessions_created_total",
		Help: "Total number of checkout sessions created",
	})

	CheckoutFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_failed_total",
		Help: "Total number of failed checkout attempts",
	}, []string{"reason"})

	CheckoutSessionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_session_latency_seconds",
		Help:    "Latency of checkout session creation",
		Buckets: prometheus.DefBuckets,
	})

	FulfillmentsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillments_total",
		Help: "Total number of sessions fulfilled",
	})

	FulfillmentDuplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fulfillment_duplicates_total",
		Help: "Total number of duplicate fulfillment observations",
	})

	FulfillmentRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fulfillment_rejected_total",
		Help: "Total number of rejected fulfillment attempts",
	}, []string{"reason"})

	NotificationsSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Total number of order notifications delivered",
	})

	NotificationsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notifications_failed_total",
		Help: "Total number of order notifications that failed",
	})

	OrdersArchivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_archived_total",
		Help: "Total number of fulfilled orders archived to the database",
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
