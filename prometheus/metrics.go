package prometheus

import (
	"storefront-service/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Order metrics
	OrdersReceivedCounter *prometheus.CounterVec
	OrderSaveFailures     prometheus.Counter

	// Remote sync metrics
	SyncPullsTotal     *prometheus.CounterVec
	SyncPushesTotal    *prometheus.CounterVec
	SyncConflictsTotal prometheus.Counter

	// Notification metrics
	EmailNotificationsTotal *prometheus.CounterVec

	// Inventory metrics
	ProductInventoryGauge *prometheus.GaugeVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Order metrics
	OrdersReceivedCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_orders_received_total",
			Help: "Total number of orders received",
		},
		[]string{"channel"},
	)

	OrderSaveFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_order_save_failures_total",
			Help: "Total number of orders that could not be saved",
		},
	)

	// Remote sync metrics
	SyncPullsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sync_pulls_total",
			Help: "Total number of remote snapshot pulls",
		},
		[]string{"result"},
	)

	SyncPushesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_sync_pushes_total",
			Help: "Total number of remote snapshot pushes",
		},
		[]string{"result"},
	)

	SyncConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: prefix + "_sync_conflicts_total",
			Help: "Total number of conditional writes rejected by the content store",
		},
	)

	// Notification metrics
	EmailNotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_email_notifications_total",
			Help: "Total number of admin e-mail notification attempts",
		},
		[]string{"result"},
	)

	// Inventory metrics
	ProductInventoryGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_inventory",
			Help: "Current total inventory level for products",
		},
		[]string{"product_id", "product_name", "category"},
	)
}

// RecordOrderReceived increments the counter for received orders
func RecordOrderReceived(channel string) {
	if OrdersReceivedCounter != nil {
		OrdersReceivedCounter.WithLabelValues(channel).Inc()
	}
}

// RecordOrderSaveFailure increments the counter for failed order saves
func RecordOrderSaveFailure() {
	if OrderSaveFailures != nil {
		OrderSaveFailures.Inc()
	}
}

// RecordSyncPull increments the pull counter with the given result
func RecordSyncPull(result string) {
	if SyncPullsTotal != nil {
		SyncPullsTotal.WithLabelValues(result).Inc()
	}
}

// RecordSyncPush increments the push counter with the given result
func RecordSyncPush(result string) {
	if SyncPushesTotal != nil {
		SyncPushesTotal.WithLabelValues(result).Inc()
	}
}

// RecordSyncConflict increments the conditional-write conflict counter
func RecordSyncConflict() {
	if SyncConflictsTotal != nil {
		SyncConflictsTotal.Inc()
	}
}

// RecordEmailNotification increments the e-mail notification counter
func RecordEmailNotification(result string) {
	if EmailNotificationsTotal != nil {
		EmailNotificationsTotal.WithLabelValues(result).Inc()
	}
}

// UpdateProductInventory updates the gauge for product inventory
func UpdateProductInventory(productID string, productName string, category string, count float64) {
	if ProductInventoryGauge != nil {
		ProductInventoryGauge.WithLabelValues(productID, productName, category).Set(count)
	}
}
