package services

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

var (
	transfersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "wallet_transfers_total",
			Help: "Total number of wallet-to-wallet transfers by outcome",
		},
		[]string{"status"},
	)

	transferDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "wallet_transfer_duration_seconds",
			Help:    "Duration of wallet transfers including lock waits",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
		},
		[]string{"status"},
	)

	transferredAmount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_transferred_amount_total",
			Help: "Sum of amounts moved by successful transfers",
		},
	)

	notifyErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "wallet_transfer_notify_errors_total",
			Help: "Total number of failed post-transfer notifications",
		},
	)
)

// outcome labels a transfer result for metrics.
func outcome(err error) string {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		fundsErr      *InsufficientFundsError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &validationErr):
		return "validation_error"
	case errors.As(err, &notFoundErr):
		return "not_found"
	case errors.As(err, &fundsErr):
		return "insufficient_funds"
	default:
		return "storage_error"
	}
}

func observeTransfer(err error, amount decimal.Decimal, started time.Time) {
	status := outcome(err)
	transfersTotal.WithLabelValues(status).Inc()
	transferDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
	if err == nil {
		transferredAmount.Add(amount.InexactFloat64())
	}
}
