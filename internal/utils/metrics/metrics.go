package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// VerificationIssuedTotal counts issued verification codes by flow.
	VerificationIssuedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "megamarket_verification_issued_total",
		Help: "The total number of verification codes issued",
	}, []string{"flow", "status"})

	// VerificationConsumeTotal counts consumption attempts.
	VerificationConsumeTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "megamarket_verification_consume_total",
		Help: "The total number of verification code consumption attempts",
	}, []string{"status"})

	// VerificationSweptTotal counts expired codes removed by the sweep.
	VerificationSweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "megamarket_verification_swept_total",
		Help: "The total number of expired verification codes deleted",
	})

	// ImageOperationsTotal counts image lifecycle resolutions by action.
	ImageOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "megamarket_image_operations_total",
		Help: "The total number of image lifecycle operations",
	}, []string{"action", "status"})

	// StorageDestroyTotal counts remote object destroy calls.
	StorageDestroyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "megamarket_storage_destroy_total",
		Help: "The total number of remote storage destroy calls",
	}, []string{"provider", "status"})

	// EmailsSentTotal counts outbound emails.
	EmailsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "megamarket_emails_sent_total",
		Help: "The total number of outbound emails",
	}, []string{"status"})
)
