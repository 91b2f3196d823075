// Package metrics registers the Prometheus instruments exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransfersTotal counts transfer attempts by final status
	// (committed, insufficient_funds, rate_unavailable, rejected).
	TransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yalapay_transfers_total",
		Help: "Number of transfer attempts by outcome",
	}, []string{"status"})

	// TransferAmountTotal accumulates committed source amounts per currency.
	TransferAmountTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yalapay_transfer_amount_total",
		Help: "Sum of committed transfer amounts in source currency units",
	}, []string{"currency"})

	// RateProviderRequestsTotal counts upstream rate lookups by provider and outcome.
	RateProviderRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yalapay_rate_provider_requests_total",
		Help: "Number of exchange rate lookups sent to each provider",
	}, []string{"provider", "outcome"})

	// RateFailoversTotal counts automatic active-provider switches after a failure.
	RateFailoversTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "yalapay_rate_provider_failovers_total",
		Help: "Number of automatic failovers to the standby rate provider",
	})

	// EmailsSentTotal counts outbound notification emails by kind and outcome.
	EmailsSentTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "yalapay_emails_sent_total",
		Help: "Number of notification emails by kind and outcome",
	}, []string{"kind", "outcome"})
)
