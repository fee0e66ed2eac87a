package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DealMetrics holds the prometheus instruments for the deal lifecycle and
// the rate refresh pipeline.
type DealMetrics struct {
	DealsCreatedTotal   prometheus.Counter
	DealsCompletedTotal prometheus.Counter
	DealsRejectedTotal  prometheus.Counter
	DealsExpiredTotal   prometheus.Counter
	RateRefreshesTotal  *prometheus.CounterVec
}

// NewDealMetrics registers the deal metrics with the default registerer.
func NewDealMetrics() *DealMetrics {
	return NewDealMetricsWith(prometheus.DefaultRegisterer)
}

// NewDealMetricsWith registers and returns the deal metrics using the given
// registerer.
func NewDealMetricsWith(reg prometheus.Registerer) *DealMetrics {
	factory := promauto.With(reg)
	return &DealMetrics{
		DealsCreatedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "exchange_deals_created_total",
			Help: "Total number of exchange deals created",
		}),
		DealsCompletedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "exchange_deals_completed_total",
			Help: "Total number of exchange deals confirmed by callers",
		}),
		DealsRejectedTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "exchange_deals_rejected_total",
			Help: "Total number of exchange deals rejected by callers",
		}),
		DealsExpiredTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "exchange_deals_expired_total",
			Help: "Total number of pending deals rejected by the expiry sweep",
		}),
		RateRefreshesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rate_refreshes_total",
			Help: "Total number of rate refresh attempts by outcome",
		}, []string{"outcome"}),
	}
}
