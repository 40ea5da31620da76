package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const gatewayRequestsName = "weatherdash_gateway_requests_total"

var (
	GatewayRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: gatewayRequestsName,
			Help: "Total calls made to the backend gateway",
		},
		[]string{"operation", "status"},
	)

	GatewayRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherdash_gateway_request_duration_seconds",
			Help:    "Gateway call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	WeatherRowsLoaded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weatherdash_weather_rows_loaded_total",
			Help: "Total weather rows loaded into dashboard working sets",
		},
	)

	SupersededLoads = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "weatherdash_superseded_loads_total",
			Help: "Dashboard loads discarded because a newer load started",
		},
	)

	AccessDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherdash_access_denied_total",
			Help: "Requests rejected by role gating",
		},
		[]string{"required_role"},
	)
)

// GatewayCallsServed sums the gateway request counter across all labels.
func GatewayCallsServed() (float64, error) {
	return counterTotal(prometheus.DefaultGatherer, gatewayRequestsName)
}

func counterTotal(g prometheus.Gatherer, name string) (float64, error) {
	families, err := g.Gather()
	if err != nil {
		return 0, err
	}
	var total float64
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			total += m.GetCounter().GetValue()
		}
	}
	return total, nil
}
