package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// relayEvents counts relay invocations by terminal disposition.
	relayEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_events_total",
			Help: "Relay invocations by disposition.",
		},
		[]string{"disposition"},
	)

	// relayDeliveries counts sink deliveries by kind (announcement|alert) and result (ok|error).
	relayDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_deliveries_total",
			Help: "Notification sink deliveries by kind and result.",
		},
		[]string{"kind", "result"},
	)

	// tokenDead is 1 while the provider credential is rejected.
	tokenDead = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "provider_token_dead",
			Help: "1 when the provider credential is currently rejected, else 0.",
		},
	)
)

func init() {
	prometheus.MustRegister(relayEvents, relayDeliveries, tokenDead)
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
