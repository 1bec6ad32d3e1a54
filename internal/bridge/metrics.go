// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome label values for NotificationsTotal.
const (
	OutcomeDispatched = "dispatched"
	OutcomeDropped    = "dropped"
	OutcomeVetoed     = "vetoed"
	OutcomeFailed     = "failed"
)

// NotificationsTotal counts routed native events by kind and outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var NotificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "npcbridge_notifications_total",
		Help: "Total number of native events routed, by kind and outcome",
	},
	[]string{"kind", "outcome"},
)

// LiveEntities tracks the number of live handles per entity kind.
// Use RegisterMetrics to register this with a Prometheus registry.
var LiveEntities = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "npcbridge_live_entities",
		Help: "Number of live entity handles by entity kind",
	},
	[]string{"entity"},
)

// RegisterMetrics registers bridge metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(NotificationsTotal)
	reg.MustRegister(LiveEntities)
}

func recordNotification(kind, outcome string) {
	NotificationsTotal.WithLabelValues(kind, outcome).Inc()
}

func recordLive(entity string, live int) {
	LiveEntities.WithLabelValues(entity).Set(float64(live))
}
