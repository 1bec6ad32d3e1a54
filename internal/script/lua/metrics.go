// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package lua

import "github.com/prometheus/client_golang/prometheus"

// Outcome label values for ScriptCalls.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// ScriptCalls counts on_notification invocations by script and outcome.
// Use RegisterMetrics to register this with a Prometheus registry.
var ScriptCalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "npcbridge_script_calls_total",
		Help: "Total number of script notification handler calls",
	},
	[]string{"script", "outcome"},
)

// RegisterMetrics registers script host metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(ScriptCalls)
}

func recordCall(script, outcome string) {
	ScriptCalls.WithLabelValues(script, outcome).Inc()
}
