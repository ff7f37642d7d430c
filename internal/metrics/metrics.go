// Package metrics exposes run statistics as Prometheus metrics.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mspec/internal/domain"
)

const (
	MetricsNamespace = "mspec"
)

var (
	specificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "specifications_total",
		Help:      "Count of executed specifications",
	}, []string{
		"assembly",
		"result",
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "runs_total",
		Help:      "Count of assembly runs by verdict",
	}, []string{
		"result",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Duration of the last run of an assembly",
	}, []string{
		"assembly",
	})
)

// RecordRun records the outcome of running one assembly
func RecordRun(assembly string, state domain.RunState, results []domain.TestResult, duration time.Duration) {
	for _, r := range results {
		specificationsTotal.WithLabelValues(assembly, r.State.String()).Inc()
	}
	runsTotal.WithLabelValues(label(state)).Inc()
	runDuration.WithLabelValues(assembly).Set(duration.Seconds())
}

// WriteTextfile writes every registered metric to path in the text exposition
// format, for pickup by a node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}

func label(state domain.RunState) string {
	if state == domain.RunStateNoTests {
		return "no_tests"
	}
	return state.String()
}
