// Package metrics provides Prometheus instrumentation for the risk pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mikey/mailrisk/internal/core"
)

// RiskServedTotal counts served assessments by risk level.
var RiskServedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "mailrisk",
		Name:      "risk_served_total",
		Help:      "Total risk assessments served, by risk level.",
	},
	[]string{"level"},
)

// Register registers the package collectors with a registry; a nil registry
// means the default one. Call once at startup; re-registration is tolerated
// so tests can rebuild the container.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if err := reg.Register(RiskServedTotal); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// Handler returns the HTTP handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Recorder implements the MetricsEmitter port. Emission is advisory: any
// internal failure is logged at debug level and swallowed, never surfaced
// to the assessment request.
type Recorder struct {
	logger *zap.Logger
}

// NewRecorder creates a metrics recorder.
func NewRecorder(logger *zap.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// ServedAssessment increments the served counter for a level.
func (r *Recorder) ServedAssessment(level core.RiskLevel) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Debug("Failed to emit risk metric", zap.Any("panic", rec))
		}
	}()
	RiskServedTotal.WithLabelValues(string(level)).Inc()
}
