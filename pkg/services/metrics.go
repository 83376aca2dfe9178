package services

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var buildBuckets = []float64{10, 30, 60, 120, 300, 600, 1200}

// Metrics records deploy and activation outcomes. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	deploysTotal     *prometheus.CounterVec
	deployDuration   *prometheus.HistogramVec
	activationsTotal *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		deploysTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontend_deploy",
			Subsystem: "pipeline",
			Name:      "runs_total",
			Help:      "Count of recorded deploy attempts",
		}, []string{"app", "env", "status"}),
		deployDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "frontend_deploy",
			Subsystem: "pipeline",
			Name:      "run_duration_seconds",
			Help:      "Duration of deploy attempts",
			Buckets:   buildBuckets,
		}, []string{"app", "env", "status"}),
		activationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "frontend_deploy",
			Subsystem: "activation",
			Name:      "requests_total",
			Help:      "Count of activation requests by result",
		}, []string{"app", "env", "result"}),
	}
	if reg == nil {
		return m
	}

	m.deploysTotal = registerCounterVec(reg, m.deploysTotal)
	m.activationsTotal = registerCounterVec(reg, m.activationsTotal)
	if err := reg.Register(m.deployDuration); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				m.deployDuration = existing
			}
		}
	}
	return m
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) *prometheus.CounterVec {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing
			}
		}
	}
	return c
}

func (m *Metrics) recordDeploy(app, env, status string, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"app": app, "env": env, "status": status}
	m.deploysTotal.With(labels).Inc()
	m.deployDuration.With(labels).Observe(duration.Seconds())
}

func (m *Metrics) recordActivation(app, env, result string) {
	if m == nil {
		return
	}
	m.activationsTotal.With(prometheus.Labels{"app": app, "env": env, "result": result}).Inc()
}
