package service

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsUseCaseObserver exports use-case counts and latencies to Prometheus.
type MetricsUseCaseObserver struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
	applied  *prometheus.CounterVec
}

// NewMetricsUseCaseObserver registers the use-case collectors on reg.
func NewMetricsUseCaseObserver(reg prometheus.Registerer) (*MetricsUseCaseObserver, error) {
	m := &MetricsUseCaseObserver{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biensperience",
			Name:      "use_case_total",
			Help:      "Service use cases executed, by outcome.",
		}, []string{"use_case", "success"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "biensperience",
			Name:      "use_case_duration_seconds",
			Help:      "Service use case latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"use_case"}),
		applied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "biensperience",
			Name:      "sync_entries_applied_total",
			Help:      "Changeset entries applied to plans, by kind.",
		}, []string{"kind"}),
	}
	var err error
	if m.calls, err = registerOrReuse(reg, m.calls); err != nil {
		return nil, err
	}
	if m.duration, err = registerOrReuse(reg, m.duration); err != nil {
		return nil, err
	}
	if m.applied, err = registerOrReuse(reg, m.applied); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *MetricsUseCaseObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	success := "false"
	if event.Success {
		success = "true"
	}
	m.calls.WithLabelValues(event.Name, success).Inc()
	m.duration.WithLabelValues(event.Name).Observe(event.Duration.Seconds())

	if event.Name != useCaseApplySync || !event.Success {
		return
	}
	for _, kind := range []string{"added", "removed", "modified"} {
		if n, ok := event.Fields["applied_"+kind].(int); ok && n > 0 {
			m.applied.WithLabelValues(kind).Add(float64(n))
		}
	}
}

// registerOrReuse registers c, or returns the identical collector already on reg.
func registerOrReuse[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}
