package service

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogUseCaseObserver_WritesStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     useCaseApplySync,
		Duration: 12 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"plan_id": "p1"},
	})
	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name: useCaseApplySync,
		Err:  errors.New("version conflict"),
	})

	out := buf.String()
	assert.Contains(t, out, "level=INFO msg=service_use_case use_case=apply-sync duration_ms=12 success=true plan_id=p1")
	assert.Contains(t, out, `level=ERROR msg=service_use_case use_case=apply-sync duration_ms=0 success=false error="version conflict"`)
}

func TestLeveledLogUseCaseObserver_FiltersInfo(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLeveledLogUseCaseObserver(&buf, slog.LevelError)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "quiet", Success: true})
	assert.Empty(t, buf.String())

	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "loud", Err: errors.New("boom")})
	assert.Contains(t, buf.String(), "use_case=loud")
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop([]UseCaseObserver{nil}))

	a, b := &recordingObserver{}, &recordingObserver{}
	assert.Same(t, a, useCaseObserverOrNoop([]UseCaseObserver{nil, a}))

	fan := useCaseObserverOrNoop([]UseCaseObserver{a, nil, b})
	fan.ObserveUseCase(context.Background(), UseCaseEvent{Name: "x"})
	assert.Len(t, a.byName("x"), 1)
	assert.Len(t, b.byName("x"), 1)
}

func TestNewLogUseCaseObserver_NilWriter(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))
}

func TestMetricsUseCaseObserver(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetricsUseCaseObserver(reg)
	require.NoError(t, err)

	ctx := context.Background()
	m.ObserveUseCase(ctx, UseCaseEvent{Name: useCaseApplySync, Success: true, Duration: time.Millisecond,
		Fields: map[string]any{"applied_added": 2, "applied_removed": 0, "applied_modified": 1}})
	m.ObserveUseCase(ctx, UseCaseEvent{Name: useCaseApplySync, Success: false, Err: errors.New("x"),
		Fields: map[string]any{"applied_added": 9}})
	m.ObserveUseCase(ctx, UseCaseEvent{Name: useCaseCheckDivergence, Success: true})

	assert.Equal(t, 1.0, promtest.ToFloat64(m.calls.WithLabelValues(useCaseApplySync, "true")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.calls.WithLabelValues(useCaseApplySync, "false")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.calls.WithLabelValues(useCaseCheckDivergence, "true")))
	assert.Equal(t, 2.0, promtest.ToFloat64(m.applied.WithLabelValues("added")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.applied.WithLabelValues("modified")))
	assert.Equal(t, 0.0, promtest.ToFloat64(m.applied.WithLabelValues("removed")))

	// A second observer on the same registry shares the collectors.
	again, err := NewMetricsUseCaseObserver(reg)
	require.NoError(t, err)
	again.ObserveUseCase(ctx, UseCaseEvent{Name: useCaseCheckDivergence, Success: true})
	assert.Equal(t, 2.0, promtest.ToFloat64(m.calls.WithLabelValues(useCaseCheckDivergence, "true")))
}
