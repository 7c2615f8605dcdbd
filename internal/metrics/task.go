// Package metrics exposes Prometheus instrumentation for sequence tasks and
// a runtime memory snapshot.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Task outcomes used as the "outcome" label of fibseq_tasks_total.
const (
	OutcomeCompleted = "completed"
	OutcomeNoWork    = "no_work"
	OutcomeCanceled  = "canceled"
	OutcomeFailed    = "failed"
)

// TaskMetrics records task activity on a private registry, so several
// instances can coexist in one process (tests, embedded use).
type TaskMetrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	tasksTotal      *prometheus.CounterVec
	valuesGenerated prometheus.Counter
	valuesEmitted   prometheus.Counter
	taskDuration    prometheus.Histogram
	activeTasks     prometheus.Gauge
	heapAlloc       prometheus.Gauge
}

// NewTaskMetrics creates and registers the fibseq collectors together with
// the Go runtime and process collectors.
func NewTaskMetrics() *TaskMetrics {
	reg := prometheus.NewRegistry()
	m := &TaskMetrics{
		registry: reg,
		tasksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fibseq_tasks_total",
			Help: "Number of finished sequence tasks by outcome.",
		}, []string{"outcome"}),
		valuesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fibseq_values_generated_total",
			Help: "Sequence values materialized before filtering.",
		}),
		valuesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fibseq_values_emitted_total",
			Help: "Sequence values delivered in result events.",
		}),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fibseq_task_duration_seconds",
			Help:    "Wall time of sequence tasks.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		activeTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fibseq_active_tasks",
			Help: "Sequence tasks currently running.",
		}),
		heapAlloc: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fibseq_heap_alloc_bytes",
			Help: "Live heap bytes sampled when the last task finished.",
		}),
	}
	reg.MustRegister(
		m.tasksTotal, m.valuesGenerated, m.valuesEmitted,
		m.taskDuration, m.activeTasks, m.heapAlloc,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// TaskStarted marks a task as running.
func (m *TaskMetrics) TaskStarted() {
	m.activeTasks.Inc()
}

// TaskFinished records the end of a task.
func (m *TaskMetrics) TaskFinished(outcome string, elapsed time.Duration, generated, emitted int) {
	m.activeTasks.Dec()
	m.tasksTotal.WithLabelValues(outcome).Inc()
	m.taskDuration.Observe(elapsed.Seconds())
	m.valuesGenerated.Add(float64(generated))
	m.valuesEmitted.Add(float64(emitted))
	m.heapAlloc.Set(float64(ReadMemory().HeapAlloc))
}

// Registry returns the underlying registry.
func (m *TaskMetrics) Registry() *prometheus.Registry { return m.registry }

// Handler returns the /metrics handler.
func (m *TaskMetrics) Handler() http.Handler { return m.handler }

// WritePrometheus serves the current metrics in the Prometheus text format.
func (m *TaskMetrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

// Serve exposes /metrics on addr until ctx is done.
func (m *TaskMetrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.handler)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
