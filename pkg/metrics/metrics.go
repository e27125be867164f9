package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SchedulerMetrics exports run statistics through Prometheus. The scheduler
// core never touches these directly: snapshots are mirrored in at report
// boundaries so the tick loop stays free of observability work.
type SchedulerMetrics struct {
	ticksTotal           prometheus.Counter
	completionsTotal     prometheus.Counter
	deadlineMissesTotal  prometheus.Counter
	contextSwitchesTotal prometheus.Counter
	taskDeadlineMisses   *prometheus.GaugeVec
}

// NewSchedulerMetrics registers the scheduler metric set. Call once per
// process; promauto registers against the default registry.
func NewSchedulerMetrics() *SchedulerMetrics {
	return &SchedulerMetrics{
		ticksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rtos_scheduler_ticks_total",
			Help: "Total scheduler ticks executed",
		}),
		completionsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rtos_scheduler_completions_total",
			Help: "Total jobs completed before their deadline",
		}),
		deadlineMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rtos_scheduler_deadline_misses_total",
			Help: "Total jobs abandoned at their deadline",
		}),
		contextSwitchesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "rtos_scheduler_context_switches_total",
			Help: "Total task-to-task switches between consecutive ticks",
		}),
		taskDeadlineMisses: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rtos_scheduler_task_deadline_misses",
			Help: "Cumulative deadline misses per task",
		}, []string{"task"}),
	}
}

// AddTicks advances the tick counter by n
func (m *SchedulerMetrics) AddTicks(n uint64) {
	m.ticksTotal.Add(float64(n))
}

// AddCompletions advances the completion counter by n
func (m *SchedulerMetrics) AddCompletions(n uint64) {
	m.completionsTotal.Add(float64(n))
}

// AddDeadlineMisses advances the miss counter by n
func (m *SchedulerMetrics) AddDeadlineMisses(n uint64) {
	m.deadlineMissesTotal.Add(float64(n))
}

// AddContextSwitches advances the context switch counter by n
func (m *SchedulerMetrics) AddContextSwitches(n uint64) {
	m.contextSwitchesTotal.Add(float64(n))
}

// SetTaskDeadlineMisses records the cumulative miss count of one task
func (m *SchedulerMetrics) SetTaskDeadlineMisses(taskID string, misses uint32) {
	m.taskDeadlineMisses.WithLabelValues(taskID).Set(float64(misses))
}
