package report

import (
	"strconv"

	"rtos-scheduler/internal/sched"
	"rtos-scheduler/internal/task"
	"rtos-scheduler/pkg/logger"
	"rtos-scheduler/pkg/metrics"

	"github.com/sirupsen/logrus"
)

// LogReporter emits run statistics through the structured logger. Only the
// reported values are contractual; formatting is presentation.
type LogReporter struct {
	log *logrus.Logger
}

// NewLogReporter creates a reporter backed by the global logger.
func NewLogReporter() *LogReporter {
	return &LogReporter{log: logger.GetLogger()}
}

// Interval logs a progress snapshot.
func (r *LogReporter) Interval(tick uint32, stats sched.Stats) {
	r.log.WithFields(logrus.Fields{
		"tick":             tick,
		"misses":           stats.Misses,
		"completions":      stats.Completions,
		"context_switches": stats.ContextSwitches,
	}).Info("run progress")
}

// Final logs the run summary including per-task miss counts.
func (r *LogReporter) Final(tick uint32, stats sched.Stats, tasks []*task.Task) {
	r.log.WithFields(logrus.Fields{
		"ticks":            stats.Ticks,
		"completions":      stats.Completions,
		"misses":           stats.Misses,
		"context_switches": stats.ContextSwitches,
	}).Info("run complete")
	for _, t := range tasks {
		r.log.WithFields(logrus.Fields{
			"task":     t.ID,
			"period":   t.Period,
			"releases": t.Releases,
			"misses":   t.Misses,
		}).Info("task summary")
	}
}

// MetricsReporter mirrors statistics snapshots into Prometheus. Counters
// receive deltas against the previous snapshot so cumulative scheduler
// counters map cleanly onto Prometheus counter semantics.
type MetricsReporter struct {
	m    *metrics.SchedulerMetrics
	last sched.Stats
}

// NewMetricsReporter creates a reporter feeding the given metric set.
func NewMetricsReporter(m *metrics.SchedulerMetrics) *MetricsReporter {
	return &MetricsReporter{m: m}
}

// Interval pushes the delta since the previous snapshot.
func (r *MetricsReporter) Interval(tick uint32, stats sched.Stats) {
	r.push(stats)
}

// Final pushes the remaining delta and the per-task miss gauges.
func (r *MetricsReporter) Final(tick uint32, stats sched.Stats, tasks []*task.Task) {
	r.push(stats)
	for _, t := range tasks {
		r.m.SetTaskDeadlineMisses(strconv.Itoa(t.ID), t.Misses)
	}
}

func (r *MetricsReporter) push(stats sched.Stats) {
	r.m.AddTicks(stats.Ticks - r.last.Ticks)
	r.m.AddCompletions(stats.Completions - r.last.Completions)
	r.m.AddDeadlineMisses(stats.Misses - r.last.Misses)
	r.m.AddContextSwitches(stats.ContextSwitches - r.last.ContextSwitches)
	r.last = stats
}

// MultiReporter fans a snapshot out to several reporters.
type MultiReporter []sched.Reporter

// Interval forwards to every reporter.
func (mr MultiReporter) Interval(tick uint32, stats sched.Stats) {
	for _, r := range mr {
		r.Interval(tick, stats)
	}
}

// Final forwards to every reporter.
func (mr MultiReporter) Final(tick uint32, stats sched.Stats, tasks []*task.Task) {
	for _, r := range mr {
		r.Final(tick, stats, tasks)
	}
}
