package sched

import (
	"rtos-scheduler/internal/task"
)

// FeaturesPerTask is the width of each task's slice of the state vector:
// time-to-deadline, time-since-scheduled, remaining work, readiness.
const FeaturesPerTask = 4

// VectorBuilder produces the fixed-width Q-scaled observation consumed by
// decision policies. The normalization constants (max deadline and max
// period over the taskset) are fixed at construction: they are part of the
// contract with the training-side exporter and must never be recomputed
// mid-run. The vector buffer is allocated once and rebuilt in place every
// tick.
type VectorBuilder struct {
	scale       int32
	maxDeadline uint32
	maxPeriod   uint32
	lastRun     []int64
	vec         []int32
}

// NewVectorBuilder derives normalization constants from the taskset and
// allocates the observation buffer.
func NewVectorBuilder(tasks []*task.Task, scale int32) *VectorBuilder {
	b := &VectorBuilder{
		scale:       scale,
		maxDeadline: 1,
		maxPeriod:   1,
		lastRun:     make([]int64, len(tasks)),
		vec:         make([]int32, len(tasks)*FeaturesPerTask),
	}
	for i, t := range tasks {
		if t.Deadline > b.maxDeadline {
			b.maxDeadline = t.Deadline
		}
		if t.Period > b.maxPeriod {
			b.maxPeriod = t.Period
		}
		b.lastRun[i] = -1
	}
	return b
}

// MarkScheduled records that the task executed at the given tick; it feeds
// the time-since-scheduled feature.
func (b *VectorBuilder) MarkScheduled(id int, tick uint32) {
	b.lastRun[id] = int64(tick)
}

// Build refreshes the observation from the taskset. A task with no pending
// job contributes all zeros, matching the training-time convention, so the
// learned weighting naturally ignores idle slots. Every feature is clamped
// to [0, scale].
func (b *VectorBuilder) Build(tasks []*task.Task, tick uint32) []int32 {
	for i, t := range tasks {
		base := i * FeaturesPerTask
		b.vec[base] = 0
		b.vec[base+1] = 0
		b.vec[base+2] = 0
		b.vec[base+3] = 0
		if !t.Pending() {
			continue
		}

		var ttd int64
		if t.AbsDeadline > tick {
			ttd = int64(t.AbsDeadline-tick) * int64(b.scale) / int64(b.maxDeadline)
		}
		b.vec[base] = b.clampQ(ttd)

		since := int64(b.maxPeriod)
		if b.lastRun[i] >= 0 {
			since = int64(tick) - b.lastRun[i]
		}
		b.vec[base+1] = b.clampQ(since * int64(b.scale) / int64(b.maxPeriod))

		b.vec[base+2] = b.clampQ(int64(t.Remaining) * int64(b.scale) / int64(t.WCET))

		b.vec[base+3] = b.scale
	}
	return b.vec
}

func (b *VectorBuilder) clampQ(v int64) int32 {
	if v < 0 {
		return 0
	}
	if v > int64(b.scale) {
		return b.scale
	}
	return int32(v)
}
