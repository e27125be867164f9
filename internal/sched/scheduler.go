package sched

import (
	"rtos-scheduler/internal/policy"
	"rtos-scheduler/internal/task"
)

// NoTask marks a tick where no task executed.
const NoTask = -1

// Stats holds the cumulative run counters. Owned and mutated exclusively by
// the Scheduler; read-only for reporting.
type Stats struct {
	Ticks           uint64
	Completions     uint64
	Misses          uint64
	ContextSwitches uint64
}

// Reporter receives statistics snapshots at the configured cadence. Reporting
// happens after a tick's logic completes and never influences decisions.
type Reporter interface {
	Interval(tick uint32, stats Stats)
	Final(tick uint32, stats Stats, tasks []*task.Task)
}

// Scheduler drives the per-tick decision loop over a fixed taskset. One call
// to TickOnce processes exactly one discrete tick; there is no partial-tick
// state. Single-threaded by design: nothing here is safe for concurrent use,
// and nothing needs to be.
type Scheduler struct {
	tasks   []*task.Task
	builder *VectorBuilder
	pol     policy.Policy
	views   []policy.TaskView

	tick    uint32
	current int
	stats   Stats
}

// New creates a scheduler owning the given taskset. The scale must match the
// one the active policy's weights were quantized with.
func New(tasks []*task.Task, pol policy.Policy, scale int32) *Scheduler {
	return &Scheduler{
		tasks:   tasks,
		builder: NewVectorBuilder(tasks, scale),
		pol:     pol,
		views:   make([]policy.TaskView, len(tasks)),
		current: NoTask,
	}
}

// Stats returns a copy of the cumulative counters.
func (s *Scheduler) Stats() Stats { return s.stats }

// Tick returns the current tick counter.
func (s *Scheduler) Tick() uint32 { return s.tick }

// Tasks exposes the taskset for reporting after a run.
func (s *Scheduler) Tasks() []*task.Task { return s.tasks }

// TickOnce processes one tick in strict order: release, deadline check,
// observe, decide, execute, advance. The order matters: releases must be
// visible to the deadline check, and deadline checks must resolve before a
// task can be selected.
func (s *Scheduler) TickOnce() {
	// Release jobs whose period boundary has arrived. The release is
	// anchored to the scheduled boundary, not the current tick, so a
	// release delayed one tick by a just-missed job cannot drift the
	// period grid.
	for _, t := range s.tasks {
		if s.tick >= t.NextRelease && !t.Pending() {
			t.Release(t.NextRelease)
		}
	}

	// Abandon jobs past their absolute deadline.
	for _, t := range s.tasks {
		if t.CheckDeadline(s.tick) {
			s.stats.Misses++
		}
	}

	// Observe.
	state := s.builder.Build(s.tasks, s.tick)
	for i, t := range s.tasks {
		s.views[i] = policy.TaskView{
			Period:      t.Period,
			AbsDeadline: t.AbsDeadline,
			Remaining:   t.Remaining,
			Ready:       t.Pending(),
		}
	}

	// Decide. An action naming a non-ready task is a wasted tick, treated
	// identically to idle.
	action := s.pol.Decide(policy.Request{Tick: s.tick, State: state, Tasks: s.views})

	// Execute.
	ran := NoTask
	if action >= 0 && action < len(s.tasks) && s.tasks[action].Pending() {
		t := s.tasks[action]
		if s.current != NoTask && s.current != action {
			s.stats.ContextSwitches++
		}
		t.State = task.StateRunning
		s.builder.MarkScheduled(action, s.tick)
		if t.ExecuteTick() {
			s.stats.Completions++
		} else {
			t.State = task.StateReady
		}
		ran = action
	}
	s.current = ran

	// Advance.
	s.tick++
	s.stats.Ticks++
}

// Run executes a fixed number of ticks; zero means one hyperperiod. When a
// reporter is set, an interval snapshot is emitted every reportEvery ticks
// and a final one at run end.
func (s *Scheduler) Run(tickCount, reportEvery uint32, rep Reporter) Stats {
	if tickCount == 0 {
		tickCount = s.Hyperperiod()
	}
	for i := uint32(0); i < tickCount; i++ {
		s.TickOnce()
		if rep != nil && reportEvery > 0 && s.tick%reportEvery == 0 {
			rep.Interval(s.tick, s.stats)
		}
	}
	if rep != nil {
		rep.Final(s.tick, s.stats, s.tasks)
	}
	return s.stats
}

// Hyperperiod returns the least common multiple of all task periods: the
// shortest interval after which the whole release pattern repeats.
func (s *Scheduler) Hyperperiod() uint32 {
	h := uint32(1)
	for _, t := range s.tasks {
		h = h / gcd(h, t.Period) * t.Period
	}
	return h
}

func gcd(a, b uint32) uint32 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
