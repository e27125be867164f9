package task

import "fmt"

// State represents the lifecycle state of a periodic task.
// Blocked exists for lifecycle completeness; no resource contention is
// modeled, so the scheduler never enters it.
type State int

const (
	StateReady State = iota
	StateRunning
	StateBlocked
	StateCompleted
)

// String returns a human-readable state name
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateBlocked:
		return "blocked"
	case StateCompleted:
		return "completed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Task represents one periodic real-time workload slot. All time quantities
// are expressed in ticks. A "job" is one instance of the task's work, created
// at release and ended by completion or deadline miss.
type Task struct {
	ID       int
	Period   uint32
	Deadline uint32 // relative deadline, ticks after release
	WCET     uint32 // worst-case execution time per job

	Remaining   uint32 // work left on the current job, 0 when no job pending
	NextRelease uint32 // absolute tick of the next job release
	AbsDeadline uint32 // absolute tick the current job must finish by
	State       State

	Misses   uint32 // cumulative deadline misses, never decreases
	Releases uint32 // cumulative jobs released
}

// New creates a task with no pending job. The first release happens at tick 0.
func New(id int, period, deadline, wcet uint32) *Task {
	return &Task{
		ID:       id,
		Period:   period,
		Deadline: deadline,
		WCET:     wcet,
		State:    StateCompleted,
	}
}

// Pending reports whether the task has an unfinished job.
func (t *Task) Pending() bool {
	return t.Remaining > 0
}

// Release creates a new job of this task. Valid only when no job is pending.
// Sets remaining work to WCET and computes the absolute deadline from the
// release tick.
func (t *Task) Release(tick uint32) {
	t.Remaining = t.WCET
	t.AbsDeadline = tick + t.Deadline
	t.NextRelease = tick + t.Period
	t.State = StateReady
	t.Releases++
}

// ExecuteTick consumes one tick of the current job's work, saturating at
// zero. Returns true when the job just completed.
func (t *Task) ExecuteTick() bool {
	if t.Remaining == 0 {
		return false
	}
	t.Remaining--
	if t.Remaining == 0 {
		t.State = StateCompleted
		return true
	}
	return false
}

// CheckDeadline abandons the current job when it is past due: remaining work
// is forced to zero and the miss counter advances. There is no job carry-over.
// Returns true on a miss.
func (t *Task) CheckDeadline(tick uint32) bool {
	if t.Remaining > 0 && tick >= t.AbsDeadline {
		t.Misses++
		t.Remaining = 0
		t.State = StateCompleted
		return true
	}
	return false
}
