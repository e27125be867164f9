package sched

import (
	"testing"

	"rtos-scheduler/internal/task"
)

const testScale = 1024

func TestBuildZeroesIdleTasks(t *testing.T) {
	tasks := []*task.Task{
		task.New(0, 10, 10, 2),
		task.New(1, 20, 20, 4),
	}
	b := NewVectorBuilder(tasks, testScale)

	// Task 1 ran at some point but has no pending job now; every one of
	// its features must still read zero.
	b.MarkScheduled(1, 3)

	tasks[0].Release(0)
	vec := b.Build(tasks, 5)

	for f := 0; f < FeaturesPerTask; f++ {
		if vec[FeaturesPerTask+f] != 0 {
			t.Errorf("idle task feature %d = %d, want 0", f, vec[FeaturesPerTask+f])
		}
	}
	if vec[3] != testScale {
		t.Errorf("ready task is_ready = %d, want %d", vec[3], testScale)
	}
}

func TestBuildFeatureValues(t *testing.T) {
	// Normalization constants: max deadline 20, max period 20.
	tasks := []*task.Task{
		task.New(0, 10, 10, 4),
		task.New(1, 20, 20, 4),
	}
	b := NewVectorBuilder(tasks, testScale)

	tasks[0].Release(0)
	tasks[0].ExecuteTick()
	tasks[0].ExecuteTick()
	b.MarkScheduled(0, 1)

	vec := b.Build(tasks, 5)

	// time_to_deadline: (10-5)/20 = 0.25 -> 256
	if vec[0] != 256 {
		t.Errorf("time_to_deadline = %d, want 256", vec[0])
	}
	// time_since_scheduled: (5-1)/20 = 0.2 -> 204 (truncating)
	if vec[1] != 204 {
		t.Errorf("time_since_scheduled = %d, want 204", vec[1])
	}
	// remaining/wcet: 2/4 = 0.5 -> 512
	if vec[2] != 512 {
		t.Errorf("remaining fraction = %d, want 512", vec[2])
	}
	if vec[3] != testScale {
		t.Errorf("is_ready = %d, want %d", vec[3], testScale)
	}
}

func TestBuildNeverScheduledSaturates(t *testing.T) {
	tasks := []*task.Task{task.New(0, 10, 10, 2)}
	b := NewVectorBuilder(tasks, testScale)
	tasks[0].Release(0)

	vec := b.Build(tasks, 0)
	if vec[1] != testScale {
		t.Errorf("never-scheduled time_since = %d, want full scale %d", vec[1], testScale)
	}
}

func TestBuildClampsOverdueDeadline(t *testing.T) {
	tasks := []*task.Task{task.New(0, 10, 10, 2)}
	b := NewVectorBuilder(tasks, testScale)
	tasks[0].Release(0)

	// Past the absolute deadline the feature floors at 0 rather than
	// going negative. (The scheduler's deadline check would normally
	// have abandoned the job already; the builder must be safe anyway.)
	vec := b.Build(tasks, 15)
	if vec[0] != 0 {
		t.Errorf("overdue time_to_deadline = %d, want 0", vec[0])
	}
}

func TestBuildClampsTimeSinceScheduled(t *testing.T) {
	tasks := []*task.Task{
		task.New(0, 10, 10, 8),
		task.New(1, 20, 20, 4),
	}
	b := NewVectorBuilder(tasks, testScale)
	tasks[0].Release(0)
	b.MarkScheduled(0, 0)

	// 50 ticks since last scheduled against max period 20 clamps to scale.
	tasks[0].AbsDeadline = 100
	vec := b.Build(tasks, 50)
	if vec[1] != testScale {
		t.Errorf("time_since_scheduled = %d, want clamp at %d", vec[1], testScale)
	}
}
