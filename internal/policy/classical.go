package policy

// Classical rate-based policies. They share the Policy seam with the neural
// engine and read only the per-task views, so the scheduler needs no
// knowledge of which kind of policy is active.

// EDFPolicy implements Earliest Deadline First: among ready tasks, run the
// one whose absolute deadline is closest.
type EDFPolicy struct{}

// NewEDF creates an Earliest Deadline First policy.
func NewEDF() *EDFPolicy { return &EDFPolicy{} }

// Name returns the policy name
func (p *EDFPolicy) Name() string { return "edf" }

// Decide picks the ready task with the earliest absolute deadline, lowest
// index on ties, or idle when nothing is ready.
func (p *EDFPolicy) Decide(req Request) int {
	best := req.IdleAction()
	for i, t := range req.Tasks {
		if !t.Ready {
			continue
		}
		if best == req.IdleAction() || t.AbsDeadline < req.Tasks[best].AbsDeadline {
			best = i
		}
	}
	return best
}

// RMPolicy implements Rate-Monotonic: among ready tasks, run the one with
// the shortest period (the classic static-priority assignment).
type RMPolicy struct{}

// NewRateMonotonic creates a Rate-Monotonic policy.
func NewRateMonotonic() *RMPolicy { return &RMPolicy{} }

// Name returns the policy name
func (p *RMPolicy) Name() string { return "rm" }

// Decide picks the ready task with the smallest period, lowest index on
// ties, or idle when nothing is ready.
func (p *RMPolicy) Decide(req Request) int {
	best := req.IdleAction()
	for i, t := range req.Tasks {
		if !t.Ready {
			continue
		}
		if best == req.IdleAction() || t.Period < req.Tasks[best].Period {
			best = i
		}
	}
	return best
}

// RRPolicy implements Round-Robin: ready tasks take turns, scanning forward
// from the slot after the previous pick.
type RRPolicy struct {
	next int
}

// NewRoundRobin creates a Round-Robin policy.
func NewRoundRobin() *RRPolicy { return &RRPolicy{} }

// Name returns the policy name
func (p *RRPolicy) Name() string { return "rr" }

// Decide picks the next ready task in rotation, or idle when nothing is
// ready. Deterministic for a given request sequence.
func (p *RRPolicy) Decide(req Request) int {
	n := len(req.Tasks)
	for off := 0; off < n; off++ {
		i := (p.next + off) % n
		if req.Tasks[i].Ready {
			p.next = i + 1
			return i
		}
	}
	return req.IdleAction()
}
