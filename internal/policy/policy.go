package policy

import (
	"fmt"
	"strings"
)

// TaskView is the read-only per-task snapshot handed to decision policies.
type TaskView struct {
	Period      uint32
	AbsDeadline uint32
	Remaining   uint32
	Ready       bool
}

// Request carries everything a policy may consult for one decision: the
// current tick, the Q-scaled state vector (4 features per task), and the
// per-task views. Classical policies read the views; the neural engine reads
// the vector.
type Request struct {
	Tick  uint32
	State []int32
	Tasks []TaskView
}

// IdleAction returns the action index meaning "run nothing this tick".
func (r Request) IdleAction() int {
	return len(r.Tasks)
}

// Policy is the pluggable decision rule that chooses which ready task (or
// idle) runs next. Implementations must be deterministic: the same request
// always yields the same action.
type Policy interface {
	Name() string
	Decide(req Request) int
}

// New creates a policy by name. The network is required only for the neural
// policy and ignored by the classical ones.
func New(name string, net *Network) (Policy, error) {
	switch strings.ToLower(name) {
	case "neural":
		if net == nil {
			return nil, fmt.Errorf("neural policy requires a weights artifact")
		}
		return NewNeural(net), nil
	case "edf":
		return NewEDF(), nil
	case "rm", "rate-monotonic":
		return NewRateMonotonic(), nil
	case "rr", "round-robin":
		return NewRoundRobin(), nil
	default:
		return nil, fmt.Errorf("unknown policy %q (available: %s)", name, strings.Join(Names(), ", "))
	}
}

// Names returns the selectable policy names.
func Names() []string {
	return []string{"neural", "edf", "rm", "rr"}
}
