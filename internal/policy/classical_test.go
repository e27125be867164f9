package policy

import "testing"

func TestEDFPicksEarliestDeadline(t *testing.T) {
	p := NewEDF()
	req := Request{
		Tasks: []TaskView{
			{AbsDeadline: 30, Remaining: 1, Ready: true},
			{AbsDeadline: 10, Remaining: 1, Ready: true},
			{AbsDeadline: 20, Remaining: 1, Ready: true},
		},
	}
	if got := p.Decide(req); got != 1 {
		t.Errorf("expected task 1 (deadline 10), got %d", got)
	}
}

func TestEDFSkipsNonReady(t *testing.T) {
	p := NewEDF()
	req := Request{
		Tasks: []TaskView{
			{AbsDeadline: 5, Ready: false},
			{AbsDeadline: 20, Remaining: 1, Ready: true},
		},
	}
	if got := p.Decide(req); got != 1 {
		t.Errorf("expected ready task 1 over non-ready earlier deadline, got %d", got)
	}
}

func TestEDFIdlesWhenNothingReady(t *testing.T) {
	p := NewEDF()
	req := Request{Tasks: make([]TaskView, 3)}
	if got := p.Decide(req); got != req.IdleAction() {
		t.Errorf("expected idle action %d, got %d", req.IdleAction(), got)
	}
}

func TestEDFTieBreakLowestIndex(t *testing.T) {
	p := NewEDF()
	req := Request{
		Tasks: []TaskView{
			{AbsDeadline: 10, Ready: true},
			{AbsDeadline: 10, Ready: true},
		},
	}
	if got := p.Decide(req); got != 0 {
		t.Errorf("expected lowest index on tie, got %d", got)
	}
}

func TestRateMonotonicPicksShortestPeriod(t *testing.T) {
	p := NewRateMonotonic()
	req := Request{
		Tasks: []TaskView{
			{Period: 50, Ready: true},
			{Period: 10, Ready: true},
			{Period: 20, Ready: true},
		},
	}
	if got := p.Decide(req); got != 1 {
		t.Errorf("expected task 1 (period 10), got %d", got)
	}
}

func TestRoundRobinRotates(t *testing.T) {
	p := NewRoundRobin()
	req := Request{
		Tasks: []TaskView{
			{Ready: true},
			{Ready: true},
			{Ready: true},
		},
	}
	want := []int{0, 1, 2, 0, 1}
	for i, w := range want {
		if got := p.Decide(req); got != w {
			t.Errorf("decision %d: got %d, want %d", i, got, w)
		}
	}
}

func TestRoundRobinSkipsNonReady(t *testing.T) {
	p := NewRoundRobin()
	req := Request{
		Tasks: []TaskView{
			{Ready: true},
			{Ready: false},
			{Ready: true},
		},
	}
	want := []int{0, 2, 0}
	for i, w := range want {
		if got := p.Decide(req); got != w {
			t.Errorf("decision %d: got %d, want %d", i, got, w)
		}
	}
}

func TestNewPolicyByName(t *testing.T) {
	for _, name := range []string{"edf", "rm", "rr"} {
		p, err := New(name, nil)
		if err != nil {
			t.Errorf("New(%q) failed: %v", name, err)
			continue
		}
		if p == nil {
			t.Errorf("New(%q) returned nil policy", name)
		}
	}

	if _, err := New("neural", nil); err == nil {
		t.Error("expected error for neural policy without a network")
	}
	if _, err := New("lottery", nil); err == nil {
		t.Error("expected error for unknown policy name")
	}
}
