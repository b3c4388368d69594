package unlock

import (
	"testing"
	"time"

	"github.com/skyconnfig/cognitive-os/internal/model"
)

func lockedState() model.GovernanceState {
	st := model.DefaultState(time.Now().UTC())
	st.ExpansionLock = true
	st.ActiveConstraint = "6 unfinished items open"
	return st
}

func TestCheckTruthTable(t *testing.T) {
	cases := []struct {
		name       string
		locked     bool
		unresolved int
		want       bool
	}{
		{"locked, zero open", true, 0, true},
		{"locked, below ceiling", true, 2, true},
		{"locked, at ceiling", true, 3, false},
		{"locked, above ceiling", true, 7, false},
		{"unlocked, zero open", false, 0, false},
		{"unlocked, many open", false, 9, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			st := model.DefaultState(time.Now().UTC())
			if c.locked {
				st = lockedState()
			}
			v := Check(st, c.unresolved, DefaultMaxUnresolved)
			if v.CanUnlock != c.want {
				t.Errorf("Check(locked=%v, unresolved=%d) = %v, want %v",
					c.locked, c.unresolved, v.CanUnlock, c.want)
			}
		})
	}
}

func TestCheckReasonIsConstraintWhenBlocked(t *testing.T) {
	v := Check(lockedState(), 5, DefaultMaxUnresolved)
	if v.CanUnlock {
		t.Fatal("expected blocked verdict")
	}
	if v.Reason != "6 unfinished items open" {
		t.Errorf("expected active constraint as reason, got %q", v.Reason)
	}
}

func TestCheckUnlockedReportsNotLocked(t *testing.T) {
	v := Check(model.DefaultState(time.Now().UTC()), 0, DefaultMaxUnresolved)
	if v.CanUnlock || v.Reason != "expansion is not locked" {
		t.Errorf("unexpected verdict: %+v", v)
	}
}

func TestCheckZeroCeilingFallsBackToDefault(t *testing.T) {
	if v := Check(lockedState(), 2, 0); !v.CanUnlock {
		t.Errorf("ceiling 0 should fall back to default of %d", DefaultMaxUnresolved)
	}
}
