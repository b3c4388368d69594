// Package unlock decides whether lifting the expansion lock is justified.
package unlock

import "github.com/skyconnfig/cognitive-os/internal/model"

// DefaultMaxUnresolved is the open-item ceiling below which an unlock is
// considered justified.
const DefaultMaxUnresolved = 3

// Verdict is the advisory result. It never mutates state; an explicit
// UnlockExpansion call is still required to act on it.
type Verdict struct {
	CanUnlock bool   `json:"can_unlock"`
	Reason    string `json:"reason,omitempty"`
}

// Check returns whether the expansion lock may be lifted: the lock must be
// active and fewer than maxUnresolved items still open. When the lock stays,
// the active constraint explains why.
func Check(st model.GovernanceState, unresolvedCount, maxUnresolved int) Verdict {
	if maxUnresolved <= 0 {
		maxUnresolved = DefaultMaxUnresolved
	}
	if !st.ExpansionLock {
		return Verdict{CanUnlock: false, Reason: "expansion is not locked"}
	}
	if unresolvedCount >= maxUnresolved {
		return Verdict{CanUnlock: false, Reason: st.ActiveConstraint}
	}
	return Verdict{CanUnlock: true}
}
