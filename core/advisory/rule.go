package advisory

import "context"

// RuleAdvisor is a deterministic advisor for hosts and tests: it recommends
// a stop exactly when the scorer itself wants one with clear margin. A real
// deployment would substitute a remote rationale service here.
type RuleAdvisor struct {
	// MinTotalUrgency is the composite urgency a pit verdict requires.
	MinTotalUrgency int
}

// NewRuleAdvisor returns an advisor agreeing with the scorer above urgency 5.
func NewRuleAdvisor() RuleAdvisor {
	return RuleAdvisor{MinTotalUrgency: 5}
}

// Advise implements Advisor.
func (a RuleAdvisor) Advise(_ context.Context, snap Snapshot) (Verdict, error) {
	if snap.Urgency.ShouldPit && snap.Urgency.TotalUrgency > a.MinTotalUrgency {
		return VerdictPit, nil
	}
	return VerdictStay, nil
}
