package engine

import (
	"github.com/kilianp07/pitwall/core/advisory"
	"github.com/kilianp07/pitwall/core/model"
)

// Reconcile applies an external advisory verdict to a decision.
//
// Policy: the ladder is authoritative and is never downgraded. An advisory
// pit verdict upgrades STAY_OUT to CONSIDER_PIT only when the urgency scorer
// agrees (shouldPit with composite urgency above 5), so a single noisy
// signal cannot trigger an irreversible stop. Mandatory stops ignore
// advisories entirely.
func Reconcile(d model.Decision, v advisory.Verdict) model.Decision {
	if v == advisory.VerdictNone || d.Mandatory {
		return d
	}
	d.Advisory = v.String()
	if v == advisory.VerdictPit &&
		d.Recommendation == model.StayOut &&
		d.Urgency.ShouldPit && d.Urgency.TotalUrgency > 5 {
		d.Recommendation = model.ConsiderPit
	}
	return d
}

// Reconcile applies the verdict and logs when it changed the recommendation.
func (e *Engine) Reconcile(d model.Decision, v advisory.Verdict) model.Decision {
	out := Reconcile(d, v)
	if out.Recommendation != d.Recommendation {
		e.log.Infof("advisory %s upgraded %s to %s", v, d.Recommendation, out.Recommendation)
	}
	return out
}
