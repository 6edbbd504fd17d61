package component

// Alert is a set of AI notifications raised during a tick.
type Alert uint32

const (
	AlertBumped Alert = 1 << iota
	AlertAttacked
	AlertScoredHit
	AlertHitVulnerable
	AlertBlocked
	AlertMounted
)

func (a Alert) Has(flag Alert) bool {
	return a&flag != 0
}

func (a *Alert) Set(flag Alert) {
	*a |= flag
}

// AIState holds the per-character fields the collision pass reports into.
type AIState struct {
	Alerts       Alert
	LastBumpedBy Entity
	LastAttacker Entity
}
