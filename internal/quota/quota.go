package quota

// StatusFreeTrial is the only subscription status that is metered. Every
// other status is always allowed.
const StatusFreeTrial = "free_trial"

// LimitMessage is the fixed user-facing text returned when a free-trial
// user has exhausted today's allowance for a tool.
const LimitMessage = "Free trial limit reached for this tool today. You can use each AI tool once per day. Upgrade to unlock unlimited usage!"

// Decision is the outcome of a quota evaluation.
type Decision int

const (
	Allowed Decision = iota
	Denied
)

func (d Decision) String() string {
	if d == Denied {
		return "denied"
	}
	return "allowed"
}

// Evaluate decides whether one more operation of a kind may run today.
// It is a pure function: fetching the status and the count, and acting on
// the decision, are the caller's responsibility.
func Evaluate(subscriptionStatus string, usedToday, dailyLimit int) Decision {
	if subscriptionStatus != StatusFreeTrial {
		return Allowed
	}
	if usedToday >= dailyLimit {
		return Denied
	}
	return Allowed
}
