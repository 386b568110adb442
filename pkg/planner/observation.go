// Package planner implements the action-masked, stepwise decision process
// that drives safety-aware path search over a street graph: a policy
// scores each step's candidate neighbors from an observation, and the
// environment applies a multi-term reward and one of a small set of
// termination conditions.
package planner

// MaxActions bounds the action space. Only indices below the current
// node's neighbor count are valid; the rest are padding.
const MaxActions = 8

// sentinel is the fill value for fields not yet meaningful (before the
// first step, or past the end of the valid neighbor list).
const sentinel = -1

// ActionFeature is the policy-visible feature set for one candidate
// neighbor (or, as PreviousStep, for the most recently taken action).
type ActionFeature struct {
	CyclewayLevel   float64
	MaxSpeed        float64
	RelativeBearing float64
	EndNodeVisited  float64 // 0 or 1; sentinel (-1) when not yet meaningful
}

// sentinelActionFeature returns an ActionFeature with every field set to
// the -1 sentinel, used for padding and for the pre-first-step PreviousStep.
func sentinelActionFeature() ActionFeature {
	return ActionFeature{
		CyclewayLevel:   sentinel,
		MaxSpeed:        sentinel,
		RelativeBearing: sentinel,
		EndNodeVisited:  sentinel,
	}
}

// CrimeDistance pairs a crime point's distance from the current position.
type CrimeDistance struct {
	Dist float64
}

// Observation is the full policy input at one step.
type Observation struct {
	CurrentLat, CurrentLon         float64
	DestinationLat, DestinationLon float64
	StepCount                      int
	StepTolerance                  int

	StraightLineDistance float64
	TraveledDistance     float64

	PreviousStep ActionFeature

	NumValidActions int
	ActionMask      [MaxActions]bool
	Actions         [MaxActions]ActionFeature

	// NearestCrimePoints holds up to K=5 great-circle distances to the
	// closest crime points, ascending.
	NearestCrimePoints []CrimeDistance
}
