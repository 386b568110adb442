package planner

import "math"

// Policy scores an Observation and returns the chosen action index. The
// environment never mutates or inspects a policy's internals — any
// deterministic tie-breaking function satisfies the contract, including one
// backed by a loaded model artifact (see pkg/policyio).
type Policy func(Observation) int

// GreedyPolicy is a reference deterministic policy: among valid actions, it
// picks the one with the lowest score, where the score is the relative
// bearing to the destination folded into [0,180] (0 = pointed straight at
// the destination) minus 20 for a safe cycleway or 10 for an unsafe one,
// breaking ties toward the lowest action index. It mirrors the reward function's orientation and
// progress terms closely enough to be useful for testing without a trained
// artifact.
func GreedyPolicy(obs Observation) int {
	best := -1
	bestScore := math.Inf(1)
	for i := 0; i < obs.NumValidActions && i < MaxActions; i++ {
		if !obs.ActionMask[i] {
			continue
		}
		a := obs.Actions[i]
		folded := foldBearing(a.RelativeBearing)
		score := folded
		if a.CyclewayLevel == 2 {
			score -= 20
		} else if a.CyclewayLevel == 1 {
			score -= 10
		}
		if score < bestScore {
			bestScore = score
			best = i
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func foldBearing(phi float64) float64 {
	f := phi
	for f < 0 {
		f += 360
	}
	for f >= 360 {
		f -= 360
	}
	if f > 180 {
		f = 360 - f
	}
	return f
}
