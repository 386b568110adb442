package planner

import (
	"github.com/saferide/bikerouter/pkg/crime"
	"github.com/saferide/bikerouter/pkg/geo"
	"github.com/saferide/bikerouter/pkg/graph"
)

// crimeK is the number of nearest crime points (K) queried for the
// observation and the crime-proximity reward term.
const crimeK = 5

// ShortestPathNodeCounter computes the node-count reference used to derive
// the step tolerance for a leg, normally routing.PathLength; injected to
// avoid a planner -> routing import cycle (routing already imports
// planner).
type ShortestPathNodeCounter func(g *graph.Graph, origin, destination int64) int

// Env is one leg's stepwise decision process.
type Env struct {
	g        *graph.Graph
	crimeIdx *crime.Index

	origin      int64
	destination int64

	path             []int64
	visited          map[int64]bool
	traveledDistance float64

	stepTolerance         int
	originDestinationDist float64
	toleranceMultiplier   float64

	previousStep ActionFeature

	terminated      bool
	terminationCode string
	totalReward     float64
}

// NewEnv constructs an Env for a single leg from origin to destination over
// g, with shortestPathNodes giving the Dijkstra-baseline node count used to
// derive the step tolerance.
func NewEnv(g *graph.Graph, crimeIdx *crime.Index, origin, destination int64, shortestPathNodes int) *Env {
	e := &Env{
		g:            g,
		crimeIdx:     crimeIdx,
		origin:       origin,
		destination:  destination,
		path:         []int64{origin},
		visited:      map[int64]bool{origin: true},
		previousStep: sentinelActionFeature(),
	}
	e.stepTolerance = int(1.2 * float64(shortestPathNodes))

	on, _ := g.Node(origin)
	dn, _ := g.Node(destination)
	if on != nil && dn != nil {
		e.originDestinationDist = on.LatLon().DistanceTo(dn.LatLon())
	}
	e.toleranceMultiplier = toleranceMultiplier(e.originDestinationDist)

	if origin == destination {
		e.terminated = true
		e.terminationCode = "arrived"
	}
	return e
}

// Path returns the node ids visited so far (or at termination, the final
// path).
func (e *Env) Path() []int64 { return append([]int64(nil), e.path...) }

// Terminated reports whether the episode has ended.
func (e *Env) Terminated() bool { return e.terminated }

// TerminationCode returns the terminal condition name, or "" if not
// terminated: "arrived", "revisiting", "went_too_far", "invalid_action".
func (e *Env) TerminationCode() string { return e.terminationCode }

// TotalReward returns the sum of per-step rewards accumulated so far.
func (e *Env) TotalReward() float64 { return e.totalReward }

// current returns the current (last) node id.
func (e *Env) current() int64 { return e.path[len(e.path)-1] }

// Observe builds the Observation for the current state.
func (e *Env) Observe() Observation {
	cur := e.current()
	curNode, _ := e.g.Node(cur)
	destNode, _ := e.g.Node(e.destination)

	var obs Observation
	if curNode != nil {
		obs.CurrentLat, obs.CurrentLon = curNode.Lat, curNode.Lon
	}
	if destNode != nil {
		obs.DestinationLat, obs.DestinationLon = destNode.Lat, destNode.Lon
	}
	obs.StepCount = len(e.path) - 1
	obs.StepTolerance = e.stepTolerance
	obs.TraveledDistance = e.traveledDistance
	if curNode != nil && destNode != nil {
		obs.StraightLineDistance = curNode.LatLon().DistanceTo(destNode.LatLon())
	}
	obs.PreviousStep = e.previousStep

	neighbors := e.g.Neighbors(cur)
	obs.NumValidActions = len(neighbors)
	if obs.NumValidActions > MaxActions {
		obs.NumValidActions = MaxActions
	}
	for i := 0; i < MaxActions; i++ {
		if i < len(neighbors) {
			obs.ActionMask[i] = true
			obs.Actions[i] = e.actionFeatureFor(cur, neighbors[i], destNode)
		} else {
			obs.Actions[i] = sentinelActionFeature()
		}
	}

	if e.crimeIdx != nil && curNode != nil {
		for _, nd := range e.crimeIdx.KNearest(curNode.LatLon(), crimeK) {
			obs.NearestCrimePoints = append(obs.NearestCrimePoints, CrimeDistance{Dist: nd.Dist})
		}
	}

	return obs
}

func (e *Env) actionFeatureFor(cur, neighbor int64, destNode *graph.Node) ActionFeature {
	attrs, ok := e.g.EdgeAttrsOf(cur, neighbor)
	if !ok {
		return sentinelActionFeature()
	}
	af := ActionFeature{
		CyclewayLevel: float64(attrs.CyclewayLevel),
		MaxSpeed:      float64(attrs.ResolvedMaxSpeed()),
	}
	if destNode != nil {
		curNode, _ := e.g.Node(cur)
		neighborNode, _ := e.g.Node(neighbor)
		if curNode != nil && neighborNode != nil {
			af.RelativeBearing = geo.RelativeBearing(curNode.LatLon(), neighborNode.LatLon(), destNode.LatLon())
		}
	}
	if e.visited[neighbor] {
		af.EndNodeVisited = 1
	}
	return af
}

// StepResult reports the outcome of one Step call.
type StepResult struct {
	Reward          float64
	Terminated      bool
	TerminationCode string
}

// Step applies action (an index into the current node's neighbor list, as
// seen by Observe) and returns the reward and termination outcome.
func (e *Env) Step(action int) StepResult {
	if e.terminated {
		return StepResult{Terminated: true, TerminationCode: e.terminationCode}
	}

	cur := e.current()
	neighbors := e.g.Neighbors(cur)

	if action < 0 || action >= len(neighbors) || action >= MaxActions {
		e.terminated = true
		e.terminationCode = "invalid_action"
		e.totalReward += rewardInvalidAction
		return StepResult{Reward: rewardInvalidAction, Terminated: true, TerminationCode: "invalid_action"}
	}

	destNode, _ := e.g.Node(e.destination)
	curNode, _ := e.g.Node(cur)
	var distBefore float64
	if curNode != nil && destNode != nil {
		distBefore = curNode.LatLon().DistanceTo(destNode.LatLon())
	}

	next := neighbors[action]
	attrs, _ := e.g.EdgeAttrsOf(cur, next)

	stepFeature := e.actionFeatureFor(cur, next, destNode)

	e.path = append(e.path, next)
	if attrs != nil {
		e.traveledDistance += attrs.Length
	}

	nextNode, _ := e.g.Node(next)
	var distAfter float64
	if nextNode != nil && destNode != nil {
		distAfter = nextNode.LatLon().DistanceTo(destNode.LatLon())
	}

	reward := stepToleranceReward(len(e.path)-1, e.stepTolerance)
	reward += speedAndCyclewayReward(e.previousStep)
	reward += progressReward(distBefore, distAfter)
	reward += orientationReward(e.previousStep.RelativeBearing)

	var nearestCrime []CrimeDistance
	if e.crimeIdx != nil && nextNode != nil {
		for _, nd := range e.crimeIdx.KNearest(nextNode.LatLon(), crimeK) {
			nearestCrime = append(nearestCrime, CrimeDistance{Dist: nd.Dist})
		}
	}
	reward += crimeProximityReward(nearestCrime)

	wasVisited := e.visited[next]
	e.visited[next] = true
	e.previousStep = stepFeature

	e.totalReward += reward
	result := StepResult{Reward: reward}

	switch {
	case next == e.destination:
		e.terminated = true
		e.terminationCode = "arrived"
		e.totalReward += rewardArrived
		result.Reward += rewardArrived
		result.Terminated = true
		result.TerminationCode = "arrived"
	case wasVisited && len(e.path) > 1:
		e.terminated = true
		e.terminationCode = "revisiting"
		e.totalReward += rewardRevisiting
		result.Reward += rewardRevisiting
		result.Terminated = true
		result.TerminationCode = "revisiting"
	case distAfter > e.originDestinationDist*e.toleranceMultiplier:
		e.terminated = true
		e.terminationCode = "went_too_far"
		e.totalReward += rewardWentTooFar
		result.Reward += rewardWentTooFar
		result.Terminated = true
		result.TerminationCode = "went_too_far"
	}

	return result
}

// ForceArrive splices the shortest path from the current (last) node to the
// destination onto the end of the episode's path and marks it arrived. On
// "revisiting" termination the offending last node is dropped first, per
// spec. Returns the final path.
func (e *Env) ForceArrive(tail []int64) []int64 {
	if e.terminationCode == "revisiting" && len(e.path) > 1 {
		e.path = e.path[:len(e.path)-1]
	}
	if len(tail) > 0 && len(e.path) > 0 && e.path[len(e.path)-1] == tail[0] {
		tail = tail[1:]
	}
	e.path = append(e.path, tail...)
	e.terminated = true
	e.terminationCode = "arrived"
	return e.Path()
}
