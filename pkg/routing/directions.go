package routing

import (
	"math"

	"github.com/saferide/bikerouter/pkg/graph"
)

const (
	turnRightThreshold = 30.0  // signed angle >= this: turn_right
	turnLeftThreshold  = -30.0 // signed angle <= this: turn_left
	uTurnThreshold     = 150.0 // |signed angle| >= this: treated as a hard turn, not a continue
)

// signedAngleDiff returns the signed difference (to - from) folded into
// (-180, 180].
func signedAngleDiff(from, to float64) float64 {
	d := math.Mod(to-from+540, 360) - 180
	return d
}

func classifyTurn(signedAngle float64) string {
	abs := math.Abs(signedAngle)
	switch {
	case abs >= uTurnThreshold:
		if signedAngle > 0 {
			return "turn_right"
		}
		return "turn_left"
	case signedAngle >= turnRightThreshold:
		return "turn_right"
	case signedAngle <= turnLeftThreshold:
		return "turn_left"
	default:
		return "continue"
	}
}

// BuildDirections groups the edges of path into turn-by-turn instructions:
// contiguous edges sharing a street name with each interior turn below the
// turn threshold are one Direction; a turn of 30 degrees or more, or a name
// change, starts a new one. The final Direction is always "arrive".
func BuildDirections(g *graph.Graph, path []int64) []Direction {
	if len(path) < 2 {
		if len(path) == 1 {
			return []Direction{{EndingAction: "arrive", CoveredPolylinePointsIndexes: []int{0}}}
		}
		return nil
	}

	type edgeInfo struct {
		name    string
		bearing float64
	}
	edges := make([]edgeInfo, 0, len(path)-1)
	for i := 0; i < len(path)-1; i++ {
		attrs, ok := g.EdgeAttrsOf(path[i], path[i+1])
		if !ok {
			edges = append(edges, edgeInfo{})
			continue
		}
		edges = append(edges, edgeInfo{name: attrs.Name, bearing: attrs.Bearing})
	}

	var directions []Direction
	start := 0
	for i := 1; i <= len(edges); i++ {
		atEnd := i == len(edges)
		breakHere := atEnd
		if !atEnd {
			sameName := edges[i].name == edges[start].name
			turn := signedAngleDiff(edges[i-1].bearing, edges[i].bearing)
			if !sameName || math.Abs(turn) >= turnRightThreshold {
				breakHere = true
			}
		}
		if breakHere {
			action := "continue"
			if i < len(edges) {
				turn := signedAngleDiff(edges[i-1].bearing, edges[i].bearing)
				action = classifyTurn(turn)
			}

			edgeIdx := make([]int, 0, i-start)
			for e := start; e < i; e++ {
				edgeIdx = append(edgeIdx, e)
			}
			polyIdx := make([]int, 0, i-start+1)
			for p := start; p <= i; p++ {
				polyIdx = append(polyIdx, p)
			}

			directions = append(directions, Direction{
				EndingAction:                 action,
				StreetName:                   edges[start].name,
				CoveredEdgesIndexes:          edgeIdx,
				CoveredPolylinePointsIndexes: polyIdx,
			})
			start = i
		}
	}

	directions = append(directions, Direction{
		EndingAction:                 "arrive",
		CoveredPolylinePointsIndexes: []int{len(path) - 1},
	})

	return directions
}
