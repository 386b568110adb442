// Package policyio owns the contract for loading a trained policy artifact
// into a planner.Policy. The reference implementation trains a PPO policy
// out-of-band (see agent.py in the original source); this package defines
// the loader interface the server wires up, plus the one loader this repo
// ships: a deterministic fallback that needs no artifact at all.
package policyio

import (
	"fmt"

	"github.com/saferide/bikerouter/pkg/planner"
)

// Loader produces a planner.Policy from a named artifact. Implementations
// backed by an actual trained model (e.g. an ONNX export of a PPO policy)
// live outside this repo's scope; this package only owns the contract and
// a no-artifact reference loader.
type Loader interface {
	Load(path string) (planner.Policy, error)
}

// GreedyLoader is a Loader that ignores path and always returns
// planner.GreedyPolicy. It exists so a server can be configured uniformly
// (policy path + loader) even when no trained artifact is available.
type GreedyLoader struct{}

// Load implements Loader.
func (GreedyLoader) Load(path string) (planner.Policy, error) {
	return planner.GreedyPolicy, nil
}

// ErrUnsupportedFormat is returned by a Loader when the artifact at path
// does not match a format it understands.
var ErrUnsupportedFormat = fmt.Errorf("policyio: unsupported artifact format")
