package osmsrc

import (
	"testing"

	"github.com/paulmach/osm"

	"github.com/saferide/bikerouter/pkg/graph"
)

func tags(kv ...string) osm.Tags {
	var t osm.Tags
	for i := 0; i+1 < len(kv); i += 2 {
		t = append(t, osm.Tag{Key: kv[i], Value: kv[i+1]})
	}
	return t
}

func TestIsBikeAccessible(t *testing.T) {
	if !isBikeAccessible(tags("highway", "residential")) {
		t.Errorf("residential should be accessible")
	}
	if isBikeAccessible(tags("highway", "motorway")) {
		t.Errorf("motorway should not be accessible")
	}
	if isBikeAccessible(tags("highway", "residential", "access", "private")) {
		t.Errorf("private access should not be accessible")
	}
	if isBikeAccessible(tags("highway", "residential", "bicycle", "no")) {
		t.Errorf("bicycle=no should not be accessible")
	}
}

func TestDirectionFlagsOnewayBicycleOverride(t *testing.T) {
	fwd, bwd := directionFlags(tags("highway", "residential", "oneway", "yes", "oneway:bicycle", "no"))
	if !fwd || !bwd {
		t.Errorf("oneway:bicycle=no should restore contraflow, got (%v,%v)", fwd, bwd)
	}
}

func TestDirectionFlagsReversible(t *testing.T) {
	fwd, bwd := directionFlags(tags("highway", "residential", "oneway", "reversible"))
	if fwd || bwd {
		t.Errorf("reversible ways should be skipped entirely, got (%v,%v)", fwd, bwd)
	}
}

func TestResolveMaxSpeed(t *testing.T) {
	if v, ok := resolveMaxSpeed(tags("maxspeed", "50")); !ok || v != 50 {
		t.Errorf("resolveMaxSpeed(50) = (%d,%v), want (50,true)", v, ok)
	}
	if _, ok := resolveMaxSpeed(tags("maxspeed", "30 mph")); ok {
		t.Errorf("resolveMaxSpeed should reject unit-qualified values")
	}
	if _, ok := resolveMaxSpeed(tags()); ok {
		t.Errorf("resolveMaxSpeed should report absent when untagged")
	}
}

func TestCyclewayLevel(t *testing.T) {
	if got := cyclewayLevel(tags("name", "Orchard Avenue"), []string{"Avenue"}); got != graph.CyclewaySafe {
		t.Errorf("named avenue level = %d, want CyclewaySafe", got)
	}
	if got := cyclewayLevel(tags("highway", "cycleway"), nil); got != graph.CyclewayUnsafe {
		t.Errorf("cycleway highway level = %d, want CyclewayUnsafe", got)
	}
	if got := cyclewayLevel(tags("highway", "residential"), nil); got != graph.CyclewayNone {
		t.Errorf("plain residential level = %d, want CyclewayNone", got)
	}
}
