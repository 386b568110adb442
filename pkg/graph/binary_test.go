package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/saferide/bikerouter/pkg/geo"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	g := newTestGraph(t)
	// Exercise string and geometry fields too.
	attrs, _ := g.EdgeAttrsOf(2, 3)
	attrs.Name = "Example Street"
	attrs.CyclewayLevel = CyclewaySafe
	attrs.Geometry = []geo.LatLon{
		{Lat: 1.31, Lon: 103.80},
		{Lat: 1.315, Lon: 103.805},
		{Lat: 1.32, Lon: 103.80},
	}

	path := filepath.Join(t.TempDir(), "graph.bin")
	if err := g.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.NumNodes() != g.NumNodes() || loaded.NumEdges() != g.NumEdges() {
		t.Fatalf("round trip size mismatch: got (%d,%d), want (%d,%d)",
			loaded.NumNodes(), loaded.NumEdges(), g.NumNodes(), g.NumEdges())
	}

	loadedAttrs, ok := loaded.EdgeAttrsOf(2, 3)
	if !ok {
		t.Fatalf("edge (2,3) missing after round trip")
	}
	if loadedAttrs.Name != "Example Street" {
		t.Errorf("Name = %q, want %q", loadedAttrs.Name, "Example Street")
	}
	if loadedAttrs.CyclewayLevel != CyclewaySafe {
		t.Errorf("CyclewayLevel = %d, want %d", loadedAttrs.CyclewayLevel, CyclewaySafe)
	}
	if len(loadedAttrs.Geometry) != 3 {
		t.Fatalf("Geometry length = %d, want 3", len(loadedAttrs.Geometry))
	}
}

func TestLoadRejectsCorruptChecksum(t *testing.T) {
	g := newTestGraph(t)
	path := filepath.Join(t.TempDir(), "graph.bin")
	if err := g.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back file: %v", err)
	}
	data[len(data)-1] ^= 0xFF
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write corrupted file: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Fatalf("Load accepted a corrupted file")
	}
}
