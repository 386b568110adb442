// Package osmsrc builds a canonical street graph from an OSM PBF extract,
// keeping the ways and tags relevant to bicycle routing: highway class,
// maxspeed, oneway, cycleway quality, and street name.
package osmsrc

import (
	"context"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"

	"github.com/saferide/bikerouter/pkg/geo"
	"github.com/saferide/bikerouter/pkg/graph"
)

// bikeHighways lists highway tag values considered bikeable. Motorways and
// their links are excluded outright regardless of any other tag.
var bikeHighways = map[string]bool{
	"trunk":          true,
	"trunk_link":     true,
	"primary":        true,
	"primary_link":   true,
	"secondary":      true,
	"secondary_link": true,
	"tertiary":       true,
	"tertiary_link":  true,
	"unclassified":   true,
	"residential":    true,
	"living_street":  true,
	"service":        true,
	"cycleway":       true,
	"path":           true,
}

// isBikeAccessible reports whether a way is usable for bicycle routing.
func isBikeAccessible(tags osm.Tags) bool {
	hw := tags.Find("highway")
	if !bikeHighways[hw] {
		return false
	}
	if tags.Find("area") == "yes" {
		return false
	}
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	if tags.Find("bicycle") == "no" {
		return false
	}
	return true
}

// directionFlags returns (forward, backward) for a way given its tags. Bike
// routing treats oneway:bicycle=no as overriding a car oneway restriction,
// since many jurisdictions allow contraflow cycling on one-way streets.
func directionFlags(tags osm.Tags) (forward, backward bool) {
	forward, backward = true, true

	hw := tags.Find("highway")
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward, backward = true, false
	case "-1", "reverse":
		forward, backward = false, true
	case "no":
		forward, backward = true, true
	case "reversible":
		forward, backward = false, false
	}

	if tags.Find("oneway:bicycle") == "no" {
		backward = true
	}

	return forward, backward
}

// resolveMaxSpeed parses the maxspeed tag, returning (speed, ok). Tags with
// units ("30 mph") or qualifiers ("signals") are treated as absent rather
// than guessed at.
func resolveMaxSpeed(tags osm.Tags) (int, bool) {
	raw := strings.TrimSpace(tags.Find("maxspeed"))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

// cyclewayLevel classifies the quality of bicycle infrastructure on a way:
// 2 for a named avenue with known dedicated cycle infrastructure, 1 for any
// other cycleway-tagged way, 0 otherwise.
func cyclewayLevel(tags osm.Tags, avenueKeywords []string) int {
	name := tags.Find("name")
	if name != "" {
		for _, kw := range avenueKeywords {
			if strings.Contains(strings.ToLower(name), strings.ToLower(kw)) {
				return graph.CyclewaySafe
			}
		}
	}
	if tags.Find("highway") == "cycleway" || tags.Find("cycleway") != "" {
		return graph.CyclewayUnsafe
	}
	return graph.CyclewayNone
}

type wayInfo struct {
	NodeIDs       []osm.NodeID
	Forward       bool
	Backward      bool
	Highway       string
	Name          string
	MaxSpeed      int
	HasMaxSpeed   bool
	CyclewayLevel int
}

// BBox restricts parsing to a geographic bounding box. A zero BBox means no
// filtering.
type BBox struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// IsZero reports whether the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLon == 0 && b.MaxLon == 0
}

// Contains reports whether (lat, lon) falls inside the bbox.
func (b BBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Options configures Parse.
type Options struct {
	BBox BBox

	// AvenueKeywords names streets known to carry dedicated, safe cycling
	// infrastructure (CyclewaySafe), per the source system's convention of
	// tagging cycleways by street name rather than relying solely on OSM's
	// cycleway=* tag.
	AvenueKeywords []string
}

// Parse reads an OSM PBF extract and returns a canonical street graph for
// bicycle routing. Nodes are keyed by their OSM id (always non-negative),
// leaving the negative id space free for endpoints inserted at request time.
func Parse(ctx context.Context, rs io.ReadSeeker, opts Options) (*graph.Graph, error) {
	referencedNodes := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := osmpbf.New(ctx, rs, 1)
	scanner.SkipNodes = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok {
			continue
		}
		if !isBikeAccessible(w.Tags) || len(w.Nodes) < 2 {
			continue
		}
		fwd, bwd := directionFlags(w.Tags)
		if !fwd && !bwd {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referencedNodes[wn.ID] = struct{}{}
		}

		maxSpeed, hasMaxSpeed := resolveMaxSpeed(w.Tags)
		ways = append(ways, wayInfo{
			NodeIDs:       nodeIDs,
			Forward:       fwd,
			Backward:      bwd,
			Highway:       w.Tags.Find("highway"),
			Name:          w.Tags.Find("name"),
			MaxSpeed:      maxSpeed,
			HasMaxSpeed:   hasMaxSpeed,
			CyclewayLevel: cyclewayLevel(w.Tags, opts.AvenueKeywords),
		})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("osmsrc: pass 1 (ways): %w", err)
	}
	scanner.Close()
	log.Printf("osmsrc: pass 1 complete: %d ways, %d referenced nodes", len(ways), len(referencedNodes))

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("osmsrc: seek for pass 2: %w", err)
	}

	nodeLat := make(map[osm.NodeID]float64, len(referencedNodes))
	nodeLon := make(map[osm.NodeID]float64, len(referencedNodes))
	streetCount := make(map[osm.NodeID]int, len(referencedNodes))

	scanner = osmpbf.New(ctx, rs, 1)
	scanner.SkipWays = true
	scanner.SkipRelations = true

	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("osmsrc: pass 2 (nodes): %w", err)
	}
	scanner.Close()
	log.Printf("osmsrc: pass 2 complete: %d node coordinates collected", len(nodeLat))

	useBBox := !opts.BBox.IsZero()
	g := graph.New()

	ensureNode := func(id osm.NodeID) (int64, bool) {
		lat, ok := nodeLat[id]
		if !ok {
			return 0, false
		}
		lon := nodeLon[id]
		gid := int64(id)
		if !g.HasNode(gid) {
			_ = g.AddNode(graph.Node{ID: gid, Lat: lat, Lon: lon})
		}
		return gid, true
	}

	var skipped, bboxFiltered int
	for _, w := range ways {
		for i := 0; i < len(w.NodeIDs); i++ {
			streetCount[w.NodeIDs[i]]++
		}
		for i := 0; i < len(w.NodeIDs)-1; i++ {
			fromID, toID := w.NodeIDs[i], w.NodeIDs[i+1]
			fromLat, fromOk := nodeLat[fromID]
			fromLon := nodeLon[fromID]
			toLat, toOk := nodeLat[toID]
			toLon := nodeLon[toID]
			if !fromOk || !toOk {
				skipped++
				continue
			}
			if useBBox && (!opts.BBox.Contains(fromLat, fromLon) || !opts.BBox.Contains(toLat, toLon)) {
				bboxFiltered++
				continue
			}

			fromGid, _ := ensureNode(fromID)
			toGid, _ := ensureNode(toID)

			length := geo.Haversine(fromLat, fromLon, toLat, toLon)
			fwdBearing := geo.Bearing(fromLat, fromLon, toLat, toLon)
			bwdBearing := geo.Bearing(toLat, toLon, fromLat, fromLon)

			if w.Forward {
				_ = g.AddEdge(fromGid, toGid, 0, graph.EdgeAttrs{
					Length: length, Bearing: fwdBearing, Highway: w.Highway,
					MaxSpeed: w.MaxSpeed, HasMaxSpeed: w.HasMaxSpeed,
					CyclewayLevel: w.CyclewayLevel, OneWay: !(w.Forward && w.Backward),
					Name: w.Name,
				})
			}
			if w.Backward {
				_ = g.AddEdge(toGid, fromGid, 0, graph.EdgeAttrs{
					Length: length, Bearing: bwdBearing, Highway: w.Highway,
					MaxSpeed: w.MaxSpeed, HasMaxSpeed: w.HasMaxSpeed,
					CyclewayLevel: w.CyclewayLevel, OneWay: !(w.Forward && w.Backward),
					Name: w.Name,
				})
			}
		}
	}

	for _, id := range g.Nodes() {
		if n, ok := g.Node(id); ok {
			n.StreetCount = streetCount[osm.NodeID(id)]
		}
	}

	if skipped > 0 {
		log.Printf("osmsrc: skipped %d edges with missing node coordinates", skipped)
	}
	if bboxFiltered > 0 {
		log.Printf("osmsrc: filtered %d edges outside bounding box", bboxFiltered)
	}
	log.Printf("osmsrc: built graph with %d nodes, %d edges", g.NumNodes(), g.NumEdges())

	return g, nil
}
