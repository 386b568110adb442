// Package crime holds the immutable crime-point index consulted by the
// planner's proximity reward term. Points are loaded once at boot from a
// tabular workbook and queried by K-nearest-with-distance.
package crime

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/rtree"
	"github.com/xuri/excelize/v2"

	"github.com/saferide/bikerouter/pkg/geo"
)

// metersPerDegreeLat approximates degrees-to-meters for sizing the index
// search box; the final ranking always uses the exact haversine distance.
const metersPerDegreeLat = 111_320.0

// Index is an immutable, queryable set of crime locations.
type Index struct {
	points []geo.LatLon
	tr     rtree.RTreeG[int] // value is the index into points
}

// Empty returns an Index with no points, valid to query (always returns no
// results) — used when no crime dataset is configured.
func Empty() *Index {
	return &Index{}
}

// Load reads every sheet in the workbook at path whose header row contains
// latitude/longitude columns (case-insensitive) and unions the rows into a
// single index, per the "single sheet or merges all sheets" ingestion rule.
func Load(path string) (*Index, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("crime: open %s: %w", path, err)
	}
	defer f.Close()

	idx := &Index{}
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("crime: read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}

		latCol, lonCol, ok := findLatLonColumns(rows[0])
		if !ok {
			continue
		}

		for _, row := range rows[1:] {
			if latCol >= len(row) || lonCol >= len(row) {
				continue
			}
			lat, err1 := strconv.ParseFloat(strings.TrimSpace(row[latCol]), 64)
			lon, err2 := strconv.ParseFloat(strings.TrimSpace(row[lonCol]), 64)
			if err1 != nil || err2 != nil {
				continue
			}
			p := geo.LatLon{Lat: lat, Lon: lon}
			if !p.Valid() {
				continue
			}
			idx.points = append(idx.points, p)
		}
	}

	idx.build()
	return idx, nil
}

func findLatLonColumns(header []string) (latCol, lonCol int, ok bool) {
	latCol, lonCol = -1, -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "latitude", "lat":
			latCol = i
		case "longitude", "lon", "lng":
			lonCol = i
		}
	}
	return latCol, lonCol, latCol >= 0 && lonCol >= 0
}

func (idx *Index) build() {
	for i, p := range idx.points {
		idx.tr.Insert([2]float64{p.Lat, p.Lon}, [2]float64{p.Lat, p.Lon}, i)
	}
}

// Len returns the number of points in the index.
func (idx *Index) Len() int { return len(idx.points) }

// NearestDistance is a crime point paired with its distance, in meters,
// from a query location.
type NearestDistance struct {
	Point geo.LatLon
	Dist  float64
}

// KNearest returns up to k crime points nearest to target, ordered by
// ascending distance. If fewer than k points exist, fewer are returned.
func (idx *Index) KNearest(target geo.LatLon, k int) []NearestDistance {
	if k <= 0 || len(idx.points) == 0 {
		return nil
	}

	searchRadii := []float64{200, 1000, 5000, math.MaxFloat64}
	var candidates []NearestDistance

	for _, radiusM := range searchRadii {
		candidates = candidates[:0]
		var min, max [2]float64
		if radiusM == math.MaxFloat64 {
			min = [2]float64{-90, -180}
			max = [2]float64{90, 180}
		} else {
			degRadius := radiusM / metersPerDegreeLat
			min = [2]float64{target.Lat - degRadius, target.Lon - degRadius}
			max = [2]float64{target.Lat + degRadius, target.Lon + degRadius}
		}

		idx.tr.Search(min, max, func(_, _ [2]float64, i int) bool {
			p := idx.points[i]
			candidates = append(candidates, NearestDistance{Point: p, Dist: target.DistanceTo(p)})
			return true
		})

		// The box's corners reach past radiusM, so only candidates within
		// radiusM are known to beat every point outside the box.
		within := 0
		for _, c := range candidates {
			if c.Dist <= radiusM {
				within++
			}
		}
		if within >= k || radiusM == math.MaxFloat64 {
			break
		}
	}

	sortByDist(candidates)
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

func sortByDist(c []NearestDistance) {
	for i := 1; i < len(c); i++ {
		for j := i; j > 0 && c[j].Dist < c[j-1].Dist; j-- {
			c[j], c[j-1] = c[j-1], c[j]
		}
	}
}
