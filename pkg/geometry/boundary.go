package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// DistanceToBoundary is the shortest planar distance from a projected point
// to any edge of the projected boundary rings. It returns +Inf when there is
// no boundary.
func DistanceToBoundary(point orb.Point, rings []orb.Ring) float64 {
	best := math.Inf(1)

	for _, ring := range rings {
		if len(ring) < 2 {
			continue
		}

		for i := 0; i < len(ring)-1; i++ {
			if d := planar.DistanceFromSegment(ring[i], ring[i+1], point); d < best {
				best = d
			}
		}

		if !ring.Closed() {
			if d := planar.DistanceFromSegment(ring[len(ring)-1], ring[0], point); d < best {
				best = d
			}
		}
	}

	return best
}

// Site is a named coordinate taking part in boundary sequencing.
type Site struct {
	Code string
	Lat  float64
	Lon  float64
}

type BoundaryOptions struct {
	Bins          int
	MinDistKm     float64
	MaxDistKm     float64
	InnerRadiusKm float64
}

var DefaultBoundaryOptions = BoundaryOptions{
	Bins:          18,
	MinDistKm:     0.3,
	MaxDistKm:     4.0,
	InnerRadiusKm: 2.0,
}

type boundaryCandidate struct {
	code     string
	bearing  float64
	distance float64
}

// BoundarySequence selects stops lying in a band just inside the city
// boundary, keeps the one nearest the boundary in every angular bin around
// the origin and returns them in bearing order framed by the origin at both
// ends. Boundary rings are in GeoJSON order (lon, lat). An empty slice is
// returned when no candidate qualifies.
func BoundarySequence(sites []Site, origin Site, boundary []orb.Ring, options BoundaryOptions) []string {
	if len(boundary) == 0 || options.Bins <= 0 {
		return nil
	}

	projection := NewProjection(origin.Lat, origin.Lon)

	projectedBoundary := make([]orb.Ring, 0, len(boundary))
	for _, ring := range boundary {
		projectedBoundary = append(projectedBoundary, projection.ProjectRing(ring))
	}

	binWidth := 360.0 / float64(options.Bins)
	best := make([]*boundaryCandidate, options.Bins)

	for _, site := range sites {
		if site.Code == origin.Code {
			continue
		}

		point := projection.Project(site.Lat, site.Lon)
		if math.Hypot(point[0], point[1]) < options.InnerRadiusKm {
			continue
		}

		distance := DistanceToBoundary(point, projectedBoundary)
		if distance < options.MinDistKm || distance > options.MaxDistKm {
			continue
		}

		bearing := Bearing(point)
		bin := int(bearing / binWidth)
		if bin >= options.Bins {
			bin = options.Bins - 1
		}

		current := best[bin]
		if current == nil || distance < current.distance || (distance == current.distance && site.Code < current.code) {
			best[bin] = &boundaryCandidate{code: site.Code, bearing: bearing, distance: distance}
		}
	}

	sequence := []string{origin.Code}
	for _, candidate := range best {
		if candidate != nil {
			sequence = append(sequence, candidate.code)
		}
	}

	if len(sequence) == 1 {
		return nil
	}

	return append(sequence, origin.Code)
}
