package geometry

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

func cross(o orb.Point, a orb.Point, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// ConvexHull returns the hull of the points in counter-clockwise order using
// the monotone chain algorithm. The closing point is not repeated.
func ConvexHull(points []orb.Point) orb.Ring {
	unique := make([]orb.Point, 0, len(points))
	seen := map[orb.Point]bool{}
	for _, point := range points {
		if !seen[point] {
			seen[point] = true
			unique = append(unique, point)
		}
	}

	sort.Slice(unique, func(i, j int) bool {
		if unique[i][0] != unique[j][0] {
			return unique[i][0] < unique[j][0]
		}
		return unique[i][1] < unique[j][1]
	})

	if len(unique) <= 1 {
		return orb.Ring(unique)
	}

	var lower []orb.Point
	for _, point := range unique {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], point) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, point)
	}

	var upper []orb.Point
	for i := len(unique) - 1; i >= 0; i-- {
		point := unique[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], point) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, point)
	}

	hull := make(orb.Ring, 0, len(lower)+len(upper)-2)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)

	return hull
}

// ShoelaceArea is the unsigned area of a simple polygon.
func ShoelaceArea(ring orb.Ring) float64 {
	if len(ring) < 3 {
		return 0
	}

	area := 0.0
	for i := range ring {
		a := ring[i]
		b := ring[(i+1)%len(ring)]
		area += a[0]*b[1] - b[0]*a[1]
	}

	return math.Abs(area) / 2
}

// HullArea is the area in km² of the convex hull of projected points.
func HullArea(points []orb.Point) float64 {
	hull := ConvexHull(points)
	if len(hull) < 3 {
		return 0
	}
	return ShoelaceArea(hull)
}
