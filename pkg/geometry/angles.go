package geometry

import (
	"math"
	"sort"

	"github.com/paulmach/orb"
)

// Bearing is the clockwise angle from north, in degrees, of a projected point
// seen from the projection origin.
func Bearing(point orb.Point) float64 {
	angle := math.Atan2(point[0], point[1]) * 180 / math.Pi
	return math.Mod(angle+360, 360)
}

// TurnDelta is the signed smallest rotation from one bearing to another.
func TurnDelta(from float64, to float64) float64 {
	return math.Mod(math.Mod(to-from+180, 360)+360, 360) - 180
}

// AngularMetrics returns the angular span covered by the points around the
// origin (360 minus the largest empty gap) and the summed absolute turning
// between consecutive points. Points at the origin carry no bearing and are
// skipped.
func AngularMetrics(points []orb.Point) (span float64, turn float64) {
	bearings := make([]float64, 0, len(points))
	for _, point := range points {
		if point[0] == 0 && point[1] == 0 {
			continue
		}
		bearings = append(bearings, Bearing(point))
	}

	if len(bearings) < 2 {
		return 0, 0
	}

	for i := 1; i < len(bearings); i++ {
		turn += math.Abs(TurnDelta(bearings[i-1], bearings[i]))
	}

	sorted := append([]float64(nil), bearings...)
	sort.Float64s(sorted)

	maxGap := sorted[0] + 360 - sorted[len(sorted)-1]
	for i := 1; i < len(sorted); i++ {
		if gap := sorted[i] - sorted[i-1]; gap > maxGap {
			maxGap = gap
		}
	}

	return 360 - maxGap, turn
}
