package geometry

import (
	"math/bits"

	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

// QuadrantOf places a coordinate in one of the four quadrants around the
// origin. Points on an axis fall to the north and east sides.
func QuadrantOf(lat float64, lon float64, originLat float64, originLon float64) transit.Quadrant {
	north := lat >= originLat
	east := lon >= originLon

	switch {
	case north && east:
		return transit.QuadrantNorthEast
	case !north && east:
		return transit.QuadrantSouthEast
	case !north && !east:
		return transit.QuadrantSouthWest
	default:
		return transit.QuadrantNorthWest
	}
}

func QuadrantCount(mask int) int {
	return bits.OnesCount(uint(mask & transit.AllQuadrants))
}

// QuadrantsInMask lists the quadrants set in the mask in NE, SE, SW, NW order.
func QuadrantsInMask(mask int) []transit.Quadrant {
	var quadrants []transit.Quadrant
	for _, quadrant := range transit.Quadrants {
		if mask&int(quadrant) != 0 {
			quadrants = append(quadrants, quadrant)
		}
	}
	return quadrants
}
