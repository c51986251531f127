package transit

type Quadrant int

const (
	QuadrantNorthEast Quadrant = 1
	QuadrantSouthEast Quadrant = 2
	QuadrantSouthWest Quadrant = 4
	QuadrantNorthWest Quadrant = 8

	AllQuadrants = 15
)

var Quadrants = []Quadrant{QuadrantNorthEast, QuadrantSouthEast, QuadrantSouthWest, QuadrantNorthWest}

func (q Quadrant) String() string {
	switch q {
	case QuadrantNorthEast:
		return "Northeast"
	case QuadrantSouthEast:
		return "Southeast"
	case QuadrantSouthWest:
		return "Southwest"
	case QuadrantNorthWest:
		return "Northwest"
	default:
		return "Citywide"
	}
}

// Index returns the bit position of the quadrant, or -1.
func (q Quadrant) Index() int {
	switch q {
	case QuadrantNorthEast:
		return 0
	case QuadrantSouthEast:
		return 1
	case QuadrantSouthWest:
		return 2
	case QuadrantNorthWest:
		return 3
	default:
		return -1
	}
}
