package planner

import (
	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

type hopNode struct {
	edge transit.TripEdge
	prev *hopNode
}

// countNode is one entry of a persistent multiset. Each node stores the
// running count for its key so the newest node for a key holds its total.
type countNode struct {
	key   string
	count int
	prev  *countNode
}

func (c *countNode) countOf(key string) int {
	for node := c; node != nil; node = node.prev {
		if node.key == key {
			return node.count
		}
	}
	return 0
}

type pathNode struct {
	stopCode string
	prev     *pathNode
}

// Label is a partial itinerary. Labels are never mutated once built:
// extending one shares its history with the parent.
type Label struct {
	Stop         string
	Arrival      int
	RideMinutes  int
	DistanceKm   float64
	QuadrantMask int
	Score        float64

	// MinTransferGap is the shortest wait between two legs, -1 before the
	// first transfer.
	MinTransferGap int

	origin   string
	started  int
	hops     *hopNode
	hopCount int
	path     *pathNode

	legCount         int
	lastLine         string
	lastTrip         string
	lastEdgeFrom     string
	lastEdgeTo       string
	closedShortLegs  int
	closedLegMax     float64
	currentLegLength float64

	visits          *countNode
	boardings       *countNode
	uniqueStops     int
	uniqueLines     int
	stopRepeatTotal int
	stopRepeatMax   int

	radiusSum      float64
	radiusMax      float64
	centreStops    int
	quadrantRadius [4]float64

	boundaryHits int
	boundaryMin  int
	boundaryMax  int

	metrics Metrics
}

func (l *Label) Origin() string {
	return l.origin
}

func (l *Label) StartMinutes() int {
	return l.started
}

func (l *Label) LegCount() int {
	return l.legCount
}

func (l *Label) HopCount() int {
	return l.hopCount
}

func (l *Label) Transfers() int {
	if l.legCount == 0 {
		return 0
	}
	return l.legCount - 1
}

func (l *Label) UniqueStops() int {
	return l.uniqueStops
}

func (l *Label) UniqueLines() int {
	return l.uniqueLines
}

func (l *Label) Visits(stopCode string) int {
	return l.visits.countOf(stopCode)
}

func (l *Label) Visited(stopCode string) bool {
	return l.visits.countOf(stopCode) > 0
}

func (l *Label) Metrics() Metrics {
	return l.metrics
}

// Hops returns the traversed edges in travel order.
func (l *Label) Hops() []transit.TripEdge {
	hops := make([]transit.TripEdge, l.hopCount)
	i := l.hopCount - 1
	for node := l.hops; node != nil; node = node.prev {
		hops[i] = node.edge
		i--
	}
	return hops
}

// Legs returns the itinerary with consecutive hops on one trip merged.
func (l *Label) Legs() []Leg {
	return CollapseHops(l.Hops())
}

func (l *Label) pathStops() []string {
	var reversed []string
	for node := l.path; node != nil; node = node.prev {
		reversed = append(reversed, node.stopCode)
	}

	stops := make([]string, len(reversed))
	for i, stopCode := range reversed {
		stops[len(reversed)-1-i] = stopCode
	}
	return stops
}

func tripKey(edge transit.TripEdge) string {
	return edge.LineID + "/" + edge.TripID
}

// seedLabel starts an itinerary at an origin stop.
func (n *Network) seedLabel(stopCode string, start int) *Label {
	label := &Label{
		Stop:           stopCode,
		Arrival:        start,
		MinTransferGap: -1,
		origin:         stopCode,
		started:        start,
		path:           &pathNode{stopCode: stopCode},
		boundaryMin:    -1,
		boundaryMax:    -1,
	}

	label.recordFirstVisit(n, stopCode)
	label.visits = &countNode{key: stopCode, count: 1}
	label.stopRepeatMax = 1

	return label
}

func (l *Label) recordFirstVisit(n *Network, stopCode string) {
	l.uniqueStops++

	radius := n.Radius(stopCode)
	l.radiusSum += radius
	if radius > l.radiusMax {
		l.radiusMax = radius
	}
	if radius < n.InnerRadiusKm {
		l.centreStops++
	}

	quadrant := n.Quadrant(stopCode)
	l.QuadrantMask |= int(quadrant)
	if index := quadrant.Index(); index >= 0 && radius > l.quadrantRadius[index] {
		l.quadrantRadius[index] = radius
	}

	if n.Boundary.Contains(stopCode) {
		l.boundaryHits++
		index := n.Boundary.Index[stopCode]
		if l.boundaryMin == -1 || index < l.boundaryMin {
			l.boundaryMin = index
		}
		if index > l.boundaryMax {
			l.boundaryMax = index
		}
	}
}

// extend returns a new label with edge appended, or nil when the edge breaks
// one of the constraints. The parent is left untouched.
func (n *Network) extend(label *Label, edge transit.TripEdge, constraints Constraints) *Label {
	if edge.FromCode != label.Stop || edge.Arrive <= edge.Depart {
		return nil
	}
	if edge.Arrive > n.TimeLimit() {
		return nil
	}

	if label.lastEdgeFrom == edge.ToCode && label.lastEdgeTo == edge.FromCode {
		return nil
	}

	trip := tripKey(edge)
	continuing := label.hops != nil && label.lastTrip == trip && edge.Depart >= label.Arrival

	gap := edge.Depart - label.Arrival
	if !continuing {
		if label.hops == nil && gap < 0 {
			return nil
		}
		if label.hops != nil && gap < constraints.MinTransferMinutes {
			return nil
		}
	}

	visits := label.visits.countOf(edge.ToCode)
	if n.IsOrigin(edge.ToCode) {
		limit := constraints.OriginMaxVisits
		if limit == 0 {
			limit = constraints.MaxStopVisits
		}
		if limit > 0 && visits >= limit {
			return nil
		}
	} else {
		if constraints.ForbidRepeatVisits && visits > 0 {
			return nil
		}
		if constraints.MaxStopVisits > 0 && visits >= constraints.MaxStopVisits {
			return nil
		}
	}

	boardings := 0
	if !continuing {
		boardings = label.boardings.countOf(edge.LineID)
		if constraints.MaxLineVisits > 0 && boardings+1 > constraints.MaxLineVisits {
			return nil
		}
	}

	next := *label
	next.Stop = edge.ToCode
	next.Arrival = edge.Arrive
	next.RideMinutes += edge.RideMinutes()
	next.DistanceKm += edge.DistanceKm
	next.hops = &hopNode{edge: edge, prev: label.hops}
	next.hopCount++
	next.lastEdgeFrom = edge.FromCode
	next.lastEdgeTo = edge.ToCode
	next.metrics = Metrics{}
	next.Score = 0

	if continuing {
		next.currentLegLength += edge.DistanceKm
		next.path = &pathNode{stopCode: edge.ToCode, prev: label.path.prev}
	} else {
		if label.legCount > 0 {
			if label.currentLegLength < shortLegKm {
				next.closedShortLegs++
			}
			if label.currentLegLength > next.closedLegMax {
				next.closedLegMax = label.currentLegLength
			}
			if next.MinTransferGap == -1 || gap < next.MinTransferGap {
				next.MinTransferGap = gap
			}
		}

		next.legCount++
		next.lastLine = edge.LineID
		next.lastTrip = trip
		next.currentLegLength = edge.DistanceKm
		next.boardings = &countNode{key: edge.LineID, count: boardings + 1, prev: label.boardings}
		if boardings == 0 {
			next.uniqueLines++
		}
		next.path = &pathNode{stopCode: edge.ToCode, prev: label.path}
	}

	next.visits = &countNode{key: edge.ToCode, count: visits + 1, prev: label.visits}
	if visits == 0 {
		next.recordFirstVisit(n, edge.ToCode)
	} else {
		next.stopRepeatTotal++
		if visits+1 > next.stopRepeatMax {
			next.stopRepeatMax = visits + 1
		}
	}

	return &next
}
