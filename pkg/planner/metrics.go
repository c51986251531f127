package planner

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/reroute-fukuoka/reroute/pkg/geometry"
)

// Metrics are the coverage figures strategies score and compare labels on.
type Metrics struct {
	UniqueLines int
	UniqueStops int
	Quadrants   int

	AvgRadius         float64
	MaxRadius         float64
	MinQuadrantRadius float64
	CentreRatio       float64

	HullArea  float64
	AngleSpan float64
	TurnSum   float64

	RepeatPenalty  int
	ShortLegRatio  float64
	AvgLegDistance float64
	MaxLegDistance float64

	BoundaryHits     int
	BoundaryRatio    float64
	BoundaryProgress float64

	StopRepeatTotal int
	StopRepeatMax   int
}

// measure derives the label metrics from its running aggregates. The path
// geometry is only walked when withGeometry is set.
func (n *Network) measure(label *Label, withGeometry bool) Metrics {
	metrics := Metrics{
		UniqueLines:     label.uniqueLines,
		UniqueStops:     label.uniqueStops,
		Quadrants:       geometry.QuadrantCount(label.QuadrantMask),
		MaxRadius:       label.radiusMax,
		RepeatPenalty:   label.legCount - label.uniqueLines,
		BoundaryHits:    label.boundaryHits,
		StopRepeatTotal: label.stopRepeatTotal,
		StopRepeatMax:   label.stopRepeatMax,
	}

	if metrics.RepeatPenalty < 0 {
		metrics.RepeatPenalty = 0
	}

	if label.uniqueStops > 0 {
		metrics.AvgRadius = label.radiusSum / float64(label.uniqueStops)
		metrics.CentreRatio = float64(label.centreStops) / float64(label.uniqueStops)
	}

	metrics.MinQuadrantRadius = label.quadrantRadius[0]
	for _, radius := range label.quadrantRadius[1:] {
		metrics.MinQuadrantRadius = math.Min(metrics.MinQuadrantRadius, radius)
	}

	if label.legCount > 0 {
		shortLegs := label.closedShortLegs
		if label.currentLegLength < shortLegKm {
			shortLegs++
		}
		metrics.ShortLegRatio = float64(shortLegs) / float64(label.legCount)
		metrics.AvgLegDistance = label.DistanceKm / float64(label.legCount)
		metrics.MaxLegDistance = math.Max(label.closedLegMax, label.currentLegLength)
	}

	if boundaryStops := len(n.Boundary.Stops()); boundaryStops > 0 {
		metrics.BoundaryRatio = float64(label.boundaryHits) / float64(boundaryStops)
	}
	if label.boundaryMin >= 0 && len(n.Boundary.Sequence) > 0 {
		metrics.BoundaryProgress = math.Min(1, float64(label.boundaryMax-label.boundaryMin)/float64(len(n.Boundary.Sequence)))
	}

	if withGeometry {
		stops := label.pathStops()
		points := make([]orb.Point, 0, len(stops))
		for _, stopCode := range stops {
			if point, ok := n.Point(stopCode); ok {
				points = append(points, point)
			}
		}

		metrics.HullArea = geometry.HullArea(points)
		metrics.AngleSpan, metrics.TurnSum = geometry.AngularMetrics(points)
	}

	return metrics
}

// evaluate fills in the metrics and score of a freshly built label.
func (n *Network) evaluate(label *Label, strategy Strategy) {
	label.metrics = n.measure(label, strategy.Constraints().Geometry)
	label.Score = strategy.Score(label)
}
