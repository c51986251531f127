package realtime

import (
	"context"
	"strings"

	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

const StatusCancelled = "cancelled"

// Patch is a realtime correction to one scheduled segment. A patch with no
// FromCode and ToCode applies to every segment of the trip.
type Patch struct {
	TripID   string
	FromCode string
	ToCode   string

	HasTimes bool
	Depart   int
	Arrive   int

	Status       string
	DelayMinutes int
}

func (p Patch) Cancelled() bool {
	return strings.EqualFold(p.Status, StatusCancelled) || strings.EqualFold(p.Status, "canceled")
}

func (p Patch) TripWide() bool {
	return p.FromCode == "" && p.ToCode == ""
}

type TripQuery struct {
	LineID    string
	TripID    string
	Direction string
}

// Source fetches realtime patches for the given trips.
type Source interface {
	Name() string
	Fetch(ctx context.Context, queries []TripQuery) ([]Patch, error)
}

type segmentKey struct {
	tripID string
	from   string
	to     string
}

// apply returns the edge with the patch applied and false when the edge is
// cancelled. Patch times are clock minutes and are moved onto the edge's
// service day.
func (p Patch) apply(edge transit.TripEdge) (transit.TripEdge, bool) {
	if p.Cancelled() {
		return edge, false
	}
	if !p.HasTimes {
		return edge, true
	}

	depart := p.Depart
	for depart+transit.MinutesPerDay/2 < edge.Depart {
		depart += transit.MinutesPerDay
	}
	for depart-transit.MinutesPerDay/2 > edge.Depart {
		depart -= transit.MinutesPerDay
	}
	arrive := p.Arrive + (depart - p.Depart)
	for arrive < depart {
		arrive += transit.MinutesPerDay
	}

	edge.Depart = depart
	edge.Arrive = arrive
	return edge, true
}
