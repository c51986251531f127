package timetable

import (
	"sort"

	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

// StopSchedule lists every edge leaving a stop ordered by departure. The
// Departures slice mirrors Edges so it can be binary searched.
type StopSchedule struct {
	StopCode   string
	Departures []int
	Edges      []transit.TripEdge
}

// From returns the edges departing at or after earliest.
func (s *StopSchedule) From(earliest int) []transit.TripEdge {
	if s == nil {
		return nil
	}

	index := sort.SearchInts(s.Departures, earliest)
	return s.Edges[index:]
}

func lessEdge(a transit.TripEdge, b transit.TripEdge) bool {
	if a.Depart != b.Depart {
		return a.Depart < b.Depart
	}
	if a.Arrive != b.Arrive {
		return a.Arrive < b.Arrive
	}
	if a.LineID != b.LineID {
		return a.LineID < b.LineID
	}
	if a.TripID != b.TripID {
		return a.TripID < b.TripID
	}
	return a.ToCode < b.ToCode
}

func buildStopSchedules(edges []transit.TripEdge) map[string]*StopSchedule {
	schedules := map[string]*StopSchedule{}

	for _, edge := range edges {
		schedule, exists := schedules[edge.FromCode]
		if !exists {
			schedule = &StopSchedule{StopCode: edge.FromCode}
			schedules[edge.FromCode] = schedule
		}
		schedule.Edges = append(schedule.Edges, edge)
	}

	for _, schedule := range schedules {
		sort.SliceStable(schedule.Edges, func(i, j int) bool {
			return lessEdge(schedule.Edges[i], schedule.Edges[j])
		})

		schedule.Departures = make([]int, len(schedule.Edges))
		for i, edge := range schedule.Edges {
			schedule.Departures[i] = edge.Depart
		}
	}

	return schedules
}
