package planner

import (
	"testing"

	"github.com/reroute-fukuoka/reroute/pkg/geometry"
	"github.com/reroute-fukuoka/reroute/pkg/timetable"
	"github.com/reroute-fukuoka/reroute/pkg/transit"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	stations map[string]transit.Station
	edges    []transit.TripEdge
}

func newFixture(stations ...transit.Station) *fixture {
	f := &fixture{stations: map[string]transit.Station{}}
	for _, station := range stations {
		f.stations[station.Code] = station
	}
	return f
}

// trip adds one vehicle run calling at stops at the given times.
func (f *fixture) trip(line string, direction string, tripID string, stops []string, times []int) {
	for i := 0; i+1 < len(stops); i++ {
		from := f.stations[stops[i]]
		to := f.stations[stops[i+1]]

		f.edges = append(f.edges, transit.TripEdge{
			LineID:     line,
			LineName:   "Line " + line,
			TripID:     tripID,
			Direction:  direction,
			FromCode:   from.Code,
			FromName:   from.Name,
			FromLat:    from.Lat,
			FromLon:    from.Lon,
			ToCode:     to.Code,
			ToName:     to.Name,
			ToLat:      to.Lat,
			ToLon:      to.Lon,
			Depart:     times[i],
			Arrive:     times[i+1],
			DistanceKm: geometry.HaversineKm(from.Lat, from.Lon, to.Lat, to.Lon),
		})
	}
}

func (f *fixture) network(t *testing.T, origin string) *Network {
	t.Helper()

	centre := f.stations[origin]
	network, err := NewNetwork(NetworkConfig{
		Stations:  f.stations,
		Origins:   []string{origin},
		CentreLat: centre.Lat,
		CentreLon: centre.Lon,
		Timetable: timetable.Build(f.edges, timetable.DefaultOptions),
	})
	require.NoError(t, err)

	return network
}

func station(code string, lat float64, lon float64) transit.Station {
	return transit.Station{Code: code, Name: "Stop " + code, Lat: lat, Lon: lon}
}

// loopFixture has one profitable loop O-A-B-C-D-E-O over three lines and a
// quicker way home from B that rides half as long.
func loopFixture() *fixture {
	f := newFixture(
		station("O", 33.590, 130.420),
		station("A", 33.620, 130.420),
		station("B", 33.620, 130.460),
		station("C", 33.590, 130.470),
		station("D", 33.560, 130.460),
		station("E", 33.560, 130.420),
	)

	f.trip("L1", "out", "t1", []string{"O", "A", "B"}, []int{430, 460, 490})
	f.trip("L1", "in", "t2", []string{"B", "O"}, []int{510, 550})
	f.trip("L2", "out", "t3", []string{"B", "C", "D"}, []int{500, 540, 580})
	f.trip("L3", "out", "t4", []string{"D", "E", "O"}, []int{590, 620, 650})

	return f
}

// ringFixture is a single circular line through seven stops with a cross
// line tempting a revisit of A.
func ringFixture() *fixture {
	f := newFixture(
		station("O", 33.590, 130.420),
		station("A", 33.610, 130.420),
		station("B", 33.620, 130.440),
		station("C", 33.600, 130.460),
		station("D", 33.580, 130.460),
		station("E", 33.560, 130.440),
		station("F", 33.570, 130.410),
	)

	ring := []string{"O", "A", "B", "C", "D", "E", "F", "O"}
	for i := 0; i < 6; i++ {
		start := 430 + i*30
		times := make([]int, len(ring))
		for j := range ring {
			times[j] = start + j*20
		}
		f.trip("R", "cw", "r"+string(rune('a'+i)), ring, times)
		f.trip("X", "in", "x"+string(rune('a'+i)), []string{"C", "A"}, []int{start + 70, start + 90})
	}

	return f
}
