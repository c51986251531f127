package challenges

import (
	"context"
	"fmt"

	"github.com/reroute-fukuoka/reroute/pkg/geometry"
	"github.com/reroute-fukuoka/reroute/pkg/loader"
	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

func station(code string, lat float64, lon float64) transit.Station {
	return transit.Station{Code: code, Name: "Stop " + code, Lat: lat, Lon: lon}
}

func tripEdges(stations map[string]transit.Station, line string, direction string, tripID string, stops []string, times []int) []transit.TripEdge {
	var edges []transit.TripEdge
	for i := 0; i+1 < len(stops); i++ {
		from := stations[stops[i]]
		to := stations[stops[i+1]]

		edges = append(edges, transit.TripEdge{
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
	return edges
}

// loopDataset has a 200 minute loop O-A-B-C-D-E-O over three lines and a
// quicker way home from B.
func loopDataset() *loader.Dataset {
	list := []transit.Station{
		station("O", 33.590, 130.420),
		station("A", 33.620, 130.420),
		station("B", 33.620, 130.460),
		station("C", 33.590, 130.470),
		station("D", 33.560, 130.460),
		station("E", 33.560, 130.420),
	}

	dataset := &loader.Dataset{
		Stations:      map[string]transit.Station{},
		StationList:   list,
		LineNames:     map[string]string{"L1": "Line L1", "L2": "Line L2", "L3": "Line L3"},
		EligibleLines: []string{"L1", "L2", "L3"},
		Origins:       []string{"O"},
		CentreLat:     33.590,
		CentreLon:     130.420,
	}
	for _, s := range list {
		dataset.Stations[s.Code] = s
	}

	dataset.Edges = append(dataset.Edges, tripEdges(dataset.Stations, "L1", "out", "t1", []string{"O", "A", "B"}, []int{430, 460, 490})...)
	dataset.Edges = append(dataset.Edges, tripEdges(dataset.Stations, "L1", "in", "t2", []string{"B", "O"}, []int{510, 550})...)
	dataset.Edges = append(dataset.Edges, tripEdges(dataset.Stations, "L2", "out", "t3", []string{"B", "C", "D"}, []int{500, 540, 580})...)
	dataset.Edges = append(dataset.Edges, tripEdges(dataset.Stations, "L3", "out", "t4", []string{"D", "E", "O"}, []int{590, 620, 650})...)

	return dataset
}

type fakeSource struct {
	fingerprint string
	dataset     *loader.Dataset
	err         error
	loads       int
}

func newFakeSource() *fakeSource {
	return &fakeSource{fingerprint: "v1", dataset: loopDataset()}
}

func (f *fakeSource) Fingerprint() (string, error) {
	return f.fingerprint, nil
}

func (f *fakeSource) Load(ctx context.Context) (*loader.Dataset, error) {
	f.loads++
	if f.err != nil {
		return nil, fmt.Errorf("loading %s: %w", f.fingerprint, f.err)
	}
	return f.dataset, nil
}
