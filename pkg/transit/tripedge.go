package transit

import "fmt"

// TripEdge is a single scheduled hop of one vehicle trip between two
// adjacent stops. Times are minutes since the start of the service day and
// may exceed 1440 for trips that run past midnight.
type TripEdge struct {
	LineID      string
	LineName    string
	TripID      string
	Direction   string
	ServiceDate string

	FromCode string
	FromName string
	FromLat  float64
	FromLon  float64

	ToCode string
	ToName string
	ToLat  float64
	ToLon  float64

	Depart     int
	Arrive     int
	DistanceKm float64
}

func (e TripEdge) RideMinutes() int {
	return e.Arrive - e.Depart
}

// TripKey identifies the vehicle trip the edge belongs to.
func (e TripEdge) TripKey() string {
	return fmt.Sprintf("%s/%s/%s/%s", e.LineID, e.Direction, e.ServiceDate, e.TripID)
}

// SameTrip reports whether two edges are served by the same vehicle trip.
func (e TripEdge) SameTrip(other TripEdge) bool {
	return e.LineID == other.LineID && e.TripID == other.TripID
}

// NormaliseArrival rolls arrive forward by whole days until it is after depart.
func NormaliseArrival(depart int, arrive int) int {
	for arrive <= depart {
		arrive += MinutesPerDay
	}
	return arrive
}
