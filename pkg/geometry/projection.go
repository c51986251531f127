package geometry

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
)

const (
	kmPerDegreeLon = 111.32
	kmPerDegreeLat = 110.574
)

// Projection is an equirectangular projection to planar kilometres centred
// on an origin. X grows east and Y grows north.
type Projection struct {
	OriginLat float64
	OriginLon float64

	cosLat float64
}

func NewProjection(originLat float64, originLon float64) Projection {
	return Projection{
		OriginLat: originLat,
		OriginLon: originLon,
		cosLat:    math.Cos(originLat * math.Pi / 180),
	}
}

func (p Projection) Project(lat float64, lon float64) orb.Point {
	return orb.Point{
		(lon - p.OriginLon) * p.cosLat * kmPerDegreeLon,
		(lat - p.OriginLat) * kmPerDegreeLat,
	}
}

// ProjectRing projects a ring stored in GeoJSON order (lon, lat).
func (p Projection) ProjectRing(ring orb.Ring) orb.Ring {
	projected := make(orb.Ring, 0, len(ring))
	for _, point := range ring {
		projected = append(projected, p.Project(point.Lat(), point.Lon()))
	}
	return projected
}

// HaversineKm is the great-circle distance between two coordinates in km.
func HaversineKm(lat1 float64, lon1 float64, lat2 float64, lon2 float64) float64 {
	return geo.DistanceHaversine(orb.Point{lon1, lat1}, orb.Point{lon2, lat2}) / 1000
}

// PlanarKm is the euclidean distance between two projected points.
func PlanarKm(a orb.Point, b orb.Point) float64 {
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}
