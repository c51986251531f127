package transit

import "github.com/paulmach/orb"

type Station struct {
	Code string  `groups:"basic" json:"code" yaml:"code"`
	Name string  `groups:"basic" json:"name" yaml:"name"`
	Lat  float64 `groups:"basic" json:"lat" yaml:"lat"`
	Lon  float64 `groups:"basic" json:"lon" yaml:"lon"`
}

// Point returns the station as an orb point (lon, lat).
func (s Station) Point() orb.Point {
	return orb.Point{s.Lon, s.Lat}
}

func (s Station) Valid() bool {
	return s.Code != "" && s.Lat != 0 && s.Lon != 0
}
