package loader

import (
	"sort"
	"strings"

	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

const (
	DefaultFallbackLat     = 33.589
	DefaultFallbackLon     = 130.42
	DefaultFallbackOrigins = 3
)

// DefaultOriginKeywords match the stops around Hakata station and its bus
// terminal, including the half-width katakana used in the source data.
var DefaultOriginKeywords = []string{"博多", "博多ﾊﾞｽﾀｰﾐﾅﾙ", "博多駅前", "博多ﾊﾞｽﾀ"}

// DetectOrigins returns the stations whose name contains any keyword, in
// input order. When none match it falls back to the stations nearest the
// given coordinate.
func DetectOrigins(stations []transit.Station, keywords []string, lat float64, lon float64, fallback int) []string {
	var origins []string
	for _, station := range stations {
		for _, keyword := range keywords {
			if keyword != "" && strings.Contains(station.Name, keyword) {
				origins = append(origins, station.Code)
				break
			}
		}
	}
	if len(origins) > 0 {
		return origins
	}

	nearest := append([]transit.Station(nil), stations...)
	squaredDistance := func(station transit.Station) float64 {
		return (station.Lat-lat)*(station.Lat-lat) + (station.Lon-lon)*(station.Lon-lon)
	}
	sort.SliceStable(nearest, func(i, j int) bool {
		return squaredDistance(nearest[i]) < squaredDistance(nearest[j])
	})

	if fallback > len(nearest) {
		fallback = len(nearest)
	}
	for _, station := range nearest[:fallback] {
		origins = append(origins, station.Code)
	}
	return origins
}
