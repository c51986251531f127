package loader

import (
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/rs/zerolog/log"
)

// loadBoundary reads the outer rings of every polygon in the city boundary
// feature collection. A missing or invalid file yields no rings, which
// disables the boundary based city loop features.
func loadBoundary(path string) []orb.Ring {
	body, err := os.ReadFile(path)
	if err != nil {
		log.Warn().Str("file", BoundaryFile).Msg("City boundary not found, city loop may degrade")
		return nil
	}

	return parseBoundary(body)
}

func parseBoundary(body []byte) []orb.Ring {
	collection, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		log.Warn().Err(err).Str("file", BoundaryFile).Msg("City boundary is not a valid feature collection")
		return nil
	}

	var rings []orb.Ring
	appendRing := func(ring orb.Ring) {
		if len(ring) >= 2 {
			rings = append(rings, ring)
		}
	}

	for _, feature := range collection.Features {
		switch geometry := feature.Geometry.(type) {
		case orb.Polygon:
			if len(geometry) > 0 {
				appendRing(geometry[0])
			}
		case orb.MultiPolygon:
			for _, polygon := range geometry {
				if len(polygon) > 0 {
					appendRing(polygon[0])
				}
			}
		}
	}

	if len(rings) == 0 {
		log.Warn().Str("file", BoundaryFile).Msg("City boundary has no polygon data")
	}
	return rings
}
