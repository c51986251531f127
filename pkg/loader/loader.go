package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/paulmach/orb"
	"github.com/reroute-fukuoka/reroute/pkg/transit"
	"github.com/rs/zerolog/log"
)

const (
	StationsFile = "stations.csv"
	LinesFile    = "freepass_lines.yml"
	BoundaryFile = "city_boundary.geojson"

	SegmentsPrefix  = "segments_"
	TimetablePrefix = "timetable_"
)

var (
	ErrNoStations        = errors.New("no valid stations")
	ErrNoEligibleLines   = errors.New("no eligible freepass lines")
	ErrNoOrigins         = errors.New("no origin stops detected")
	ErrNoTimetable       = errors.New("no segments or timetable data")
	ErrBadSegmentsHeader = errors.New("segments csv is missing required columns")
)

// Dataset is everything the planner needs from one data directory.
type Dataset struct {
	Stations    map[string]transit.Station
	StationList []transit.Station

	LineNames     map[string]string
	EligibleLines []string

	Origins   []string
	CentreLat float64
	CentreLon float64

	Boundary []orb.Ring
	Edges    []transit.TripEdge

	DataFile string
}

// Centre returns the primary origin station.
func (d *Dataset) Centre() transit.Station {
	if len(d.Origins) == 0 {
		return transit.Station{Lat: d.CentreLat, Lon: d.CentreLon}
	}
	return d.Stations[d.Origins[0]]
}

// Directory loads a dataset from CSV, YAML and GeoJSON files on disk.
type Directory struct {
	Path string

	OriginKeywords  []string
	FallbackLat     float64
	FallbackLon     float64
	FallbackOrigins int
}

func NewDirectory(path string) *Directory {
	return &Directory{
		Path:            path,
		OriginKeywords:  DefaultOriginKeywords,
		FallbackLat:     DefaultFallbackLat,
		FallbackLon:     DefaultFallbackLon,
		FallbackOrigins: DefaultFallbackOrigins,
	}
}

// LatestDataFile returns the newest segments file, or the newest timetable
// file when there are no segments.
func (d *Directory) LatestDataFile() (string, error) {
	for _, prefix := range []string{SegmentsPrefix, TimetablePrefix} {
		matches, err := filepath.Glob(filepath.Join(d.Path, prefix+"*.csv"))
		if err != nil {
			return "", err
		}

		type candidate struct {
			path    string
			modTime int64
		}
		var candidates []candidate
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			candidates = append(candidates, candidate{path: match, modTime: info.ModTime().UnixNano()})
		}
		if len(candidates) == 0 {
			continue
		}

		sort.SliceStable(candidates, func(i, j int) bool {
			if candidates[i].modTime != candidates[j].modTime {
				return candidates[i].modTime > candidates[j].modTime
			}
			return candidates[i].path > candidates[j].path
		})
		return candidates[0].path, nil
	}

	return "", ErrNoTimetable
}

// Fingerprint identifies the current state of the input files. It changes
// whenever a newer data file appears or an input file is modified.
func (d *Directory) Fingerprint() (string, error) {
	dataFile, err := d.LatestDataFile()
	if err != nil {
		return "", err
	}

	var parts []string
	for _, path := range []string{
		dataFile,
		filepath.Join(d.Path, StationsFile),
		filepath.Join(d.Path, LinesFile),
		filepath.Join(d.Path, BoundaryFile),
	} {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s@%d", filepath.Base(path), info.ModTime().UnixNano()))
	}

	return strings.Join(parts, "|"), nil
}

func (d *Directory) Load(ctx context.Context) (*Dataset, error) {
	dataset := &Dataset{}

	stations, err := loadStations(filepath.Join(d.Path, StationsFile))
	if err != nil {
		return nil, err
	}
	dataset.StationList = stations
	dataset.Stations = make(map[string]transit.Station, len(stations))
	for _, station := range stations {
		dataset.Stations[station.Code] = station
	}
	log.Info().Int("length", len(stations)).Msg("Loaded stations")

	dataset.LineNames, dataset.EligibleLines, err = loadLines(filepath.Join(d.Path, LinesFile))
	if err != nil {
		return nil, err
	}

	dataset.Origins = DetectOrigins(stations, d.OriginKeywords, d.FallbackLat, d.FallbackLon, d.FallbackOrigins)
	if len(dataset.Origins) == 0 {
		return nil, ErrNoOrigins
	}
	centre := dataset.Stations[dataset.Origins[0]]
	dataset.CentreLat, dataset.CentreLon = centre.Lat, centre.Lon

	dataset.Boundary = loadBoundary(filepath.Join(d.Path, BoundaryFile))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dataset.DataFile, err = d.LatestDataFile()
	if err != nil {
		return nil, err
	}

	reader := edgeReader{stations: dataset.Stations, lineNames: dataset.LineNames, eligible: map[string]bool{}}
	for _, line := range dataset.EligibleLines {
		reader.eligible[line] = true
	}

	if strings.HasPrefix(filepath.Base(dataset.DataFile), SegmentsPrefix) {
		dataset.Edges, err = reader.segments(dataset.DataFile)
	} else {
		dataset.Edges, err = reader.timetable(dataset.DataFile)
	}
	if err != nil {
		return nil, err
	}
	if len(dataset.Edges) == 0 {
		return nil, fmt.Errorf("%s: %w", filepath.Base(dataset.DataFile), ErrNoTimetable)
	}

	log.Info().
		Str("file", filepath.Base(dataset.DataFile)).
		Int("edges", len(dataset.Edges)).
		Int("origins", len(dataset.Origins)).
		Int("boundary_rings", len(dataset.Boundary)).
		Msg("Loaded dataset")

	return dataset, nil
}
