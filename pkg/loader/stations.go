package loader

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

type stationRow struct {
	EkispertCode string `csv:"ekispert_station_code"`
	StationCode  string `csv:"station_code"`
	Name         string `csv:"name"`
	Lat          string `csv:"lat"`
	Lon          string `csv:"lon"`
}

func parseCoordinate(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.ParseFloat(raw, 64)
	return value, err == nil
}

// loadStations reads stations.csv in file order. Rows without a code, with
// unparsable coordinates or at 0,0 are skipped; later duplicates win.
func loadStations(path string) ([]transit.Station, error) {
	body, err := readCSVFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s not found: %w", StationsFile, ErrNoStations)
	} else if err != nil {
		return nil, err
	}

	var rows []stationRow
	if err := unmarshalCSV(body, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", StationsFile, err)
	}

	index := map[string]int{}
	var stations []transit.Station
	for _, row := range rows {
		code := strings.TrimSpace(row.EkispertCode)
		if code == "" {
			code = strings.TrimSpace(row.StationCode)
		}
		if code == "" {
			continue
		}

		lat, latOK := parseCoordinate(row.Lat)
		lon, lonOK := parseCoordinate(row.Lon)
		if !latOK || !lonOK || (lat == 0 && lon == 0) {
			continue
		}

		name := strings.TrimSpace(row.Name)
		if name == "" {
			name = code
		}

		station := transit.Station{Code: code, Name: name, Lat: lat, Lon: lon}
		if existing, exists := index[code]; exists {
			stations[existing] = station
			continue
		}
		index[code] = len(stations)
		stations = append(stations, station)
	}

	if len(stations) == 0 {
		return nil, ErrNoStations
	}
	return stations, nil
}
