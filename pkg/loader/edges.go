package loader

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/reroute-fukuoka/reroute/pkg/geometry"
	"github.com/reroute-fukuoka/reroute/pkg/transit"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

var requiredSegmentColumns = []string{
	"line_id",
	"direction",
	"service_date",
	"segment_id",
	"from_stop",
	"to_stop",
	"depart",
	"arrive",
}

type segmentRow struct {
	LineID      string `csv:"line_id"`
	Direction   string `csv:"direction"`
	ServiceDate string `csv:"service_date"`
	SegmentID   string `csv:"segment_id"`
	TripID      string `csv:"trip_id"`
	FromStop    string `csv:"from_stop"`
	FromName    string `csv:"from_name"`
	ToStop      string `csv:"to_stop"`
	ToName      string `csv:"to_name"`
	Depart      string `csv:"depart"`
	Arrive      string `csv:"arrive"`
}

type timetableRow struct {
	LineCode    string `csv:"operationLineCode"`
	Direction   string `csv:"direction"`
	ServiceDate string `csv:"service_date"`
	TripID      string `csv:"trip_id"`
	StationCode string `csv:"station_code"`
	StopSeq     string `csv:"stop_seq"`
	Dep         string `csv:"dep"`
	Departure   string `csv:"Departure"`
	Arr         string `csv:"arr"`
	Arrival     string `csv:"Arrival"`
}

type edgeReader struct {
	stations  map[string]transit.Station
	lineNames map[string]string
	eligible  map[string]bool
}

func (r edgeReader) edge(lineID string, tripID string, direction string, serviceDate string, from transit.Station, to transit.Station, depart int, arrive int) transit.TripEdge {
	lineName := r.lineNames[lineID]
	if lineName == "" {
		lineName = lineID
	}

	return transit.TripEdge{
		LineID:      lineID,
		LineName:    lineName,
		TripID:      tripID,
		Direction:   direction,
		ServiceDate: serviceDate,
		FromCode:    from.Code,
		FromName:    from.Name,
		FromLat:     from.Lat,
		FromLon:     from.Lon,
		ToCode:      to.Code,
		ToName:      to.Name,
		ToLat:       to.Lat,
		ToLon:       to.Lon,
		Depart:      depart,
		Arrive:      arrive,
		DistanceKm:  geometry.HaversineKm(from.Lat, from.Lon, to.Lat, to.Lon),
	}
}

// segments reads a pre-split segments file. Each row is one hop; rows on
// ineligible lines or unknown stops are skipped.
func (r edgeReader) segments(path string) ([]transit.TripEdge, error) {
	body, err := readCSVFile(path)
	if err != nil {
		return nil, err
	}

	header, err := csvHeader(body)
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", filepath.Base(path), err)
	}
	for _, column := range requiredSegmentColumns {
		if !slices.Contains(header, column) {
			return nil, fmt.Errorf("%s lacks %q: %w", filepath.Base(path), column, ErrBadSegmentsHeader)
		}
	}

	var rows []segmentRow
	if err := unmarshalCSV(body, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	var edges []transit.TripEdge
	for _, row := range rows {
		if !r.eligible[row.LineID] {
			continue
		}
		from, fromExists := r.stations[row.FromStop]
		to, toExists := r.stations[row.ToStop]
		if !fromExists || !toExists {
			continue
		}

		depart, departOK := parseSegmentClock(row.Depart)
		arrive, arriveOK := parseSegmentClock(row.Arrive)
		if !departOK || !arriveOK {
			continue
		}
		arrive = transit.NormaliseArrival(depart, arrive)

		tripID := row.TripID
		if tripID == "" {
			tripID = row.SegmentID
		}
		if tripID == "" {
			tripID = fmt.Sprintf("%s-%s-%s", row.LineID, row.FromStop, row.ToStop)
		}

		edge := r.edge(row.LineID, tripID, row.Direction, row.ServiceDate, from, to, depart, arrive)
		if row.FromName != "" {
			edge.FromName = row.FromName
		}
		if row.ToName != "" {
			edge.ToName = row.ToName
		}
		edges = append(edges, edge)
	}

	return edges, nil
}

// parseSegmentClock accepts HH:MM with an optional seconds suffix.
func parseSegmentClock(raw string) (int, bool) {
	text := strings.TrimSpace(raw)
	if len(text) < 5 || text[2] != ':' {
		return 0, false
	}

	hours, err := strconv.Atoi(text[0:2])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(text[3:5])
	if err != nil {
		return 0, false
	}
	return hours*60 + minutes, true
}

type tripKey struct {
	line        string
	direction   string
	serviceDate string
	tripID      string
}

type sequencedRow struct {
	sequence int
	row      timetableRow
}

// timetable reads a stop-times style file: one row per trip stop. Rows are
// grouped per trip, ordered by stop sequence and paired into hops.
func (r edgeReader) timetable(path string) ([]transit.TripEdge, error) {
	body, err := readCSVFile(path)
	if err != nil {
		return nil, err
	}

	var rows []timetableRow
	if err := unmarshalCSV(body, &rows); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	var keys []tripKey
	trips := map[tripKey][]sequencedRow{}
	for _, row := range rows {
		if !r.eligible[row.LineCode] {
			continue
		}
		if _, exists := r.stations[row.StationCode]; !exists {
			continue
		}

		sequence, err := strconv.Atoi(strings.TrimSpace(row.StopSeq))
		if err != nil {
			sequence = 0
		}

		key := tripKey{line: row.LineCode, direction: row.Direction, serviceDate: row.ServiceDate, tripID: row.TripID}
		if _, exists := trips[key]; !exists {
			keys = append(keys, key)
		}
		trips[key] = append(trips[key], sequencedRow{sequence: sequence, row: row})
	}

	if len(trips) == 0 {
		return nil, fmt.Errorf("%s has no usable trips: %w", filepath.Base(path), ErrNoTimetable)
	}

	var edges []transit.TripEdge
	for _, key := range keys {
		tripRows := trips[key]
		sort.SliceStable(tripRows, func(i, j int) bool {
			return tripRows[i].sequence < tripRows[j].sequence
		})
		edges = append(edges, r.tripEdges(key, tripRows)...)
	}

	log.Debug().Int("trips", len(keys)).Int("edges", len(edges)).Msg("Parsed timetable")

	return edges, nil
}

type stopTimes struct {
	code   string
	depart int
	arrive int
	hasDep bool
	hasArr bool
}

func (r edgeReader) tripEdges(key tripKey, rows []sequencedRow) []transit.TripEdge {
	normaliser := newClockNormaliser(key.serviceDate)

	stops := make([]stopTimes, 0, len(rows))
	for _, sequenced := range rows {
		row := sequenced.row
		stop := stopTimes{code: row.StationCode}
		stop.depart, stop.hasDep = normaliser.minutes(firstValue(row.Dep, row.Departure))
		stop.arrive, stop.hasArr = normaliser.minutes(firstValue(row.Arr, row.Arrival))
		stops = append(stops, stop)
	}

	var edges []transit.TripEdge
	for i := 0; i+1 < len(stops); i++ {
		from, to := stops[i], stops[i+1]
		if !from.hasDep || !to.hasArr || to.arrive <= from.depart {
			continue
		}

		edges = append(edges, r.edge(
			key.line, key.tripID, key.direction, key.serviceDate,
			r.stations[from.code], r.stations[to.code],
			from.depart, to.arrive,
		))
	}
	return edges
}

func firstValue(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
