package ekispert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/reroute-fukuoka/reroute/pkg/realtime"
)

type response struct {
	ResultSet struct {
		Bus oneOrMany[busEntry] `json:"Bus"`
	} `json:"ResultSet"`
}

type tripInfo struct {
	TripID            string `json:"tripId"`
	TripIDUpper       string `json:"TripID"`
	ID                string `json:"id"`
	OperationLineCode string `json:"operationLineCode"`
	LineID            string `json:"line_id"`
	Status            string `json:"status"`
}

func (t tripInfo) id() string {
	for _, value := range []string{t.TripID, t.TripIDUpper, t.ID} {
		if value != "" {
			return value
		}
	}
	return ""
}

type busEntry struct {
	tripInfo
	Trip *tripInfo             `json:"Trip"`
	Stop oneOrMany[stopUpdate] `json:"Stop"`
}

func (b busEntry) trip() tripInfo {
	if b.Trip != nil {
		return *b.Trip
	}
	return b.tripInfo
}

type stopUpdate struct {
	FromCode  string     `json:"fromCode"`
	From      string     `json:"from"`
	FromStop  string     `json:"from_stop"`
	ToCode    string     `json:"toCode"`
	To        string     `json:"to"`
	ToStop    string     `json:"to_stop"`
	Departure clockValue `json:"departure"`
	Arrival   clockValue `json:"arrival"`
	Status    string     `json:"status"`
	Delay     *int       `json:"delay"`
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

// oneOrMany decodes either a single object or an array of them.
type oneOrMany[T any] []T

func (o *oneOrMany[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*o = nil
		return nil
	}

	if trimmed[0] == '[' {
		var many []T
		if err := json.Unmarshal(trimmed, &many); err != nil {
			return err
		}
		*o = many
		return nil
	}

	var one T
	if err := json.Unmarshal(trimmed, &one); err != nil {
		return err
	}
	*o = []T{one}
	return nil
}

// clockValue is minutes after midnight, given as "HH:MM" or a number.
type clockValue struct {
	Minutes int
	Valid   bool
}

func (c *clockValue) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	if trimmed[0] != '"' {
		var number float64
		if err := json.Unmarshal(trimmed, &number); err != nil {
			return err
		}
		c.Minutes, c.Valid = int(number), true
		return nil
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return err
	}
	minutes, ok := parseClock(text)
	c.Minutes, c.Valid = minutes, ok
	return nil
}

func parseClock(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	if minutes, err := strconv.Atoi(text); err == nil {
		return minutes, true
	}

	parts := strings.Split(text, ":")
	if len(parts) < 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return hours*60 + minutes, true
}

// ParsePayload converts a trip response into segment patches. Entries
// without a trip id or stop codes are ignored.
func ParsePayload(body []byte) ([]realtime.Patch, error) {
	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decoding ekispert payload: %w", err)
	}

	var patches []realtime.Patch
	for _, entry := range payload.ResultSet.Bus {
		trip := entry.trip()
		tripID := trip.id()
		if tripID == "" {
			continue
		}

		for _, stop := range entry.Stop {
			from := firstNonEmpty(stop.FromCode, stop.From, stop.FromStop)
			to := firstNonEmpty(stop.ToCode, stop.To, stop.ToStop)
			if from == "" || to == "" {
				continue
			}

			patch := realtime.Patch{
				TripID:   tripID,
				FromCode: from,
				ToCode:   to,
				Status:   firstNonEmpty(stop.Status, trip.Status),
			}
			if stop.Departure.Valid && stop.Arrival.Valid {
				patch.HasTimes = true
				patch.Depart = stop.Departure.Minutes
				patch.Arrive = stop.Arrival.Minutes
			}
			if stop.Delay != nil {
				patch.DelayMinutes = *stop.Delay
			}

			patches = append(patches, patch)
		}
	}

	return patches, nil
}
