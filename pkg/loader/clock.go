package loader

import (
	"strconv"
	"strings"
	"time"

	"github.com/reroute-fukuoka/reroute/pkg/transit"
)

// rolloverThresholdMinutes is how far a time may go backwards within one
// trip before it is taken to be on the next day.
const rolloverThresholdMinutes = 600

var timetableLayouts = []string{
	"20060102150405",
	"200601021504",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// clockNormaliser turns the times of one trip into minutes since the start of
// its service date, rolling forward a day whenever the times jump back.
type clockNormaliser struct {
	base     time.Time
	previous int
	started  bool
	rollover int
}

func newClockNormaliser(serviceDate string) *clockNormaliser {
	base, err := time.Parse("20060102", strings.TrimSpace(serviceDate))
	if err != nil {
		base = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return &clockNormaliser{base: base}
}

func (c *clockNormaliser) minutes(raw string) (int, bool) {
	minutes, ok := parseTimetableClock(raw, c.base)
	if !ok {
		return 0, false
	}

	if c.started && minutes+c.rollover+rolloverThresholdMinutes < c.previous {
		c.rollover += transit.MinutesPerDay
	}
	minutes += c.rollover

	c.previous = minutes
	c.started = true
	return minutes, true
}

// parseTimetableClock understands HHMM, HH:MM and full timestamps. Full
// timestamps are measured from base, so other dates give offsets in days.
func parseTimetableClock(raw string, base time.Time) (int, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return 0, false
	}

	if len(text) == 4 && isDigits(text) {
		hours, _ := strconv.Atoi(text[:2])
		minutes, _ := strconv.Atoi(text[2:])
		return hours*60 + minutes, true
	}
	if len(text) == 5 && text[2] == ':' {
		hours, err := strconv.Atoi(text[:2])
		if err != nil {
			return 0, false
		}
		minutes, err := strconv.Atoi(text[3:])
		if err != nil {
			return 0, false
		}
		return hours*60 + minutes, true
	}

	if parsed, err := time.Parse(time.RFC3339, text); err == nil {
		wall := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), parsed.Hour(), parsed.Minute(), parsed.Second(), 0, time.UTC)
		return int(wall.Sub(base) / time.Minute), true
	}

	text = strings.TrimSuffix(text, "Z")
	for _, layout := range timetableLayouts {
		if parsed, err := time.Parse(layout, text); err == nil {
			return int(parsed.Sub(base) / time.Minute), true
		}
	}
	return 0, false
}

func isDigits(text string) bool {
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
