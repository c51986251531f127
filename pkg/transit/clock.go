package transit

import "fmt"

const (
	MinutesPerDay = 1440

	// StartTimeMinutes is the default start of the planning horizon (07:00).
	StartTimeMinutes = 420

	// MinimumElapsedMinutes is how long a challenge must last before it may
	// finish back at the origin.
	MinimumElapsedMinutes = 120
)

// FormatClock renders minutes since the service day start as HH:MM, adding a
// +Nd prefix for times on following days.
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}

	day := minutes / MinutesPerDay
	rest := minutes % MinutesPerDay
	clock := fmt.Sprintf("%02d:%02d", rest/60, rest%60)

	if day > 0 {
		return fmt.Sprintf("+%dd %s", day, clock)
	}
	return clock
}
